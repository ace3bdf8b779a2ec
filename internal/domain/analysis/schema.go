package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ResponseSchema is the JSON shape the model is asked to produce. Validation
// against it is advisory: a response that fails still goes through Sanitize,
// which defaults every field independently.
func ResponseSchema() map[string]any {
	riskEnum := []any{"low", "moderate", "high", "critical"}
	flagEnum := []any{"normal", "high", "low", "critical"}
	return map[string]any{
		"type":     "object",
		"required": []any{"summary", "recommendations", "riskLevel", "followUpNeeded"},
		"properties": map[string]any{
			"summary": map[string]any{"type": "string", "minLength": 1},
			"keyFindings": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"finding": map[string]any{"type": "string"},
						"value":   map[string]any{"type": "string"},
						"target":  map[string]any{"type": "string"},
						"risk":    map[string]any{"enum": riskEnum},
					},
				},
			},
			"labResults": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"test":     map[string]any{"type": "string"},
						"value":    map[string]any{"type": "string"},
						"unit":     map[string]any{"type": "string"},
						"refRange": map[string]any{"type": "string"},
						"flag":     map[string]any{"enum": flagEnum},
					},
				},
			},
			"recommendations": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"riskLevel":      map[string]any{"enum": riskEnum},
			"followUpNeeded": map[string]any{"type": "boolean"},
		},
	}
}

// ValidateResponse checks raw model output against ResponseSchema.
func ValidateResponse(data []byte) error {
	b, err := json.Marshal(ResponseSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("analysis.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("analysis.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}
