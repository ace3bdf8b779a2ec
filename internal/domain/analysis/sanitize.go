package analysis

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// maxStringLen caps every free-text field to bound storage and rendering cost
	maxStringLen = 500

	// DefaultSummary is substituted when the model returns no usable summary
	DefaultSummary = "Analysis completed. Please consult with your healthcare provider to discuss these results."

	// DefaultRecommendation seeds the recommendations list when the model returns none
	DefaultRecommendation = "Discuss these results with your healthcare provider"

	// Disclaimer is appended when no recommendation mentions a healthcare provider
	Disclaimer = "Always consult with your healthcare provider to interpret these results and determine appropriate next steps."
)

// Sanitize normalizes a decoded model response into a valid Result.
// Every field is independently defaulted when missing or wrong-typed, so a
// completely malformed input still yields a Result that holds all invariants.
// analyzedAt is stamped here; the caller decides the Source.
func Sanitize(raw map[string]any, source Source, analyzedAt time.Time) *Result {
	res := &Result{
		Summary:         sanitizeString(raw["summary"]),
		KeyFindings:     sanitizeFindings(raw["keyFindings"]),
		LabResults:      sanitizeLabResults(raw["labResults"]),
		Recommendations: sanitizeRecommendations(raw["recommendations"]),
		RiskLevel:       validateRiskLevel(raw["riskLevel"]),
		FollowUpNeeded:  raw["followUpNeeded"] == true,
		AnalyzedAt:      analyzedAt,
		Source:          source,
	}
	if res.Summary == "" {
		res.Summary = DefaultSummary
	}
	if len(res.Recommendations) == 0 {
		res.Recommendations = []string{DefaultRecommendation}
	}
	ensureDisclaimer(res)
	return res
}

// ensureDisclaimer enforces the provider-consultation invariant.
func ensureDisclaimer(res *Result) {
	for _, r := range res.Recommendations {
		if strings.Contains(r, "healthcare provider") {
			return
		}
	}
	res.Recommendations = append(res.Recommendations, Disclaimer)
}

func sanitizeFindings(v any) []KeyFinding {
	arr, ok := v.([]any)
	if !ok {
		return []KeyFinding{}
	}
	out := make([]KeyFinding, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		f := KeyFinding{
			Finding: sanitizeString(m["finding"]),
			Value:   sanitizeString(m["value"]),
			Target:  sanitizeString(m["target"]),
			Risk:    validateRiskLevel(m["risk"]),
		}
		if f.Finding == "" {
			f.Finding = "Finding"
		}
		if f.Value == "" {
			f.Value = "N/A"
		}
		if f.Target == "" {
			f.Target = "N/A"
		}
		out = append(out, f)
	}
	return out
}

func sanitizeLabResults(v any) []LabResult {
	arr, ok := v.([]any)
	if !ok {
		return []LabResult{}
	}
	out := make([]LabResult, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lr := LabResult{
			Test:     sanitizeString(m["test"]),
			Value:    sanitizeString(m["value"]),
			Unit:     sanitizeString(m["unit"]),
			RefRange: sanitizeString(m["refRange"]),
			Flag:     validateFlag(m["flag"]),
		}
		if lr.Test == "" {
			lr.Test = "Test"
		}
		if lr.Value == "" {
			lr.Value = "N/A"
		}
		if lr.RefRange == "" {
			lr.RefRange = "N/A"
		}
		out = append(out, lr)
	}
	return out
}

func sanitizeRecommendations(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := sanitizeString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// sanitizeString trims and length-caps; non-strings collapse to ""
func sanitizeString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if len(s) > maxStringLen {
		// Cut on a rune boundary so the capped string stays valid UTF-8.
		cut := maxStringLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

func validateRiskLevel(v any) RiskLevel {
	switch RiskLevel(sanitizeString(v)) {
	case RiskLow:
		return RiskLow
	case RiskHigh:
		return RiskHigh
	case RiskCritical:
		return RiskCritical
	case RiskModerate:
		return RiskModerate
	}
	return RiskModerate
}

func validateFlag(v any) Flag {
	switch Flag(sanitizeString(v)) {
	case FlagHigh:
		return FlagHigh
	case FlagLow:
		return FlagLow
	case FlagCritical:
		return FlagCritical
	case FlagNormal:
		return FlagNormal
	}
	return FlagNormal
}
