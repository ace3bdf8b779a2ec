package ai

import (
	"context"

	"github.com/healtrack/healtrack-api/internal/domain/analysis"
)

// Client is the port to the external model provider. Implementations must
// sanitize analysis output before returning it, so every Result crossing this
// boundary already holds the analysis invariants.
type Client interface {
	// AnalyzeDocument turns extracted document text into a structured result.
	// documentType is a free-form hint such as "lab_report".
	AnalyzeDocument(ctx context.Context, documentText, documentType string) (*analysis.Result, error)

	// ExtractText performs best-effort OCR on a base64 data-URL image.
	ExtractText(ctx context.Context, imageDataURL string) (string, error)

	// GenerateInsight produces a brief, encouraging health tip from recent
	// findings serialized as JSON.
	GenerateInsight(ctx context.Context, findingsJSON string) (string, error)
}
