package reports

import (
	"strings"
	"time"

	"github.com/healtrack/healtrack-api/internal/domain/analysis"
)

// ReportID identifies one uploaded report
type ReportID string

// Status enum. A report starts uploaded and flips to analyzed exactly once;
// re-running analysis keeps the status and replaces the result.
type Status string

const (
	StatusUploaded Status = "uploaded"
	StatusAnalyzed Status = "analyzed"
)

// ExtractionFailedSentinel is stored as extracted text when the vision call
// fails; it counts as "no extracted text" everywhere downstream.
const ExtractionFailedSentinel = "Text extraction failed - manual analysis may be needed"

// Upload constraints
const (
	MaxUploadBytes = 10 * 1024 * 1024 // 10 MiB
)

// AllowedMimeTypes for upload
var AllowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/heic":      true,
}

// Aggregate Root: Report — one uploaded document per user
type Report struct {
	ID            ReportID         `json:"id"`
	UserID        string           `json:"-"`
	FileName      string           `json:"fileName"`
	MimeType      string           `json:"mimeType"`
	FileSize      int64            `json:"fileSize"`
	StoragePath   string           `json:"storagePath"`
	UploadedAt    time.Time        `json:"uploadedAt"`
	Status        Status           `json:"status"`
	ExtractedText string           `json:"extractedText,omitempty"`
	Analysis      *analysis.Result `json:"analysis"`
	AnalyzedAt    *time.Time       `json:"analyzedAt,omitempty"`

	// SignedURL is resolved at read time, never persisted
	SignedURL string `json:"signedUrl,omitempty"`
}

// HasExtractedText reports whether extraction produced usable text.
// The failure sentinel counts as not extracted.
func (r *Report) HasExtractedText() bool {
	t := strings.TrimSpace(r.ExtractedText)
	return t != "" && t != ExtractionFailedSentinel
}

// IsImage reports whether the stored file is an image MIME type.
// Only images go through text extraction in this workflow.
func (r *Report) IsImage() bool {
	return strings.HasPrefix(r.MimeType, "image/")
}
