package reports

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healtrack/healtrack-api/internal/application"
	domai "github.com/healtrack/healtrack-api/internal/domain/ai"
	"github.com/healtrack/healtrack-api/internal/domain/analysis"
	domain "github.com/healtrack/healtrack-api/internal/domain/reports"
)

// signedURLTTL for report download links
const signedURLTTL = time.Hour

// Service implements the report ingestion use-cases: upload and analysis are
// independently triggerable operations over the same Report entity. Safe for
// concurrent use.
type Service struct {
	Repo  domain.Repository
	Files domain.FileStore
	AI    domai.Client
	Clock application.Clock
}

//
// ==== USE CASES ====
//

// UploadCommand carries one file upload
type UploadCommand struct {
	UserID   string
	FileName string
	MimeType string
	Content  []byte
}

type UploadResult struct {
	ReportID         string        `json:"reportId"`
	FileName         string        `json:"fileName"`
	Status           domain.Status `json:"status"`
	HasExtractedText bool          `json:"hasExtractedText"`
}

// Upload stores the file, attempts text extraction for images, and appends a
// Report record. Steps run sequentially with no rollback: a storage failure
// aborts before any record exists; an extraction failure degrades the record
// with a sentinel string and the upload still succeeds.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) (UploadResult, error) {
	if err := validateUpload(cmd); err != nil {
		return UploadResult{}, err
	}

	now := s.Clock.Now()
	key := fmt.Sprintf("%s/%d-%s", cmd.UserID, now.UnixMilli(), safeFileName(cmd.FileName))

	path, err := s.Files.Put(ctx, key, bytes.NewReader(cmd.Content), int64(len(cmd.Content)), cmd.MimeType)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	report := &domain.Report{
		ID:          domain.ReportID(uuid.New().String()),
		UserID:      cmd.UserID,
		FileName:    cmd.FileName,
		MimeType:    cmd.MimeType,
		FileSize:    int64(len(cmd.Content)),
		StoragePath: path,
		UploadedAt:  now,
		Status:      domain.StatusUploaded,
	}

	if report.IsImage() {
		dataURL := fmt.Sprintf("data:%s;base64,%s", cmd.MimeType, base64.StdEncoding.EncodeToString(cmd.Content))
		text, err := s.AI.ExtractText(ctx, dataURL)
		if err != nil {
			log.Printf("text extraction failed user=%s file=%s: %v", cmd.UserID, cmd.FileName, err)
			text = domain.ExtractionFailedSentinel
		}
		report.ExtractedText = text
	}

	if err := s.Repo.Append(ctx, cmd.UserID, report); err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		ReportID:         string(report.ID),
		FileName:         report.FileName,
		Status:           report.Status,
		HasExtractedText: report.HasExtractedText(),
	}, nil
}

// Analyze runs document analysis for an existing report. Once the report is
// found this never fails for analyzer reasons: any analyzer error, missing
// extracted text, or the extraction sentinel substitutes the canned fallback.
// Re-running replaces the previous result.
func (s *Service) Analyze(ctx context.Context, userID string, id domain.ReportID, documentType string) (*analysis.Result, error) {
	report, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if documentType == "" {
		documentType = "lab_report"
	}

	var result *analysis.Result
	if report.HasExtractedText() {
		result, err = s.AI.AnalyzeDocument(ctx, report.ExtractedText, documentType)
		if err != nil {
			log.Printf("ai analysis failed, using fallback user=%s report=%s: %v", userID, id, err)
			result = analysis.Fallback(s.Clock.Now())
		}
	} else {
		result = analysis.Fallback(s.Clock.Now())
	}

	if err := s.Repo.SetAnalysis(ctx, userID, id, result); err != nil {
		return nil, err
	}
	return result, nil
}

// List returns all reports for the user in insertion order, each storage path
// resolved to a time-limited signed URL. Signing failures degrade to a report
// without a URL rather than failing the call.
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Report, error) {
	list, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		if r.StoragePath == "" {
			continue
		}
		url, err := s.Files.SignedURL(ctx, r.StoragePath, signedURLTTL)
		if err != nil {
			log.Printf("signed url failed user=%s report=%s: %v", userID, r.ID, err)
			continue
		}
		r.SignedURL = url
	}
	return list, nil
}

// Get returns one report without resolving a signed URL.
func (s *Service) Get(ctx context.Context, userID string, id domain.ReportID) (*domain.Report, error) {
	return s.Repo.Get(ctx, userID, id)
}

// LatestAnalyzedFindings returns up to max key findings from the most recently
// analyzed report, serialized for the insight prompt. Empty when the user has
// no analyzed report yet.
func (s *Service) LatestAnalyzedFindings(ctx context.Context, userID string, max int) (string, error) {
	list, err := s.Repo.List(ctx, userID)
	if err != nil {
		return "", err
	}
	for i := len(list) - 1; i >= 0; i-- {
		r := list[i]
		if r.Analysis == nil {
			continue
		}
		findings := r.Analysis.KeyFindings
		if len(findings) > max {
			findings = findings[:max]
		}
		b, err := json.Marshal(findings)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", nil
}

func validateUpload(cmd UploadCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if len(cmd.Content) == 0 {
		return fmt.Errorf("%w: no file provided", domain.ErrInvalidInput)
	}
	if len(cmd.Content) > domain.MaxUploadBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, domain.MaxUploadBytes)
	}
	if !domain.AllowedMimeTypes[cmd.MimeType] {
		return fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, cmd.MimeType)
	}
	return nil
}

// safeFileName strips path separators so the object key stays user-scoped
func safeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		name = "upload"
	}
	return name
}
