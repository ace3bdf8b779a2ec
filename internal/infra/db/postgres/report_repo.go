package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/healtrack/healtrack-api/internal/domain/analysis"
	domain "github.com/healtrack/healtrack-api/internal/domain/reports"
)

// ReportRepository is the Postgres twin of the MySQL repository: one row per
// (user_id, id).
type ReportRepository struct{ db *sql.DB }

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

// Append insert/update a Report record
func (r *ReportRepository) Append(ctx context.Context, userID string, rep *domain.Report) error {
	const q = `
INSERT INTO health_reports
(id, user_id, file_name, mime_type, file_size, storage_path,
 uploaded_at, status, extracted_text, analysis, analyzed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 extracted_text = EXCLUDED.extracted_text,
 analysis = EXCLUDED.analysis,
 analyzed_at = EXCLUDED.analyzed_at;`

	uploaded := rep.UploadedAt
	if uploaded.IsZero() {
		uploaded = time.Now()
	}
	analysisJSON, err := marshalAnalysis(rep.Analysis)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, q,
		rep.ID, userID, rep.FileName, rep.MimeType, rep.FileSize, rep.StoragePath,
		uploaded, stringOrDash(string(rep.Status)), rep.ExtractedText,
		analysisJSON, nullTime(rep.AnalyzedAt),
	)
	return err
}

// Get by user + ID
func (r *ReportRepository) Get(ctx context.Context, userID string, id domain.ReportID) (*domain.Report, error) {
	const q = `
SELECT id, user_id, file_name, mime_type, file_size, storage_path,
       uploaded_at, status, extracted_text, analysis, analyzed_at
FROM health_reports
WHERE user_id=$1 AND id=$2
LIMIT 1;`
	rep, err := scanReport(r.db.QueryRowContext(ctx, q, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return rep, nil
}

// List all reports for a user, insertion order preserved
func (r *ReportRepository) List(ctx context.Context, userID string) ([]*domain.Report, error) {
	const q = `
SELECT id, user_id, file_name, mime_type, file_size, storage_path,
       uploaded_at, status, extracted_text, analysis, analyzed_at
FROM health_reports
WHERE user_id=$1 ORDER BY uploaded_at ASC, id ASC;`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// SetAnalysis stores the analysis result and flips status to analyzed
func (r *ReportRepository) SetAnalysis(ctx context.Context, userID string, id domain.ReportID, res *analysis.Result) error {
	const q = `
UPDATE health_reports
SET analysis = $1, status = $2, analyzed_at = $3
WHERE user_id = $4 AND id = $5;`
	analysisJSON, err := marshalAnalysis(res)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, q, analysisJSON, domain.StatusAnalyzed, res.AnalyzedAt, userID, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return nil
}

// DeleteByUser removes every report row for the user
func (r *ReportRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM health_reports WHERE user_id=$1;`
	result, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var (
		rep          domain.Report
		extracted    sql.NullString
		analysisJSON sql.NullString
		analyzedAt   sql.NullTime
	)
	if err := row.Scan(
		&rep.ID, &rep.UserID, &rep.FileName, &rep.MimeType, &rep.FileSize, &rep.StoragePath,
		&rep.UploadedAt, &rep.Status, &extracted, &analysisJSON, &analyzedAt,
	); err != nil {
		return nil, err
	}
	rep.ExtractedText = extracted.String
	if analyzedAt.Valid {
		t := analyzedAt.Time
		rep.AnalyzedAt = &t
	}
	if analysisJSON.Valid && analysisJSON.String != "" {
		var res analysis.Result
		if err := json.Unmarshal([]byte(analysisJSON.String), &res); err != nil {
			return nil, fmt.Errorf("decoding stored analysis for report %s: %w", rep.ID, err)
		}
		rep.Analysis = &res
	}
	return &rep, nil
}

func marshalAnalysis(res *analysis.Result) (sql.NullString, error) {
	if res == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(res)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding analysis: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
