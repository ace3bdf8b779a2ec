package reports

import (
	"context"
	"io"
	"time"

	"github.com/healtrack/healtrack-api/internal/domain/analysis"
)

// Repository port (interface for persistence).
// Reports are individually addressable rows keyed (user, id), so updates to
// different reports of the same user never race each other.
type Repository interface {
	Append(ctx context.Context, userID string, r *Report) error
	Get(ctx context.Context, userID string, id ReportID) (*Report, error)
	List(ctx context.Context, userID string) ([]*Report, error)
	SetAnalysis(ctx context.Context, userID string, id ReportID, res *analysis.Result) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// FileStore port (interface for object storage)
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}
