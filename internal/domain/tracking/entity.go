package tracking

import (
	"context"
	"time"
)

// ActivityEntry is one day of self-reported health activity (steps, water,
// sleep -- the shape is client-defined). One entry per user per day; a second
// report for the same day replaces the first.
type ActivityEntry struct {
	UserID     string         `json:"-"`
	Date       string         `json:"date"` // YYYY-MM-DD
	Data       map[string]any `json:"data"`
	RecordedAt time.Time      `json:"timestamp"`
}

// Repository persists daily activity entries.
type Repository interface {
	Upsert(ctx context.Context, e *ActivityEntry) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
