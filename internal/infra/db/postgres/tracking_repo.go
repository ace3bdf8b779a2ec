package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	domain "github.com/healtrack/healtrack-api/internal/domain/tracking"
)

// ActivityRepository persists one activity row per (user_id, entry_date).
type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Upsert replaces the day's entry when it already exists
func (r *ActivityRepository) Upsert(ctx context.Context, e *domain.ActivityEntry) error {
	const q = `
INSERT INTO activity_entries (user_id, entry_date, data, recorded_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id, entry_date) DO UPDATE SET
 data=EXCLUDED.data,
 recorded_at=EXCLUDED.recorded_at;
`
	b, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encoding activity data: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, e.UserID, e.Date, string(b), e.RecordedAt)
	return err
}

func (r *ActivityRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM activity_entries WHERE user_id=$1;`
	result, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
