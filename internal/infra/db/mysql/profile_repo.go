package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/healtrack/healtrack-api/internal/domain/profile"
)

// ProfileRepository persists one profile row per user holding the
// notification preferences as JSON.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetPreferences returns the stored preference map; an absent row yields an
// empty map, not an error.
func (r *ProfileRepository) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	const q = `SELECT notification_preferences FROM user_profiles WHERE user_id=? LIMIT 1;`
	var raw sql.NullString
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Preferences{}, nil
		}
		return nil, err
	}
	prefs := domain.Preferences{}
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &prefs); err != nil {
			return nil, fmt.Errorf("decoding stored preferences for user %s: %w", userID, err)
		}
	}
	return prefs, nil
}

func (r *ProfileRepository) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	const q = `
INSERT INTO user_profiles (user_id, notification_preferences, updated_at)
VALUES (?,?,?)
ON DUPLICATE KEY UPDATE
 notification_preferences=VALUES(notification_preferences),
 updated_at=VALUES(updated_at);
`
	b, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, userID, string(b), time.Now().UTC())
	return err
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM user_profiles WHERE user_id=?;`
	result, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ShareRepository persists shareable links keyed by their random id.
type ShareRepository struct {
	db *sql.DB
}

func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

func (r *ShareRepository) Create(ctx context.Context, link *domain.ShareLink) error {
	const q = `
INSERT INTO share_links (id, user_id, payload, created_at)
VALUES (?,?,?,?);
`
	b, err := json.Marshal(link.Payload)
	if err != nil {
		return fmt.Errorf("encoding share payload: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, link.ID, link.UserID, string(b), link.CreatedAt)
	return err
}

func (r *ShareRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM share_links WHERE user_id=?;`
	result, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
