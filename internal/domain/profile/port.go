package profile

import "context"

// Repository persists the per-user profile record.
type Repository interface {
	// GetPreferences returns the stored preferences, or an empty map when the
	// user has no profile yet.
	GetPreferences(ctx context.Context, userID string) (Preferences, error)
	SavePreferences(ctx context.Context, userID string, prefs Preferences) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// ShareRepository persists shareable links.
type ShareRepository interface {
	Create(ctx context.Context, link *ShareLink) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
