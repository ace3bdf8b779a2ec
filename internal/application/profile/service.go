package profile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healtrack/healtrack-api/internal/application"
	domain "github.com/healtrack/healtrack-api/internal/domain/profile"
)

// Service manages notification preferences and shareable links.
type Service struct {
	Profiles domain.Repository
	Shares   domain.ShareRepository
	Clock    application.Clock
}

func NewService(profiles domain.Repository, shares domain.ShareRepository, clock application.Clock) *Service {
	return &Service{Profiles: profiles, Shares: shares, Clock: clock}
}

// UpdateNotificationPreferences merges the patch into the stored preferences
// key-wise and stamps updated_at, so clients can flip one toggle without
// resending the full set.
func (s *Service) UpdateNotificationPreferences(ctx context.Context, userID string, patch map[string]any) (domain.Preferences, error) {
	prefs, err := s.Profiles.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = domain.Preferences{}
	}
	for k, v := range patch {
		prefs[k] = v
	}
	prefs["updated_at"] = s.Clock.Now().UTC().Format(time.RFC3339)

	if err := s.Profiles.SavePreferences(ctx, userID, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// NotificationPreferences returns the stored preferences, empty when the user
// has never set any.
func (s *Service) NotificationPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	return s.Profiles.GetPreferences(ctx, userID)
}

// CreateShare publishes the payload under a fresh random id and returns that
// id. The id is the only secret: anyone holding it can resolve the share.
func (s *Service) CreateShare(ctx context.Context, userID string, payload map[string]any) (domain.ShareID, error) {
	link := &domain.ShareLink{
		ID:        domain.ShareID(uuid.New().String()),
		UserID:    userID,
		Payload:   payload,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Shares.Create(ctx, link); err != nil {
		return "", err
	}
	return link.ID, nil
}
