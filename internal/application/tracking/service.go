package tracking

import (
	"context"

	"github.com/healtrack/healtrack-api/internal/application"
	domain "github.com/healtrack/healtrack-api/internal/domain/tracking"
)

// Service records daily self-reported activity. One entry per user per day,
// keyed on the server's UTC date; reporting twice in a day replaces the entry.
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

func NewService(repo domain.Repository, clock application.Clock) *Service {
	return &Service{Repo: repo, Clock: clock}
}

// Record stores today's activity data and returns the date it was filed under.
func (s *Service) Record(ctx context.Context, userID string, data map[string]any) (string, error) {
	now := s.Clock.Now().UTC()
	e := &domain.ActivityEntry{
		UserID:     userID,
		Date:       now.Format("2006-01-02"),
		Data:       data,
		RecordedAt: now,
	}
	if err := s.Repo.Upsert(ctx, e); err != nil {
		return "", err
	}
	return e.Date, nil
}
