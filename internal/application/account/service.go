package account

import (
	"context"
	"fmt"
	"log"

	"github.com/healtrack/healtrack-api/internal/domain/care"
	"github.com/healtrack/healtrack-api/internal/domain/profile"
	domain "github.com/healtrack/healtrack-api/internal/domain/reports"
	"github.com/healtrack/healtrack-api/internal/domain/tracking"
)

// StepResult records one stage of the deletion cascade.
type StepResult struct {
	Step  string `json:"step"`
	Count int64  `json:"count"`
}

// Service deletes a user account's data. Deletion runs as an ordered
// cascade: stored objects first, then report rows, then the care, share,
// profile, and activity rows. A step failure aborts and surfaces; object
// removals are attempted for every report and the first failure aborts the
// cascade before any rows are dropped, so the remaining rows still reference
// their objects.
type Service struct {
	Repo     domain.Repository
	Files    domain.FileStore
	Meds     care.MedicationRepository
	Appts    care.AppointmentRepository
	Profiles profile.Repository
	Shares   profile.ShareRepository
	Activity tracking.Repository
}

func NewService(
	repo domain.Repository,
	files domain.FileStore,
	meds care.MedicationRepository,
	appts care.AppointmentRepository,
	profiles profile.Repository,
	shares profile.ShareRepository,
	activity tracking.Repository,
) *Service {
	return &Service{
		Repo:     repo,
		Files:    files,
		Meds:     meds,
		Appts:    appts,
		Profiles: profiles,
		Shares:   shares,
		Activity: activity,
	}
}

// DeleteUserData removes all stored objects and rows for the user and returns
// per-step counts.
func (s *Service) DeleteUserData(ctx context.Context, userID string) ([]StepResult, error) {
	list, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing reports for deletion: %w", err)
	}

	var objects int64
	for _, r := range list {
		if r.StoragePath == "" {
			continue
		}
		if err := s.Files.Remove(ctx, r.StoragePath); err != nil {
			return nil, fmt.Errorf("removing stored object %s: %w", r.StoragePath, err)
		}
		objects++
	}

	steps := []StepResult{{Step: "stored_objects", Count: objects}}

	rowSteps := []struct {
		name string
		del  func(context.Context, string) (int64, error)
	}{
		{"reports", s.Repo.DeleteByUser},
		{"medications", s.Meds.DeleteByUser},
		{"appointments", s.Appts.DeleteByUser},
		{"share_links", s.Shares.DeleteByUser},
		{"profile", s.Profiles.DeleteByUser},
		{"activity", s.Activity.DeleteByUser},
	}
	for _, rs := range rowSteps {
		n, err := rs.del(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("deleting %s rows: %w", rs.name, err)
		}
		steps = append(steps, StepResult{Step: rs.name, Count: n})
	}

	log.Printf("account deletion user=%s objects=%d steps=%d", userID, objects, len(steps))
	return steps, nil
}
