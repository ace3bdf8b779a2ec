package export

import (
	"context"
	"time"

	"github.com/healtrack/healtrack-api/internal/application"
	appcare "github.com/healtrack/healtrack-api/internal/application/care"
	appprofile "github.com/healtrack/healtrack-api/internal/application/profile"
	appreports "github.com/healtrack/healtrack-api/internal/application/reports"
	"github.com/healtrack/healtrack-api/internal/domain/care"
	"github.com/healtrack/healtrack-api/internal/domain/profile"
	domain "github.com/healtrack/healtrack-api/internal/domain/reports"
)

// Settings selects which sections go into the export document. Every section
// defaults to included; the client opts sections out.
type Settings struct {
	IncludeReports      bool `json:"includeReports"`
	IncludeMedications  bool `json:"includeMedications"`
	IncludeAppointments bool `json:"includeAppointments"`
}

// DefaultSettings includes every section.
func DefaultSettings() Settings {
	return Settings{IncludeReports: true, IncludeMedications: true, IncludeAppointments: true}
}

// Document is the JSON export handed back to the user.
type Document struct {
	UserID       string                   `json:"userId"`
	Profile      profile.Preferences      `json:"profile"`
	Reports      []*domain.Report         `json:"reports"`
	Medications  *care.MedicationSchedule `json:"medications"`
	Appointments *care.AppointmentBook    `json:"appointments"`
	ExportDate   time.Time                `json:"exportDate"`
	Settings     Settings                 `json:"exportSettings"`
}

// Service gathers a user's data into a single export document.
type Service struct {
	Reports *appreports.Service
	Care    *appcare.Service
	Profile *appprofile.Service
	Clock   application.Clock
}

func NewService(reports *appreports.Service, careSvc *appcare.Service, profileSvc *appprofile.Service, clock application.Clock) *Service {
	return &Service{Reports: reports, Care: careSvc, Profile: profileSvc, Clock: clock}
}

// Generate builds the export. Signed URLs are included so the export can
// reference the stored files for the URL's lifetime.
func (s *Service) Generate(ctx context.Context, userID string, settings Settings) (*Document, error) {
	doc := &Document{
		UserID:     userID,
		Reports:    []*domain.Report{},
		ExportDate: s.Clock.Now(),
		Settings:   settings,
	}

	prefs, err := s.Profile.NotificationPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	doc.Profile = prefs

	if settings.IncludeReports {
		list, err := s.Reports.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		doc.Reports = list
	}
	if settings.IncludeMedications {
		sched, err := s.Care.ListMedications(ctx, userID)
		if err != nil {
			return nil, err
		}
		doc.Medications = sched
	}
	if settings.IncludeAppointments {
		book, err := s.Care.ListAppointments(ctx, userID)
		if err != nil {
			return nil, err
		}
		doc.Appointments = book
	}
	return doc, nil
}
