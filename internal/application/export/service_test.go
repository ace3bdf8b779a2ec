package export

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	appcare "github.com/healtrack/healtrack-api/internal/application/care"
	appprofile "github.com/healtrack/healtrack-api/internal/application/profile"
	appreports "github.com/healtrack/healtrack-api/internal/application/reports"
	"github.com/healtrack/healtrack-api/internal/domain/analysis"
	"github.com/healtrack/healtrack-api/internal/domain/care"
	"github.com/healtrack/healtrack-api/internal/domain/profile"
	domain "github.com/healtrack/healtrack-api/internal/domain/reports"
)

type stubRepo struct {
	reports []*domain.Report
	listErr error
}

func (s *stubRepo) Append(context.Context, string, *domain.Report) error { return nil }
func (s *stubRepo) Get(context.Context, string, domain.ReportID) (*domain.Report, error) {
	return nil, domain.ErrNotFound
}
func (s *stubRepo) List(context.Context, string) ([]*domain.Report, error) {
	return s.reports, s.listErr
}
func (s *stubRepo) SetAnalysis(context.Context, string, domain.ReportID, *analysis.Result) error {
	return nil
}
func (s *stubRepo) DeleteByUser(context.Context, string) (int64, error) { return 0, nil }

type stubFiles struct{}

func (stubFiles) Put(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", nil
}
func (stubFiles) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.example/" + key, nil
}
func (stubFiles) Remove(context.Context, string) error { return nil }

type stubAI struct{}

func (stubAI) AnalyzeDocument(context.Context, string, string) (*analysis.Result, error) {
	return nil, errors.New("not used")
}
func (stubAI) ExtractText(context.Context, string) (string, error) {
	return "", errors.New("not used")
}
func (stubAI) GenerateInsight(context.Context, string) (string, error) {
	return "", errors.New("not used")
}

type stubMeds struct{ meds []*care.Medication }

func (s *stubMeds) Add(context.Context, string, *care.Medication) error { return nil }
func (s *stubMeds) ListByUser(context.Context, string) ([]*care.Medication, error) {
	return s.meds, nil
}
func (s *stubMeds) DeleteByUser(context.Context, string) (int64, error) { return 0, nil }

type stubAppts struct{ appts []*care.Appointment }

func (s *stubAppts) Add(context.Context, string, *care.Appointment) error { return nil }
func (s *stubAppts) ListByUser(context.Context, string) ([]*care.Appointment, error) {
	return s.appts, nil
}
func (s *stubAppts) DeleteByUser(context.Context, string) (int64, error) { return 0, nil }

type stubProfiles struct{ prefs profile.Preferences }

func (s *stubProfiles) GetPreferences(context.Context, string) (profile.Preferences, error) {
	return s.prefs, nil
}
func (s *stubProfiles) SavePreferences(context.Context, string, profile.Preferences) error {
	return nil
}
func (s *stubProfiles) DeleteByUser(context.Context, string) (int64, error) { return 0, nil }

type stubShares struct{}

func (stubShares) Create(context.Context, *profile.ShareLink) error    { return nil }
func (stubShares) DeleteByUser(context.Context, string) (int64, error) { return 0, nil }

type clock struct{ t time.Time }

func (c clock) Now() time.Time { return c.t }

func newService(repo *stubRepo) *Service {
	fixed := clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	reports := &appreports.Service{Repo: repo, Files: stubFiles{}, AI: stubAI{}, Clock: fixed}
	careSvc := appcare.NewService(
		&stubMeds{meds: []*care.Medication{{ID: "m1", Name: "Metformin 500mg", Status: care.MedicationActive}}},
		&stubAppts{appts: []*care.Appointment{{ID: "a1", Doctor: "Dr. Chen", Status: care.AppointmentUpcoming}}},
		fixed,
	)
	profileSvc := appprofile.NewService(&stubProfiles{prefs: profile.Preferences{"email": true}}, stubShares{}, fixed)
	return NewService(reports, careSvc, profileSvc, fixed)
}

func TestGenerateIncludesAllSections(t *testing.T) {
	repo := &stubRepo{reports: []*domain.Report{
		{ID: "r1", FileName: "labs.jpg", StoragePath: "user-1/1-labs.jpg"},
	}}
	svc := newService(repo)

	doc, err := svc.Generate(context.Background(), "user-1", DefaultSettings())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if doc.UserID != "user-1" {
		t.Fatalf("userId = %q", doc.UserID)
	}
	if len(doc.Reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(doc.Reports))
	}
	if doc.Reports[0].SignedURL == "" {
		t.Fatalf("export must carry signed urls")
	}
	if doc.Medications == nil || len(doc.Medications.Active) != 1 {
		t.Fatalf("medications = %+v", doc.Medications)
	}
	if doc.Appointments == nil || len(doc.Appointments.Upcoming) != 1 {
		t.Fatalf("appointments = %+v", doc.Appointments)
	}
	if doc.Profile["email"] != true {
		t.Fatalf("profile = %+v", doc.Profile)
	}
	if doc.ExportDate.IsZero() {
		t.Fatalf("export date not set")
	}
}

func TestGenerateExcludesSectionsWhenDisabled(t *testing.T) {
	repo := &stubRepo{reports: []*domain.Report{{ID: "r1"}}}
	svc := newService(repo)

	doc, err := svc.Generate(context.Background(), "user-1", Settings{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(doc.Reports) != 0 {
		t.Fatalf("reports must be empty when excluded, got %d", len(doc.Reports))
	}
	if doc.Reports == nil {
		t.Fatalf("reports must encode as [], not null")
	}
	if doc.Medications != nil || doc.Appointments != nil {
		t.Fatalf("excluded sections must stay nil")
	}
}

func TestGenerateSurfacesListError(t *testing.T) {
	svc := newService(&stubRepo{listErr: errors.New("db down")})
	if _, err := svc.Generate(context.Background(), "user-1", DefaultSettings()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDefaultSettingsIncludeEverything(t *testing.T) {
	s := DefaultSettings()
	if !s.IncludeReports || !s.IncludeMedications || !s.IncludeAppointments {
		t.Fatalf("defaults = %+v", s)
	}
}
