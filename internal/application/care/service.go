package care

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healtrack/healtrack-api/internal/application"
	domain "github.com/healtrack/healtrack-api/internal/domain/care"
)

// Service implements the medication and appointment use-cases. Both resources
// follow the same shape: add one entry, list the user's entries grouped for
// rendering, with a canned starter payload for brand-new users.
type Service struct {
	Meds  domain.MedicationRepository
	Appts domain.AppointmentRepository
	Clock application.Clock
}

func NewService(meds domain.MedicationRepository, appts domain.AppointmentRepository, clock application.Clock) *Service {
	return &Service{Meds: meds, Appts: appts, Clock: clock}
}

// MedicationInput carries one new medication from the client.
type MedicationInput struct {
	Name        string    `json:"name"`
	Time        string    `json:"time"`
	Instruction string    `json:"instruction"`
	DueAt       time.Time `json:"dueAt"`
}

// AddMedication stores a new active medication for the user.
func (s *Service) AddMedication(ctx context.Context, userID string, in MedicationInput) (*domain.Medication, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: medication name is required", domain.ErrInvalidInput)
	}

	m := &domain.Medication{
		ID:          domain.MedicationID(uuid.New().String()),
		UserID:      userID,
		Name:        in.Name,
		Time:        in.Time,
		Instruction: in.Instruction,
		DueAt:       in.DueAt,
		Status:      domain.MedicationActive,
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.Meds.Add(ctx, userID, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMedications returns the user's schedule. Users with no medications on
// record get the canned starter schedule.
func (s *Service) ListMedications(ctx context.Context, userID string) (*domain.MedicationSchedule, error) {
	list, err := s.Meds.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return domain.DefaultSchedule(s.Clock.Now()), nil
	}

	sched := &domain.MedicationSchedule{
		Active:   []*domain.Medication{},
		Upcoming: []*domain.Medication{},
	}
	for _, m := range list {
		switch m.Status {
		case domain.MedicationUpcoming:
			sched.Upcoming = append(sched.Upcoming, m)
		default:
			sched.Active = append(sched.Active, m)
		}
	}
	return sched, nil
}

// AppointmentInput carries one new appointment from the client.
type AppointmentInput struct {
	Doctor    string    `json:"doctor"`
	Specialty string    `json:"specialty"`
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`
	Notes     string    `json:"notes"`
}

// AddAppointment stores a new upcoming appointment for the user.
func (s *Service) AddAppointment(ctx context.Context, userID string, in AppointmentInput) (*domain.Appointment, error) {
	if in.Doctor == "" {
		return nil, fmt.Errorf("%w: appointment doctor is required", domain.ErrInvalidInput)
	}

	a := &domain.Appointment{
		ID:        domain.AppointmentID(uuid.New().String()),
		UserID:    userID,
		Doctor:    in.Doctor,
		Specialty: in.Specialty,
		Date:      in.Date,
		Type:      in.Type,
		Notes:     in.Notes,
		Status:    domain.AppointmentUpcoming,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Appts.Add(ctx, userID, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAppointments returns the user's appointment book. Users with no
// appointments on record get the canned starter book.
func (s *Service) ListAppointments(ctx context.Context, userID string) (*domain.AppointmentBook, error) {
	list, err := s.Appts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return domain.DefaultBook(s.Clock.Now()), nil
	}

	book := &domain.AppointmentBook{
		Upcoming: []*domain.Appointment{},
		Past:     []*domain.Appointment{},
	}
	for _, a := range list {
		switch a.Status {
		case domain.AppointmentPast:
			book.Past = append(book.Past, a)
		default:
			book.Upcoming = append(book.Upcoming, a)
		}
	}
	return book, nil
}
