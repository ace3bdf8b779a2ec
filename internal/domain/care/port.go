package care

import "context"

// MedicationRepository persists medication entries per user.
type MedicationRepository interface {
	Add(ctx context.Context, userID string, m *Medication) error
	ListByUser(ctx context.Context, userID string) ([]*Medication, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// AppointmentRepository persists appointments per user.
type AppointmentRepository interface {
	Add(ctx context.Context, userID string, a *Appointment) error
	ListByUser(ctx context.Context, userID string) ([]*Appointment, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
