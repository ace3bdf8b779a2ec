package care

import "time"

// MedicationID identifies one medication entry
type MedicationID string

// MedicationStatus enum. A medication is created active; upcoming entries are
// reminders that have not started yet.
type MedicationStatus string

const (
	MedicationActive   MedicationStatus = "active"
	MedicationUpcoming MedicationStatus = "upcoming"
)

// Medication is one tracked medication with its dosing reminder.
type Medication struct {
	ID          MedicationID     `json:"id"`
	UserID      string           `json:"-"`
	Name        string           `json:"name"`
	Time        string           `json:"time"` // display label, e.g. "8:00 AM"
	Instruction string           `json:"instruction"`
	DueAt       time.Time        `json:"dueAt"`
	Status      MedicationStatus `json:"-"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// MedicationSchedule groups the user's medications the way the app renders
// them.
type MedicationSchedule struct {
	Active   []*Medication `json:"active"`
	Upcoming []*Medication `json:"upcoming"`
}

// AppointmentID identifies one appointment
type AppointmentID string

// AppointmentStatus enum
type AppointmentStatus string

const (
	AppointmentUpcoming AppointmentStatus = "upcoming"
	AppointmentPast     AppointmentStatus = "past"
)

// Appointment is one scheduled consultation.
type Appointment struct {
	ID        AppointmentID     `json:"id"`
	UserID    string            `json:"-"`
	Doctor    string            `json:"doctor"`
	Specialty string            `json:"specialty"`
	Date      time.Time         `json:"date"`
	Type      string            `json:"type"` // video | in-person
	Notes     string            `json:"notes"`
	Status    AppointmentStatus `json:"-"`
	CreatedAt time.Time         `json:"createdAt"`
}

// AppointmentBook groups appointments the way the app renders them.
type AppointmentBook struct {
	Upcoming []*Appointment `json:"upcoming"`
	Past     []*Appointment `json:"past"`
}
