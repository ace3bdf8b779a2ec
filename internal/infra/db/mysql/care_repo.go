package mysql

import (
	"context"
	"database/sql"

	domain "github.com/healtrack/healtrack-api/internal/domain/care"
)

// MedicationRepository persists medications one row per (user_id, id).
type MedicationRepository struct {
	db *sql.DB
}

func NewMedicationRepository(db *sql.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

func (r *MedicationRepository) Add(ctx context.Context, userID string, m *domain.Medication) error {
	const q = `
INSERT INTO medications
(id, user_id, name, time_of_day, instruction, due_at, status, created_at)
VALUES (?,?,?,?,?,?,?,?);
`
	_, err := r.db.ExecContext(ctx, q,
		m.ID, userID, m.Name, m.Time, m.Instruction, m.DueAt,
		stringOrDash(string(m.Status)), m.CreatedAt,
	)
	return err
}

// ListByUser returns all medications for a user, insertion order preserved
func (r *MedicationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Medication, error) {
	const q = `
SELECT id, user_id, name, time_of_day, instruction, due_at, status, created_at
FROM medications
WHERE user_id=? ORDER BY created_at ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Medication
	for rows.Next() {
		var m domain.Medication
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Name, &m.Time, &m.Instruction, &m.DueAt, &m.Status, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *MedicationRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM medications WHERE user_id=?;`
	result, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// AppointmentRepository persists appointments one row per (user_id, id).
type AppointmentRepository struct {
	db *sql.DB
}

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Add(ctx context.Context, userID string, a *domain.Appointment) error {
	const q = `
INSERT INTO appointments
(id, user_id, doctor, specialty, scheduled_at, type, notes, status, created_at)
VALUES (?,?,?,?,?,?,?,?,?);
`
	_, err := r.db.ExecContext(ctx, q,
		a.ID, userID, a.Doctor, a.Specialty, a.Date, a.Type, a.Notes,
		stringOrDash(string(a.Status)), a.CreatedAt,
	)
	return err
}

// ListByUser returns all appointments for a user, soonest first
func (r *AppointmentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Appointment, error) {
	const q = `
SELECT id, user_id, doctor, specialty, scheduled_at, type, notes, status, created_at
FROM appointments
WHERE user_id=? ORDER BY scheduled_at ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Doctor, &a.Specialty, &a.Date, &a.Type, &a.Notes, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *AppointmentRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM appointments WHERE user_id=?;`
	result, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
