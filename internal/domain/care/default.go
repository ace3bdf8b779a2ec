package care

import "time"

// DefaultSchedule is served to users with no medications on record, so the
// app has something to render on first open. Same pattern as the canned
// analysis payload: stored data always wins.
func DefaultSchedule(now time.Time) *MedicationSchedule {
	return &MedicationSchedule{
		Active: []*Medication{},
		Upcoming: []*Medication{
			{
				ID:          "med-1",
				Name:        "Metformin 500mg",
				Time:        "8:00 AM",
				Instruction: "1 tablet after breakfast",
				DueAt:       now,
				Status:      MedicationUpcoming,
			},
		},
	}
}

// DefaultBook is served to users with no appointments on record.
func DefaultBook(now time.Time) *AppointmentBook {
	return &AppointmentBook{
		Upcoming: []*Appointment{
			{
				ID:        "appt-1",
				Doctor:    "Dr. Sarah Johnson",
				Specialty: "Cardiology",
				Date:      now.Add(2 * time.Hour),
				Type:      "video",
				Notes:     "Follow-up on cholesterol levels",
				Status:    AppointmentUpcoming,
			},
		},
		Past: []*Appointment{},
	}
}
