package model

import "time"

// Status is the appointment lifecycle state. Transitions:
// pending -> confirmed, pending/confirmed -> cancelled. Cancelled is terminal
// and appointments are never deleted.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Blocks reports whether an appointment in this status occupies its slot.
// Both pending and confirmed block: an unconfirmed request must not be
// double-bookable.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID          string
	DoctorID    string
	PatientID   string
	StartTime   time.Time
	Status      Status
	Notes       string
	CreatedAt   time.Time
	CancelledAt *time.Time
}
