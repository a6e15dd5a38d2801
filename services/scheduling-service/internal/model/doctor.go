package model

import "time"

// Doctor is a local directory row cached from auth.user.created.v1 events.
// The auth service owns accounts; scheduling only needs enough to validate
// bookings against a real doctor and render pickers.
type Doctor struct {
	ID             string
	FirstName      string
	LastName       string
	Specialization string
	CreatedAt      time.Time
}

func (d Doctor) DisplayName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}
