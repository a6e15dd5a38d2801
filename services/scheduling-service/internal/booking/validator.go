package booking

import (
	"errors"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/availability"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/model"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/schedule"
)

// ErrSlotTaken reports the post-validation race: a request passed every guard
// but another booking for the same doctor/time committed first. Storage maps
// the unique-index violation to this error so callers can distinguish it from
// a pre-commit OutcomeConflict and re-run validation.
var ErrSlotTaken = errors.New("slot already taken")

// Outcome is the terminal state of one booking attempt.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeOutOfHorizon
	OutcomeInvalidWindow
	OutcomeSlotUnavailable
	OutcomeConflict
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeOutOfHorizon:
		return "out_of_horizon"
	case OutcomeInvalidWindow:
		return "invalid_window"
	case OutcomeSlotUnavailable:
		return "slot_unavailable"
	case OutcomeConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Config carries the booking policy. Callers supply it; the validator never
// reads configuration or the wall clock itself.
type Config struct {
	HorizonDays        int
	DefaultSlotMinutes int
}

func DefaultConfig() Config {
	return Config{HorizonDays: 7, DefaultSlotMinutes: 30}
}

type Request struct {
	DoctorID  string
	PatientID string
	Start     time.Time
	Notes     string
}

// Decision is the tagged result of Validate. Appointment is populated only
// when Outcome is OutcomeAccepted.
type Decision struct {
	Outcome     Outcome
	Appointment model.Appointment
}

// Validate runs the guard chain for one booking attempt against immutable
// snapshots of the doctor's windows and blocking bookings. Guards run in
// order; the first failure decides the outcome:
//
//  1. horizon: the slot must be strictly in the future and at most
//     HorizonDays ahead of now;
//  2. window: some window for that weekday must cover the time of day;
//  3. alignment: the time must be an exact candidate of a covering window;
//  4. conflict: the slot must not already hold a blocking booking.
//
// On success it constructs the pending Appointment value; persisting it (and
// surviving the commit race, see ErrSlotTaken) is the caller's job.
func Validate(cfg Config, req Request, windows []schedule.Window, booked []time.Time, now time.Time) Decision {
	start := req.Start.UTC()

	if !start.After(now) || start.After(now.AddDate(0, 0, cfg.HorizonDays)) {
		return Decision{Outcome: OutcomeOutOfHorizon}
	}

	day := schedule.WeekdayOf(start)
	tod := schedule.TimeOfDayOf(start)
	var covering []schedule.Window
	for _, w := range windows {
		if w.Day == day && w.Covers(tod) {
			covering = append(covering, w)
		}
	}
	if len(covering) == 0 {
		return Decision{Outcome: OutcomeInvalidWindow}
	}

	if !alignsToSlot(covering, start) {
		return Decision{Outcome: OutcomeSlotUnavailable}
	}

	for _, b := range booked {
		if b.UTC().Equal(start) {
			return Decision{Outcome: OutcomeConflict}
		}
	}

	return Decision{
		Outcome: OutcomeAccepted,
		Appointment: model.Appointment{
			DoctorID:  req.DoctorID,
			PatientID: req.PatientID,
			StartTime: start,
			Status:    model.StatusPending,
			Notes:     req.Notes,
			CreatedAt: now.UTC(),
		},
	}
}

func alignsToSlot(windows []schedule.Window, start time.Time) bool {
	for _, w := range windows {
		for _, s := range availability.SlotStarts(w, start) {
			if s.Equal(start) {
				return true
			}
		}
	}
	return false
}
