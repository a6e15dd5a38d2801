package booking

import (
	"testing"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/model"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/schedule"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func mondayWindow(t *testing.T, start, end string, slotMinutes int) schedule.Window {
	t.Helper()
	s, err := schedule.ParseTimeOfDay(start)
	if err != nil {
		t.Fatalf("parse %q: %v", start, err)
	}
	e, err := schedule.ParseTimeOfDay(end)
	if err != nil {
		t.Fatalf("parse %q: %v", end, err)
	}
	return schedule.Window{DoctorID: "doc-1", Day: schedule.Monday, Start: s, End: e, SlotMinutes: slotMinutes}
}

func request(start time.Time) Request {
	return Request{DoctorID: "doc-1", PatientID: "pat-1", Start: start, Notes: "checkup"}
}

func TestValidateAccepted(t *testing.T) {
	windows := []schedule.Window{mondayWindow(t, "09:00", "10:00", 30)}
	now := monday.Add(-24 * time.Hour)

	d := Validate(DefaultConfig(), request(monday.Add(9*time.Hour)), windows, nil, now)
	if d.Outcome != OutcomeAccepted {
		t.Fatalf("expected accepted, got %s", d.Outcome)
	}
	appt := d.Appointment
	if appt.Status != model.StatusPending {
		t.Fatalf("new appointment must be pending, got %s", appt.Status)
	}
	if !appt.StartTime.Equal(monday.Add(9 * time.Hour)) {
		t.Fatalf("unexpected start time %s", appt.StartTime)
	}
	if appt.DoctorID != "doc-1" || appt.PatientID != "pat-1" || appt.Notes != "checkup" {
		t.Fatalf("request fields not carried over: %+v", appt)
	}
}

func TestValidateOutOfHorizon(t *testing.T) {
	windows := []schedule.Window{mondayWindow(t, "09:00", "10:00", 30)}
	now := monday.Add(9 * time.Hour)

	// 8 days out with a 7-day horizon.
	eightDays := now.AddDate(0, 0, 8)
	if d := Validate(DefaultConfig(), request(eightDays), windows, nil, now); d.Outcome != OutcomeOutOfHorizon {
		t.Fatalf("8 days ahead: expected out_of_horizon, got %s", d.Outcome)
	}

	// Exactly now and in the past are equally unbookable.
	if d := Validate(DefaultConfig(), request(now), windows, nil, now); d.Outcome != OutcomeOutOfHorizon {
		t.Fatalf("start == now: expected out_of_horizon, got %s", d.Outcome)
	}
	if d := Validate(DefaultConfig(), request(now.Add(-time.Hour)), windows, nil, now); d.Outcome != OutcomeOutOfHorizon {
		t.Fatalf("past start: expected out_of_horizon, got %s", d.Outcome)
	}
}

func TestValidateHorizonBoundaryInclusive(t *testing.T) {
	windows := []schedule.Window{mondayWindow(t, "09:00", "10:00", 30)}
	// Exactly 7x24h ahead of now lands on next Monday 09:00.
	now := monday.Add(9 * time.Hour).AddDate(0, 0, -7)
	d := Validate(DefaultConfig(), request(monday.Add(9*time.Hour)), windows, nil, now)
	if d.Outcome != OutcomeAccepted {
		t.Fatalf("slot exactly at the horizon must be bookable, got %s", d.Outcome)
	}
}

func TestValidateInvalidWindow(t *testing.T) {
	windows := []schedule.Window{mondayWindow(t, "09:00", "10:00", 30)}
	now := monday.Add(-24 * time.Hour)

	// Tuesday: the doctor has no window that day.
	tuesday := monday.AddDate(0, 0, 1).Add(9 * time.Hour)
	if d := Validate(DefaultConfig(), request(tuesday), windows, nil, now); d.Outcome != OutcomeInvalidWindow {
		t.Fatalf("no window on weekday: expected invalid_window, got %s", d.Outcome)
	}

	// Monday but outside the window's hours.
	if d := Validate(DefaultConfig(), request(monday.Add(14*time.Hour)), windows, nil, now); d.Outcome != OutcomeInvalidWindow {
		t.Fatalf("time outside window: expected invalid_window, got %s", d.Outcome)
	}
}

func TestValidateSlotUnavailableMisaligned(t *testing.T) {
	windows := []schedule.Window{mondayWindow(t, "09:00", "10:00", 30)}
	now := monday.Add(-24 * time.Hour)

	// 09:10 is inside the window but not on a slot boundary.
	d := Validate(DefaultConfig(), request(monday.Add(9*time.Hour+10*time.Minute)), windows, nil, now)
	if d.Outcome != OutcomeSlotUnavailable {
		t.Fatalf("misaligned time: expected slot_unavailable, got %s", d.Outcome)
	}
}

func TestValidateConflict(t *testing.T) {
	windows := []schedule.Window{mondayWindow(t, "09:00", "10:00", 30)}
	now := monday.Add(-24 * time.Hour)
	booked := []time.Time{monday.Add(9 * time.Hour)}

	d := Validate(DefaultConfig(), request(monday.Add(9*time.Hour)), windows, booked, now)
	if d.Outcome != OutcomeConflict {
		t.Fatalf("blocking booking present: expected conflict, got %s", d.Outcome)
	}
}

func TestValidateGuardOrder(t *testing.T) {
	// A request that is both out of horizon and conflicting must report the
	// horizon rejection: guards are evaluated in order.
	windows := []schedule.Window{mondayWindow(t, "09:00", "10:00", 30)}
	now := monday.Add(9 * time.Hour)
	booked := []time.Time{now.AddDate(0, 0, 14)}

	d := Validate(DefaultConfig(), request(now.AddDate(0, 0, 14)), windows, booked, now)
	if d.Outcome != OutcomeOutOfHorizon {
		t.Fatalf("expected out_of_horizon to win, got %s", d.Outcome)
	}
}

func TestDoubleBookingScenario(t *testing.T) {
	// Doctor offers Mon 09:00-10:00, 30-minute slots: candidates 09:00, 09:30.
	windows := []schedule.Window{mondayWindow(t, "09:00", "10:00", 30)}
	now := monday.Add(-48 * time.Hour)
	nine := monday.Add(9 * time.Hour)

	first := Validate(DefaultConfig(), Request{DoctorID: "doc-1", PatientID: "pat-1", Start: nine}, windows, nil, now)
	if first.Outcome != OutcomeAccepted {
		t.Fatalf("first booking: expected accepted, got %s", first.Outcome)
	}

	// The pending appointment now blocks the slot for the second patient.
	booked := []time.Time{first.Appointment.StartTime}
	second := Validate(DefaultConfig(), Request{DoctorID: "doc-1", PatientID: "pat-2", Start: nine}, windows, booked, now)
	if second.Outcome != OutcomeConflict {
		t.Fatalf("second booking of same slot: expected conflict, got %s", second.Outcome)
	}

	// 09:30 is still free.
	third := Validate(DefaultConfig(), Request{DoctorID: "doc-1", PatientID: "pat-2", Start: nine.Add(30 * time.Minute)}, windows, booked, now)
	if third.Outcome != OutcomeAccepted {
		t.Fatalf("adjacent slot: expected accepted, got %s", third.Outcome)
	}
}

func TestOutcomeStrings(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeAccepted:        "accepted",
		OutcomeOutOfHorizon:    "out_of_horizon",
		OutcomeInvalidWindow:   "invalid_window",
		OutcomeSlotUnavailable: "slot_unavailable",
		OutcomeConflict:        "conflict",
		Outcome(99):            "unknown",
	}
	for o, want := range cases {
		if o.String() != want {
			t.Fatalf("Outcome(%d).String() = %q, want %q", int(o), o.String(), want)
		}
	}
}
