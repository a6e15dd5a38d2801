package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow marks a window that violates its own shape invariants
// (start/end ordering, slot duration). Checked with errors.Is.
var ErrInvalidWindow = errors.New("invalid schedule window")

// Window is a recurring weekly availability interval for one doctor.
// [Start, End) is half-open; the trailing remainder shorter than one slot
// is simply never offered.
type Window struct {
	ID          string
	DoctorID    string
	Day         Weekday
	Start       TimeOfDay
	End         TimeOfDay
	SlotMinutes int
	CreatedAt   time.Time
}

func (w Window) Validate() error {
	if !w.Day.Valid() {
		return fmt.Errorf("%w: day %d out of range", ErrInvalidWindow, int(w.Day))
	}
	if w.Start >= w.End {
		return fmt.Errorf("%w: start %s not before end %s", ErrInvalidWindow, w.Start, w.End)
	}
	if w.SlotMinutes <= 0 {
		return fmt.Errorf("%w: slot duration %d minutes", ErrInvalidWindow, w.SlotMinutes)
	}
	return nil
}

// SlotDuration returns the bookable unit length.
func (w Window) SlotDuration() time.Duration {
	return time.Duration(w.SlotMinutes) * time.Minute
}

// Covers reports whether t falls inside the window's [Start, End) interval.
func (w Window) Covers(t TimeOfDay) bool {
	return t >= w.Start && t < w.End
}

// Overlaps reports whether two windows intersect. Windows on different days
// never overlap; on the same day the comparison is a half-open interval
// intersection on time of day only. Symmetric: Overlaps(a, b) == Overlaps(b, a).
func Overlaps(a, b Window) bool {
	if a.Day != b.Day {
		return false
	}
	return !(a.End <= b.Start || a.Start >= b.End)
}
