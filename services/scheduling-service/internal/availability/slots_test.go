package availability

import (
	"testing"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/schedule"
)

func window(t *testing.T, day schedule.Weekday, start, end string, slotMinutes int) schedule.Window {
	t.Helper()
	s, err := schedule.ParseTimeOfDay(start)
	if err != nil {
		t.Fatalf("parse %q: %v", start, err)
	}
	e, err := schedule.ParseTimeOfDay(end)
	if err != nil {
		t.Fatalf("parse %q: %v", end, err)
	}
	return schedule.Window{DoctorID: "doc-1", Day: day, Start: s, End: e, SlotMinutes: slotMinutes}
}

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestSlotStartsBasic(t *testing.T) {
	w := window(t, schedule.Monday, "08:00", "09:00", 30)
	starts := SlotStarts(w, monday)
	if len(starts) != 2 {
		t.Fatalf("expected 2 slots, got %d: %v", len(starts), starts)
	}
	if !starts[0].Equal(monday.Add(8 * time.Hour)) {
		t.Fatalf("expected first slot 08:00, got %s", starts[0])
	}
	// 08:30 fits exactly (08:30+30m == 09:00); 09:00 itself is never emitted.
	if !starts[1].Equal(monday.Add(8*time.Hour + 30*time.Minute)) {
		t.Fatalf("expected second slot 08:30, got %s", starts[1])
	}
}

func TestSlotStartsTrailingRemainderUnused(t *testing.T) {
	// 50 minutes of window, 30-minute slots: only 08:00 fits.
	w := window(t, schedule.Monday, "08:00", "08:50", 30)
	starts := SlotStarts(w, monday)
	if len(starts) != 1 || !starts[0].Equal(monday.Add(8*time.Hour)) {
		t.Fatalf("expected exactly [08:00], got %v", starts)
	}
}

func TestSlotStartsWeekdayMismatch(t *testing.T) {
	w := window(t, schedule.Tuesday, "08:00", "09:00", 30)
	if starts := SlotStarts(w, monday); len(starts) != 0 {
		t.Fatalf("expected no slots on mismatched weekday, got %v", starts)
	}
}

func TestResolveExcludesPastAndBooked(t *testing.T) {
	w := window(t, schedule.Monday, "09:00", "11:00", 30)
	now := monday.Add(9*time.Hour + 10*time.Minute)
	booked := []time.Time{monday.Add(10 * time.Hour)}

	slots := Resolve([]schedule.Window{w}, booked, monday, monday, now)

	// Candidates 09:00..10:30; 09:00 is past (<= now at 09:10), 10:00 is booked.
	want := []time.Time{
		monday.Add(9*time.Hour + 30*time.Minute),
		monday.Add(10*time.Hour + 30*time.Minute),
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(slots), slots)
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Fatalf("slot %d: expected %s, got %s", i, want[i], slots[i])
		}
	}
}

func TestResolveSlotAtNowNotBookable(t *testing.T) {
	w := window(t, schedule.Monday, "09:00", "10:00", 30)
	now := monday.Add(9 * time.Hour) // exactly the first slot
	slots := Resolve([]schedule.Window{w}, nil, monday, monday, now)
	if len(slots) != 1 || !slots[0].Equal(monday.Add(9*time.Hour+30*time.Minute)) {
		t.Fatalf("slot equal to now must be excluded, got %v", slots)
	}
}

func TestResolveMultiDayOrdering(t *testing.T) {
	wins := []schedule.Window{
		window(t, schedule.Wednesday, "08:00", "09:00", 30),
		window(t, schedule.Monday, "14:00", "15:00", 30),
	}
	now := monday.Add(-time.Hour)
	slots := Resolve(wins, nil, monday, monday.AddDate(0, 0, 6), now)

	if len(slots) != 4 {
		t.Fatalf("expected 4 slots across the week, got %d: %v", len(slots), slots)
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].Before(slots[i]) {
			t.Fatalf("slots not strictly ascending: %v", slots)
		}
	}
	if !slots[0].Equal(monday.Add(14 * time.Hour)) {
		t.Fatalf("expected Monday 14:00 first, got %s", slots[0])
	}
}

func TestResolveDeduplicatesOverlappingWindows(t *testing.T) {
	// Overlapping windows should be impossible to create, but stale data must
	// not produce duplicate slots.
	wins := []schedule.Window{
		window(t, schedule.Monday, "09:00", "10:00", 30),
		window(t, schedule.Monday, "09:00", "10:00", 30),
	}
	slots := Resolve(wins, nil, monday, monday, monday.Add(-time.Hour))
	if len(slots) != 2 {
		t.Fatalf("expected deduplicated 2 slots, got %d: %v", len(slots), slots)
	}
}

func TestResolveIdempotent(t *testing.T) {
	w := window(t, schedule.Monday, "09:00", "12:00", 20)
	booked := []time.Time{monday.Add(9*time.Hour + 40*time.Minute)}
	now := monday.Add(-time.Hour)

	first := Resolve([]schedule.Window{w}, booked, monday, monday, now)
	second := Resolve([]schedule.Window{w}, booked, monday, monday, now)
	if len(first) != len(second) {
		t.Fatalf("resolve not idempotent: %d vs %d slots", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("resolve not idempotent at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestResolveEmptyWindowSet(t *testing.T) {
	if slots := Resolve(nil, nil, monday, monday.AddDate(0, 0, 7), monday); len(slots) != 0 {
		t.Fatalf("expected no slots without windows, got %v", slots)
	}
}
