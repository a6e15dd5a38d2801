package schedule

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
	}
	return tod
}

func TestParseTimeOfDay(t *testing.T) {
	tod := mustTime(t, "09:30")
	if tod.Hour() != 9 || tod.Minute() != 30 {
		t.Fatalf("expected 09:30, got %s", tod)
	}
	if tod.String() != "09:30" {
		t.Fatalf("unexpected string form %q", tod.String())
	}
	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Fatal("expected error for 25:00")
	}
	if _, err := ParseTimeOfDay("nine"); err == nil {
		t.Fatal("expected error for non-time input")
	}
}

func TestTimeOfDayAt(t *testing.T) {
	date := time.Date(2026, 3, 2, 17, 45, 12, 0, time.UTC) // a Monday, time part ignored
	got := mustTime(t, "08:00").At(date)
	want := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2026-03-02 is a Monday, 2026-03-08 a Sunday.
	if d := WeekdayOf(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)); d != Monday {
		t.Fatalf("expected Monday, got %s", d)
	}
	if d := WeekdayOf(time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC)); d != Sunday {
		t.Fatalf("expected Sunday, got %s", d)
	}
}

func TestWindowValidate(t *testing.T) {
	valid := Window{DoctorID: "doc-1", Day: Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), SlotMinutes: 30}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}

	cases := map[string]Window{
		"start after end":  {Day: Monday, Start: mustTime(t, "12:00"), End: mustTime(t, "09:00"), SlotMinutes: 30},
		"start equals end": {Day: Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "09:00"), SlotMinutes: 30},
		"zero duration":    {Day: Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), SlotMinutes: 0},
		"negative day":     {Day: Weekday(-1), Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), SlotMinutes: 30},
		"day out of range": {Day: Weekday(7), Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), SlotMinutes: 30},
	}
	for name, w := range cases {
		if err := w.Validate(); !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("%s: expected ErrInvalidWindow, got %v", name, err)
		}
	}
}

func TestOverlapsDifferentDays(t *testing.T) {
	a := Window{Day: Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00")}
	b := Window{Day: Tuesday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00")}
	if Overlaps(a, b) {
		t.Fatal("windows on different days must never overlap")
	}
}

func TestOverlapsSameDay(t *testing.T) {
	day := Wednesday
	mk := func(start, end string) Window {
		return Window{Day: day, Start: mustTime(t, start), End: mustTime(t, end)}
	}

	cases := []struct {
		name string
		a, b Window
		want bool
	}{
		{"identical", mk("09:00", "12:00"), mk("09:00", "12:00"), true},
		{"contained", mk("09:00", "12:00"), mk("10:00", "11:00"), true},
		{"partial", mk("09:00", "11:00"), mk("10:00", "12:00"), true},
		{"adjacent touching", mk("09:00", "11:00"), mk("11:00", "13:00"), false},
		{"disjoint", mk("08:00", "09:00"), mk("13:00", "14:00"), false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: Overlaps=%v, want %v", tc.name, got, tc.want)
		}
		if Overlaps(tc.a, tc.b) != Overlaps(tc.b, tc.a) {
			t.Fatalf("%s: Overlaps is not symmetric", tc.name)
		}
	}
}
