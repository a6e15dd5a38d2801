package availability

import (
	"sort"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/schedule"
)

// SlotStarts returns the candidate slot start times a window yields on the
// given calendar date, ascending. A slot is emitted only when the whole slot
// fits before the window end; the last start satisfies start+duration <= end.
//
// Callers are expected to pre-filter dates by weekday, but the generator is
// safe to call unconditionally: a date whose weekday differs from the
// window's day yields nil. It never consults appointment state.
func SlotStarts(w schedule.Window, date time.Time) []time.Time {
	if schedule.WeekdayOf(date) != w.Day {
		return nil
	}

	dur := w.SlotDuration()
	end := w.End.At(date)

	var starts []time.Time
	for cur := w.Start.At(date); !cur.Add(dur).After(end); cur = cur.Add(dur) {
		starts = append(starts, cur)
	}
	return starts
}

// Resolve derives the bookable slots for one doctor over the inclusive date
// range [from, to]: every candidate from every matching window, minus slots
// at or before now, minus slots whose start time appears in booked (the
// blocking appointments snapshot, already filtered to this doctor).
//
// The result is ascending and deduplicated by timestamp, so overlapping
// windows (which window creation rejects, but historical data may contain)
// cannot produce double entries. Pure: identical inputs give identical output.
func Resolve(windows []schedule.Window, booked []time.Time, from, to, now time.Time) []time.Time {
	taken := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		taken[b.UTC().Unix()] = struct{}{}
	}

	seen := map[int64]struct{}{}
	var slots []time.Time
	for d := dateOnly(from); !d.After(dateOnly(to)); d = d.AddDate(0, 0, 1) {
		for _, w := range windows {
			if w.Day != schedule.WeekdayOf(d) {
				continue
			}
			for _, s := range SlotStarts(w, d) {
				if !s.After(now) {
					continue
				}
				key := s.Unix()
				if _, ok := taken[key]; ok {
					continue
				}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				slots = append(slots, s)
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
