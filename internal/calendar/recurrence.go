package calendar

import (
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

// MaxOccurrences bounds how many occurrences a single series may yield in
// one window.
const MaxOccurrences = 1000

// Expand replaces recurring entries with their occurrences that intersect
// [from, to). Non-recurring entries that intersect the window pass through.
// Occurrence n is computed from the series start rather than from occurrence
// n-1, so monthly series anchored on the 31st skip short months instead of
// drifting to the 28th.
func Expand(entries []Entry, from, to time.Time) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Recurrence == "" || !e.Recurrence.Valid() {
			if intersects(e, from, to) {
				out = append(out, e)
			}
			continue
		}
		out = append(out, expandSeries(e, from, to)...)
	}
	sortChronological(out)
	return out
}

func intersects(e Entry, from, to time.Time) bool {
	return e.Start.Before(to) && e.EffectiveEnd().After(from)
}

func expandSeries(e Entry, from, to time.Time) []Entry {
	length := e.EffectiveEnd().Sub(e.Start)
	var until time.Time
	if e.RecurrenceEnd != "" {
		if d, err := timeutil.ParseDate(e.RecurrenceEnd, e.Start.Location()); err == nil {
			until = d.AddDate(0, 0, 1)
		}
	}

	n := firstCandidate(e, from, length)
	var out []Entry
	for yielded := 0; yielded < MaxOccurrences; n++ {
		start, ok := nth(e, n)
		if !ok {
			// Missing day in this month or year; the next n may exist.
			if n > MaxOccurrences*12 {
				break
			}
			continue
		}
		if !start.Before(to) || (!until.IsZero() && !start.Before(until)) {
			break
		}
		occ := e
		occ.Start = start
		occ.End = start.Add(length)
		occ.Occurrence = n
		if occ.End.After(from) {
			out = append(out, occ)
			yielded++
		}
	}
	return out
}

// firstCandidate skips whole periods that end before from. Only fixed-length
// cadences can jump; monthly and yearly series walk from zero.
func firstCandidate(e Entry, from time.Time, length time.Duration) int {
	var step time.Duration
	switch e.Recurrence {
	case models.RecurrenceDaily:
		step = 24 * time.Hour
	case models.RecurrenceWeekly:
		step = 7 * 24 * time.Hour
	default:
		return 0
	}
	gap := from.Sub(e.Start.Add(length))
	if gap <= 0 {
		return 0
	}
	// One period of slack absorbs DST shifts.
	n := int(gap/step) - 1
	if n < 0 {
		return 0
	}
	return n
}

// nth returns the start of occurrence n. ok is false when the anchor day does
// not exist in the target month (e.g. the 31st in April, 29 February).
func nth(e Entry, n int) (time.Time, bool) {
	s := e.Start
	var t time.Time
	switch e.Recurrence {
	case models.RecurrenceDaily:
		t = s.AddDate(0, 0, n)
	case models.RecurrenceWeekly:
		t = s.AddDate(0, 0, 7*n)
	case models.RecurrenceMonthly:
		t = s.AddDate(0, n, 0)
		return t, t.Day() == s.Day()
	case models.RecurrenceYearly:
		t = s.AddDate(n, 0, 0)
		return t, t.Day() == s.Day() && t.Month() == s.Month()
	}
	return t, true
}
