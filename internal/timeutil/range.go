package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Range is the date-range filter accepted by list and stats endpoints.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
	RangeAll   Range = "all"
)

// ParseRange validates a range query value. Empty means all.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeAll, nil
	case RangeDay, RangeWeek, RangeMonth, RangeYear, RangeAll:
		return r, nil
	default:
		return "", fmt.Errorf("invalid range %q, must be day, week, month, year, or all", s)
	}
}

// Bounds returns the half-open window [from, to) containing anchor. Weeks
// start on Sunday. ok is false for RangeAll.
func (r Range) Bounds(anchor time.Time) (from, to time.Time, ok bool) {
	day := StartOfDay(anchor)
	switch r {
	case RangeDay:
		return day, day.AddDate(0, 0, 1), true
	case RangeWeek:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return start, start.AddDate(0, 0, 7), true
	case RangeMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, 0), true
	case RangeYear:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(1, 0, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// DateBounds is Bounds rendered as YYYY-MM-DD strings, suitable for
// comparing against date columns (from inclusive, to exclusive).
func (r Range) DateBounds(anchor time.Time) (from, to string, ok bool) {
	f, t, ok := r.Bounds(anchor)
	if !ok {
		return "", "", false
	}
	return FormatISODate(f), FormatISODate(t), true
}
