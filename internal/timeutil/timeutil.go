// Package timeutil holds the small date and time helpers shared by the API
// and the client: due-date checks, durations, ISO formatting and the
// day/week/month/year range filter.
package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format for times of day.
	ClockLayout = "15:04"
)

// StatusDone is the todo status that can never be overdue.
const StatusDone = "done"

// FormatISODate renders t as YYYY-MM-DD in t's location.
func FormatISODate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseFlexibleTime accepts RFC3339, a local "YYYY-MM-DDTHH:MM" or a bare date.
func ParseFlexibleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", DateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, use RFC3339 or YYYY-MM-DD", s)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsOverdue reports whether a todo due at dueDate (and optionally dueTime)
// has passed relative to now. Done todos and todos without a date are never
// overdue. Without a time the comparison is by calendar day, so a todo due
// today stays on time until the day rolls over.
func IsOverdue(dueDate, dueTime, status string, now time.Time) bool {
	if status == StatusDone || strings.TrimSpace(dueDate) == "" {
		return false
	}
	day, err := ParseDate(dueDate, now.Location())
	if err != nil {
		return false
	}
	if strings.TrimSpace(dueTime) != "" {
		clock, err := time.Parse(ClockLayout, strings.TrimSpace(dueTime))
		if err == nil {
			due := day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
			return due.Before(now)
		}
	}
	return day.Before(StartOfDay(now))
}

// FormatDueDateTime renders "Oct 25" or "Oct 25 at 2:30 PM". It returns an
// empty string when there is no date and the raw input when it cannot be parsed.
func FormatDueDateTime(dueDate, dueTime string) string {
	if strings.TrimSpace(dueDate) == "" {
		return ""
	}
	day, err := ParseDate(dueDate, time.UTC)
	if err != nil {
		return dueDate
	}
	label := day.Format("Jan 2")
	if strings.TrimSpace(dueTime) == "" {
		return label
	}
	clock, err := time.Parse(ClockLayout, strings.TrimSpace(dueTime))
	if err != nil {
		return label
	}
	return label + " at " + clock.Format("3:04 PM")
}

// DurationHours returns the span between start and end in hours, rounded to
// two decimals. Inverted spans yield zero.
func DurationHours(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	return math.Round(end.Sub(start).Hours()*100) / 100
}

// HoursToDuration converts fractional hours to a time.Duration.
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// FormatHours renders a duration in hours as "45m", "2h" or "1h 30m".
func FormatHours(hours float64) string {
	total := int(math.Round(hours * 60))
	if total <= 0 {
		return "0m"
	}
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
