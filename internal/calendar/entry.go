// Package calendar projects events onto day, week, month and year grids.
//
// The day and week timelines pack overlapping timed events into columns
// with a greedy interval colouring so that no two overlapping events share a
// column. Month and year views are plain bucketings by calendar date.
package calendar

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

// Entry is the calendar's view of an event. Occurrences of a recurring
// series share ID and differ by Occurrence.
type Entry struct {
	ID            uint
	Title         string
	Start         time.Time
	End           time.Time
	AllDay        bool
	DurationHours float64
	Recurrence    models.RecurrenceType
	RecurrenceEnd string
	Occurrence    int
	LinkedTodoID  *uint
	Completed     bool
}

// FromEvent converts a stored event.
func FromEvent(e models.Event) Entry {
	entry := Entry{
		ID:            e.ID,
		Title:         e.Title,
		Start:         e.StartDate,
		End:           e.EndDate,
		AllDay:        e.AllDay,
		DurationHours: e.DurationHours,
		LinkedTodoID:  e.LinkedTodoID,
		Completed:     e.Completed,
	}
	if e.Recurring && e.RecurrenceType != nil {
		entry.Recurrence = *e.RecurrenceType
		if e.RecurrenceEndDate != nil {
			entry.RecurrenceEnd = *e.RecurrenceEndDate
		}
	}
	return entry
}

// FromEvents converts a slice of stored events.
func FromEvents(events []models.Event) []Entry {
	out := make([]Entry, 0, len(events))
	for _, e := range events {
		out = append(out, FromEvent(e))
	}
	return out
}

// EffectiveEnd is the end used for display: the explicit end when it is
// after the start, else start plus DurationHours, else start plus one hour.
func (e Entry) EffectiveEnd() time.Time {
	if !e.End.IsZero() && e.End.After(e.Start) {
		return e.End
	}
	if e.DurationHours > 0 {
		return e.Start.Add(time.Duration(e.DurationHours * float64(time.Hour)))
	}
	return e.Start.Add(DefaultBlockMinutes * time.Minute)
}

// Key identifies an entry or occurrence uniquely within a window.
func (e Entry) Key() string {
	return e.Start.Format("20060102T1504") + "#" + strconv.FormatUint(uint64(e.ID), 10)
}

// sortByTitle orders entries alphabetically, case-insensitively, by ID on ties.
func sortByTitle(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].Title), strings.ToLower(entries[j].Title)
		if a != b {
			return a < b
		}
		return entries[i].ID < entries[j].ID
	})
}

// sortChronological puts all-day entries first, then by start and title.
func sortChronological(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}

func dateKey(t time.Time) string {
	return timeutil.FormatISODate(t)
}
