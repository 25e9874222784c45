package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

// EventForm is the create/edit event form. Start and End accept RFC3339,
// "YYYY-MM-DDTHH:MM" or, for all-day events, a bare date.
type EventForm struct {
	ContextID         uint
	Title             string
	Description       string
	Start             string
	End               string
	AllDay            bool
	DurationHours     string
	Tags              []string
	Recurring         bool
	RecurrenceType    models.RecurrenceType
	RecurrenceEndDate string
	Completed         bool
}

// NewEventForm returns a one-hour event starting at start.
func NewEventForm(contextID uint, start time.Time) EventForm {
	return EventForm{
		ContextID: contextID,
		Start:     start.Format("2006-01-02T15:04"),
		End:       start.Add(time.Hour).Format("2006-01-02T15:04"),
	}
}

// EventFormFrom pre-fills a form for editing e.
func EventFormFrom(e models.Event) EventForm {
	f := EventForm{
		ContextID:   e.ContextID,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.StartDate.Format(time.RFC3339),
		End:         e.EndDate.Format(time.RFC3339),
		AllDay:      e.AllDay,
		Tags:        cloneTags(e.Tags),
		Recurring:   e.Recurring,
		Completed:   e.Completed,
	}
	if e.DurationHours > 0 {
		f.DurationHours = strconv.FormatFloat(e.DurationHours, 'f', -1, 64)
	}
	if e.RecurrenceType != nil {
		f.RecurrenceType = *e.RecurrenceType
	}
	if e.RecurrenceEndDate != nil {
		f.RecurrenceEndDate = *e.RecurrenceEndDate
	}
	return f
}

func (f EventForm) WithTitle(title string) EventForm {
	f.Title = title
	return f
}

func (f EventForm) WithDescription(d string) EventForm {
	f.Description = d
	return f
}

// WithSpan sets start and end. An empty end means "use the duration".
func (f EventForm) WithSpan(start, end string) EventForm {
	f.Start = start
	f.End = end
	return f
}

func (f EventForm) WithAllDay(allDay bool) EventForm {
	f.AllDay = allDay
	return f
}

func (f EventForm) WithDurationHours(hours string) EventForm {
	f.DurationHours = hours
	return f
}

func (f EventForm) WithTags(tags []string) EventForm {
	f.Tags = cloneTags(tags)
	return f
}

// WithRecurrence turns repetition on with the given cadence and optional
// inclusive end date. An empty cadence turns it off.
func (f EventForm) WithRecurrence(cadence models.RecurrenceType, until string) EventForm {
	f.Recurring = cadence != ""
	f.RecurrenceType = cadence
	f.RecurrenceEndDate = until
	return f
}

func (f EventForm) WithCompleted(done bool) EventForm {
	f.Completed = done
	return f
}

type eventRules struct {
	ContextID uint   `json:"context" validate:"required"`
	Title     string `json:"title" validate:"required,max=200"`
	Start     string `json:"start" validate:"required"`
}

type recurrenceRules struct {
	Type  models.RecurrenceType `json:"repeat" validate:"required,recurrence_type"`
	Until string                `json:"repeat until" validate:"omitempty,iso_date"`
}

// Submit validates the form and resolves the end: an explicit end wins,
// then the duration, then one hour (or one day for all-day events). The
// duration sent is always consistent with the span.
func (f EventForm) Submit() (client.EventInput, error) {
	rules := eventRules{ContextID: f.ContextID, Title: strings.TrimSpace(f.Title), Start: strings.TrimSpace(f.Start)}
	if err := check(rules); err != nil {
		return client.EventInput{}, err
	}

	start, err := timeutil.ParseFlexibleTime(rules.Start)
	if err != nil {
		return client.EventInput{}, invalid("start", "Start must be a date and time")
	}
	if f.AllDay {
		start = timeutil.StartOfDay(start)
	}

	var end time.Time
	if raw := strings.TrimSpace(f.End); raw != "" {
		end, err = timeutil.ParseFlexibleTime(raw)
		if err != nil {
			return client.EventInput{}, invalid("end", "End must be a date and time")
		}
		if f.AllDay {
			// All-day ends are inclusive dates on the form, exclusive midnights on the wire.
			end = timeutil.StartOfDay(end).AddDate(0, 0, 1)
		}
	}

	if end.IsZero() {
		switch raw := strings.TrimSpace(f.DurationHours); {
		case raw != "":
			hours, err := strconv.ParseFloat(raw, 64)
			if err != nil || hours <= 0 {
				return client.EventInput{}, invalid("durationHours", "Duration must be a positive number of hours")
			}
			end = start.Add(timeutil.HoursToDuration(hours))
		case f.AllDay:
			end = start.AddDate(0, 0, 1)
		default:
			end = start.Add(time.Hour)
		}
	}
	if end.Before(start) {
		return client.EventInput{}, invalid("end", "End must not be before start")
	}

	in := client.EventInput{
		ContextID:   f.ContextID,
		Title:       rules.Title,
		Description: strings.TrimSpace(f.Description),
		StartDate:   start,
		EndDate:     end,
		AllDay:      f.AllDay,
		Tags:        models.Tags(f.Tags),
		Completed:   f.Completed,
	}
	hours := timeutil.DurationHours(start, end)
	in.DurationHours = &hours

	if f.Recurring {
		rr := recurrenceRules{Type: f.RecurrenceType, Until: strings.TrimSpace(f.RecurrenceEndDate)}
		if err := check(rr); err != nil {
			return client.EventInput{}, err
		}
		if rr.Until != "" && rr.Until < timeutil.FormatISODate(start) {
			return client.EventInput{}, invalid("recurrenceEndDate", "Repeat until must be on or after the start date")
		}
		in.Recurring = true
		cadence := rr.Type
		in.RecurrenceType = &cadence
		in.RecurrenceEndDate = optional(rr.Until)
	}
	return in, nil
}
