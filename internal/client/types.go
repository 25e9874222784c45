package client

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/pagination"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

// ContextInput creates or replaces a context.
type ContextInput struct {
	Name      string           `json:"name"`
	Emoji     string           `json:"emoji"`
	FieldType models.FieldType `json:"fieldType"`
}

// TransactionInput creates or replaces a transaction. Amount is sent as a
// JSON number.
type TransactionInput struct {
	Type        models.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
	Tags        []string               `json:"tags"`
	Date        string                 `json:"date"`
	ContextID   *uint                  `json:"contextId,omitempty"`
}

// TodoInput creates or replaces a todo.
type TodoInput struct {
	ContextID     uint              `json:"contextId"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Priority      models.Priority   `json:"priority"`
	Status        models.TodoStatus `json:"status"`
	DueDate       *string           `json:"dueDate"`
	DueTime       *string           `json:"dueTime"`
	DurationHours *float64          `json:"durationHours"`
	Tags          []string          `json:"tags"`
}

// TodoMove places a todo in a board column at a zero-based position.
type TodoMove struct {
	Status   models.TodoStatus `json:"status"`
	Position int               `json:"position"`
}

// ScheduleInput turns a todo into a linked calendar event. A nil Start uses
// the todo's due date and time.
type ScheduleInput struct {
	Start         *time.Time `json:"start,omitempty"`
	DurationHours *float64   `json:"durationHours,omitempty"`
	AllDay        bool       `json:"allDay"`
}

// EventInput creates or replaces an event.
type EventInput struct {
	ContextID         uint                   `json:"contextId"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	StartDate         time.Time              `json:"startDate"`
	EndDate           time.Time              `json:"endDate"`
	AllDay            bool                   `json:"allDay"`
	DurationHours     *float64               `json:"durationHours,omitempty"`
	Tags              []string               `json:"tags"`
	Recurring         bool                   `json:"recurring"`
	RecurrenceType    *models.RecurrenceType `json:"recurrenceType,omitempty"`
	RecurrenceEndDate *string                `json:"recurrenceEndDate,omitempty"`
	Completed         bool                   `json:"completed"`
}

// NoteInput creates or replaces a note.
type NoteInput struct {
	ContextID uint     `json:"contextId"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
}

// RangeQuery filters listings by a date range around Date (today when empty).
type RangeQuery struct {
	Range timeutil.Range
	Date  string
}

func (q RangeQuery) values() url.Values {
	v := url.Values{}
	if q.Range != "" {
		v.Set("range", string(q.Range))
	}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	return v
}

// TransactionQuery filters the standalone transaction listing and stats.
type TransactionQuery struct {
	RangeQuery
	ContextID *uint
	Type      models.TransactionType
	Page      int
	PageSize  int
}

func (q TransactionQuery) values() url.Values {
	v := q.RangeQuery.values()
	if q.ContextID != nil {
		v.Set("contextId", strconv.FormatUint(uint64(*q.ContextID), 10))
	}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	pagination.PageRequest{Page: q.Page, PageSize: q.PageSize}.Encode(v)
	return v
}

// Session is returned by login and register.
type Session struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}
