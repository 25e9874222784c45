package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/calendar"
	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/forms"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/notify"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
	"github.com/adrianpop47/second-brain-app-sub000/internal/uistate"
)

// Choices offered when deleting an event that has a linked todo.
const (
	DeleteEventOnly = "event"
)

// CalendarView is the active calendar layout.
type CalendarView string

const (
	ViewDay   CalendarView = "day"
	ViewWeek  CalendarView = "week"
	ViewMonth CalendarView = "month"
	ViewYear  CalendarView = "year"
)

func (v CalendarView) rangeFilter() timeutil.Range {
	switch v {
	case ViewDay:
		return timeutil.RangeDay
	case ViewWeek:
		return timeutil.RangeWeek
	case ViewYear:
		return timeutil.RangeYear
	default:
		return timeutil.RangeMonth
	}
}

// CalendarAPI is what the calendar screen needs from the API.
type CalendarAPI interface {
	ContextEvents(ctx context.Context, id uint, q client.RangeQuery) ([]models.Event, error)
	CreateEvent(ctx context.Context, in client.EventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, id uint, in client.EventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uint, preserveTodo bool) error
	UnlinkEvent(ctx context.Context, id uint, keepTodo bool) (*models.Event, error)
	DeleteTodo(ctx context.Context, id uint, preserveTime bool) error
}

// CalendarState is a snapshot of the calendar screen. Entries are the
// events of the visible window with recurring series expanded.
type CalendarState struct {
	LoadState
	ContextID uint
	View      CalendarView
	Anchor    time.Time
	Events    []models.Event
	Entries   []calendar.Entry
	Modal     uistate.Modal[models.Event]
}

// Calendar is the per-context calendar screen.
type Calendar struct {
	api  CalendarAPI
	deps Deps
	gen  uistate.Generation

	mu    sync.Mutex
	state CalendarState
}

// NewCalendar opens the calendar on today's week.
func NewCalendar(api CalendarAPI, deps Deps, contextID uint) *Calendar {
	deps = deps.withDefaults("calendar")
	return &Calendar{
		api:  api,
		deps: deps,
		state: CalendarState{
			ContextID: contextID,
			View:      ViewWeek,
			Anchor:    timeutil.StartOfDay(deps.Now()),
		},
	}
}

// State returns a snapshot.
func (c *Calendar) State() CalendarState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Show switches view and anchor date, then reloads.
func (c *Calendar) Show(ctx context.Context, view CalendarView, anchor time.Time) error {
	c.mu.Lock()
	c.state.View = view
	c.state.Anchor = timeutil.StartOfDay(anchor)
	c.mu.Unlock()
	return c.Load(ctx)
}

// Step moves the anchor one view-length forward (n > 0) or back (n < 0).
func (c *Calendar) Step(ctx context.Context, n int) error {
	c.mu.Lock()
	a := c.state.Anchor
	switch c.state.View {
	case ViewDay:
		a = a.AddDate(0, 0, n)
	case ViewWeek:
		a = a.AddDate(0, 0, 7*n)
	case ViewMonth:
		a = time.Date(a.Year(), a.Month()+time.Month(n), 1, 0, 0, 0, 0, a.Location())
	case ViewYear:
		a = time.Date(a.Year()+n, time.January, 1, 0, 0, 0, 0, a.Location())
	}
	c.state.Anchor = a
	c.mu.Unlock()
	return c.Load(ctx)
}

// Load fetches the events of the visible window and expands recurring
// series into it. Adjacent-month days shown on a month grid stay empty.
func (c *Calendar) Load(ctx context.Context) error {
	token := c.gen.Begin()
	c.mu.Lock()
	c.state.Loading = true
	id, view, anchor := c.state.ContextID, c.state.View, c.state.Anchor
	c.mu.Unlock()

	r := view.rangeFilter()
	from, to, _ := r.Bounds(anchor)
	q := client.RangeQuery{Range: r, Date: timeutil.FormatISODate(anchor)}

	events, err := c.api.ContextEvents(ctx, id, q)
	if !c.gen.IsCurrent(token) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	c.state.Err = err
	if err != nil {
		c.deps.Log.Warnw("load failed", "context", id, "view", view, "error", err)
		return err
	}
	c.state.Events = events
	c.state.Entries = calendar.Expand(calendar.FromEvents(events), from, to)
	return nil
}

// Day lays out the anchor day.
func (c *Calendar) Day() calendar.DayLayout {
	s := c.State()
	return calendar.LayoutDay(s.Anchor, s.Entries)
}

// Week lays out the week containing the anchor.
func (c *Calendar) Week() calendar.WeekLayout {
	s := c.State()
	return calendar.LayoutWeek(s.Anchor, s.Entries)
}

// Month lays out the anchor's month for a viewport viewportWidth pixels wide.
func (c *Calendar) Month(viewportWidth int) calendar.MonthGrid {
	s := c.State()
	return calendar.BuildMonth(s.Anchor, c.deps.Now(), s.Entries, calendar.MaxVisiblePerCell(viewportWidth))
}

// Year counts entries per day of the anchor's year.
func (c *Calendar) Year() calendar.YearGrid {
	s := c.State()
	return calendar.BuildYear(s.Anchor.Year(), s.Anchor.Location(), s.Entries)
}

// OpenCreate opens the new event modal.
func (c *Calendar) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Modal = c.state.Modal.OpenCreate()
}

// OpenEdit opens the modal on e.
func (c *Calendar) OpenEdit(e models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Modal = c.state.Modal.OpenEdit(e)
}

// CloseModal dismisses the modal.
func (c *Calendar) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Modal = c.state.Modal.Close()
}

// Create validates and saves a new event.
func (c *Calendar) Create(ctx context.Context, form forms.EventForm) (*models.Event, error) {
	c.mu.Lock()
	form.ContextID = c.state.ContextID
	c.mu.Unlock()

	in, err := form.Submit()
	if err != nil {
		return nil, c.deps.fail("create event", err)
	}
	created, err := c.api.CreateEvent(ctx, in)
	if err != nil {
		return nil, c.deps.fail("create event", err)
	}
	c.CloseModal()
	c.deps.Alerts.Success("Event created")
	c.refresh(ctx)
	return created, nil
}

// Update saves form over existing. When the event has a linked todo the
// server carries the new duration over to it; the user is told so.
func (c *Calendar) Update(ctx context.Context, existing models.Event, form forms.EventForm) (*models.Event, error) {
	in, err := form.Submit()
	if err != nil {
		return nil, c.deps.fail("update event", err)
	}
	updated, err := c.api.UpdateEvent(ctx, existing.ID, in)
	if err != nil {
		return nil, c.deps.fail("update event", err)
	}
	c.CloseModal()
	if existing.LinkedTodoID != nil && updated.DurationHours != existing.DurationHours {
		c.deps.Alerts.Info("Event updated. The linked todo now takes " + timeutil.FormatHours(updated.DurationHours))
	} else {
		c.deps.Alerts.Success("Event updated")
	}
	c.refresh(ctx)
	return updated, nil
}

// ToggleComplete flips the completed flag of e.
func (c *Calendar) ToggleComplete(ctx context.Context, e models.Event) error {
	form := forms.EventFormFrom(e).WithCompleted(!e.Completed)
	in, err := form.Submit()
	if err != nil {
		return c.deps.fail("update event", err)
	}
	if _, err := c.api.UpdateEvent(ctx, e.ID, in); err != nil {
		return c.deps.fail("update event", err)
	}
	c.refresh(ctx)
	return nil
}

// Delete removes e after confirmation. When the event has a linked todo the
// user chooses between deleting both, deleting only the event (the todo
// stays on the board) or cancelling.
func (c *Calendar) Delete(ctx context.Context, e models.Event) error {
	if e.LinkedTodoID == nil {
		if err := c.deps.ask(ctx, "Delete event?", "\""+e.Title+"\" will be removed.", "Delete"); err != nil {
			return err
		}
		if err := c.api.DeleteEvent(ctx, e.ID, false); err != nil {
			return c.deps.fail("delete event", err)
		}
		c.deps.Alerts.Success("Event deleted")
		c.refresh(ctx)
		return nil
	}

	decision, err := c.deps.Confirm.Ask(ctx, notify.ConfirmRequest{
		Title:   "Delete linked event?",
		Message: "\"" + e.Title + "\" is linked to a todo.",
		Tone:    notify.ToneDanger,
		Options: []notify.ConfirmOption{
			{Label: "Delete both", Value: DeleteBoth, Tone: notify.ToneDanger},
			{Label: "Delete Event only", Value: DeleteEventOnly},
		},
	})
	if err != nil {
		return err
	}

	todoID := *e.LinkedTodoID
	switch {
	case !decision.Confirmed:
		return ErrCancelled
	case decision.Value == DeleteBoth:
		if err := c.api.DeleteTodo(ctx, todoID, true); err != nil {
			return c.deps.fail("delete todo", err)
		}
		if err := c.api.DeleteEvent(ctx, e.ID, false); err != nil {
			return c.deps.fail("delete event", err)
		}
		c.deps.Alerts.Success("Event and todo deleted")
	case decision.Value == DeleteEventOnly:
		if _, err := c.api.UnlinkEvent(ctx, e.ID, true); err != nil {
			return c.deps.fail("unlink event", err)
		}
		if err := c.api.DeleteEvent(ctx, e.ID, true); err != nil {
			return c.deps.fail("delete event", err)
		}
		c.deps.Alerts.Success("Event deleted, todo kept")
	default:
		return ErrCancelled
	}
	c.refresh(ctx)
	return nil
}

func (c *Calendar) refresh(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		c.deps.Alerts.Warning("The calendar could not be refreshed")
	}
}
