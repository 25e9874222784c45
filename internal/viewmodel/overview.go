package viewmodel

import (
	"context"
	"sort"
	"sync"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
	"github.com/adrianpop47/second-brain-app-sub000/internal/uistate"
)

// RecentNotesLimit caps the notes shown on the overview.
const RecentNotesLimit = 5

// OverviewAPI is what the context overview needs from the API.
type OverviewAPI interface {
	GetContext(ctx context.Context, id uint) (*models.Context, error)
	Summary(ctx context.Context, q client.TransactionQuery) (*models.Summary, error)
	ContextTodos(ctx context.Context, id uint, q client.RangeQuery) ([]models.Todo, error)
	ContextNotes(ctx context.Context, id uint, q client.RangeQuery) ([]models.Note, error)
}

// OverviewState is a snapshot of a context's overview.
type OverviewState struct {
	LoadState
	Context     models.Context
	Summary     models.Summary
	OpenTodos   int
	Overdue     []models.Todo
	RecentNotes []models.Note
}

// Overview is the landing screen of a context: this month's money, what is
// overdue and the latest notes.
type Overview struct {
	api       OverviewAPI
	deps      Deps
	gen       uistate.Generation
	contextID uint

	mu    sync.Mutex
	state OverviewState
}

// NewOverview returns the overview of a context.
func NewOverview(api OverviewAPI, deps Deps, contextID uint) *Overview {
	return &Overview{api: api, deps: deps.withDefaults("overview"), contextID: contextID}
}

// State returns a snapshot.
func (o *Overview) State() OverviewState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Load fetches the overview. The recent notes panel is secondary: when it
// fails the overview still loads and the panel is empty.
func (o *Overview) Load(ctx context.Context) error {
	token := o.gen.Begin()
	o.mu.Lock()
	o.state.Loading = true
	o.mu.Unlock()

	next := OverviewState{}
	err := o.loadPrimary(ctx, &next)
	if err == nil {
		next.RecentNotes = o.recentNotes(ctx)
	}

	if !o.gen.IsCurrent(token) {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state.Loading = false
		o.state.Err = err
		o.deps.Log.Warnw("load failed", "context", o.contextID, "error", err)
		return err
	}
	o.state = next
	return nil
}

func (o *Overview) loadPrimary(ctx context.Context, next *OverviewState) error {
	c, err := o.api.GetContext(ctx, o.contextID)
	if err != nil {
		return err
	}
	next.Context = *c

	id := o.contextID
	summary, err := o.api.Summary(ctx, client.TransactionQuery{
		RangeQuery: client.RangeQuery{Range: timeutil.RangeMonth, Date: timeutil.FormatISODate(o.deps.Now())},
		ContextID:  &id,
	})
	if err != nil {
		return err
	}
	next.Summary = *summary

	todos, err := o.api.ContextTodos(ctx, id, client.RangeQuery{Range: timeutil.RangeAll})
	if err != nil {
		return err
	}
	now := o.deps.Now()
	next.Overdue = []models.Todo{}
	for _, t := range todos {
		if t.Status == models.TodoStatusDone {
			continue
		}
		next.OpenTodos++
		var date, clock string
		if t.DueDate != nil {
			date = *t.DueDate
		}
		if t.DueTime != nil {
			clock = *t.DueTime
		}
		if timeutil.IsOverdue(date, clock, string(t.Status), now) {
			next.Overdue = append(next.Overdue, t)
		}
	}
	return nil
}

func (o *Overview) recentNotes(ctx context.Context) []models.Note {
	notes, err := o.api.ContextNotes(ctx, o.contextID, client.RangeQuery{Range: timeutil.RangeAll})
	if err != nil {
		o.deps.Log.Warnw("recent notes unavailable", "context", o.contextID, "error", err)
		return []models.Note{}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	if len(notes) > RecentNotesLimit {
		notes = notes[:RecentNotesLimit]
	}
	return notes
}
