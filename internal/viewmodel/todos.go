package viewmodel

import (
	"context"
	"sort"
	"sync"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/forms"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/notify"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
	"github.com/adrianpop47/second-brain-app-sub000/internal/uistate"
)

// Choices offered when deleting a todo that has a calendar event.
const (
	DeleteBoth     = "both"
	DeleteTodoOnly = "todo"
)

// TodoAPI is what the todo board needs from the API.
type TodoAPI interface {
	ContextTodos(ctx context.Context, id uint, q client.RangeQuery) ([]models.Todo, error)
	CreateTodo(ctx context.Context, in client.TodoInput) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id uint, in client.TodoInput) (*models.Todo, error)
	MoveTodo(ctx context.Context, id uint, move client.TodoMove) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id uint, preserveTime bool) error
	UnlinkTodo(ctx context.Context, id uint, keepEvent bool) (*models.Todo, error)
	ScheduleTodo(ctx context.Context, id uint, in client.ScheduleInput) (*models.Todo, *models.Event, error)
	DeleteEvent(ctx context.Context, id uint, preserveTodo bool) error
}

// Board is the kanban board, one column per status in display order.
type Board map[models.TodoStatus][]models.Todo

// Column returns the todos in status order by position.
func (b Board) Column(status models.TodoStatus) []models.Todo {
	return b[status]
}

// Find returns the todo with id.
func (b Board) Find(id uint) (models.Todo, bool) {
	for _, col := range b {
		for _, t := range col {
			if t.ID == id {
				return t, true
			}
		}
	}
	return models.Todo{}, false
}

func buildBoard(todos []models.Todo) Board {
	b := make(Board, len(models.TodoStatuses))
	for _, s := range models.TodoStatuses {
		b[s] = []models.Todo{}
	}
	for _, t := range todos {
		b[t.Status] = append(b[t.Status], t)
	}
	for s := range b {
		col := b[s]
		sort.SliceStable(col, func(i, j int) bool {
			if col[i].Position != col[j].Position {
				return col[i].Position < col[j].Position
			}
			return col[i].ID < col[j].ID
		})
	}
	return b
}

// TodosState is a snapshot of the todo board.
type TodosState struct {
	LoadState
	ContextID uint
	Board     Board
	Modal     uistate.Modal[models.Todo]
}

// Todos is the per-context kanban board.
type Todos struct {
	api  TodoAPI
	deps Deps
	gen  uistate.Generation

	mu    sync.Mutex
	state TodosState
}

// NewTodos returns the board for a context.
func NewTodos(api TodoAPI, deps Deps, contextID uint) *Todos {
	return &Todos{
		api:   api,
		deps:  deps.withDefaults("todos"),
		state: TodosState{ContextID: contextID, Board: buildBoard(nil)},
	}
}

// State returns a snapshot.
func (t *Todos) State() TodosState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsOverdue reports whether todo is overdue now.
func (t *Todos) IsOverdue(todo models.Todo) bool {
	var date, clock string
	if todo.DueDate != nil {
		date = *todo.DueDate
	}
	if todo.DueTime != nil {
		clock = *todo.DueTime
	}
	return timeutil.IsOverdue(date, clock, string(todo.Status), t.deps.Now())
}

// Load fetches every todo of the context.
func (t *Todos) Load(ctx context.Context) error {
	token := t.gen.Begin()
	t.mu.Lock()
	t.state.Loading = true
	id := t.state.ContextID
	t.mu.Unlock()

	todos, err := t.api.ContextTodos(ctx, id, client.RangeQuery{Range: timeutil.RangeAll})
	if !t.gen.IsCurrent(token) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Loading = false
	t.state.Err = err
	if err != nil {
		t.deps.Log.Warnw("load failed", "context", id, "error", err)
		return err
	}
	t.state.Board = buildBoard(todos)
	return nil
}

// OpenCreate opens the new todo modal.
func (t *Todos) OpenCreate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Modal = t.state.Modal.OpenCreate()
}

// OpenEdit opens the modal on todo.
func (t *Todos) OpenEdit(todo models.Todo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Modal = t.state.Modal.OpenEdit(todo)
}

// CloseModal dismisses the modal.
func (t *Todos) CloseModal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Modal = t.state.Modal.Close()
}

// Create validates and saves a new todo, then reloads the board.
func (t *Todos) Create(ctx context.Context, form forms.TodoForm) (*models.Todo, error) {
	t.mu.Lock()
	form.ContextID = t.state.ContextID
	t.mu.Unlock()

	in, err := form.Submit()
	if err != nil {
		return nil, t.deps.fail("create todo", err)
	}
	created, err := t.api.CreateTodo(ctx, in)
	if err != nil {
		return nil, t.deps.fail("create todo", err)
	}
	t.CloseModal()
	t.deps.Alerts.Success("Todo created")
	t.refresh(ctx)
	return created, nil
}

// Update saves form over the todo with id.
func (t *Todos) Update(ctx context.Context, id uint, form forms.TodoForm) (*models.Todo, error) {
	in, err := form.Submit()
	if err != nil {
		return nil, t.deps.fail("update todo", err)
	}
	updated, err := t.api.UpdateTodo(ctx, id, in)
	if err != nil {
		return nil, t.deps.fail("update todo", err)
	}
	t.CloseModal()
	t.deps.Alerts.Success("Todo updated")
	t.refresh(ctx)
	return updated, nil
}

// Move handles a drag and drop: the card is moved locally right away and the
// board is reloaded from the server if the move is rejected.
func (t *Todos) Move(ctx context.Context, id uint, status models.TodoStatus, position int) error {
	t.mu.Lock()
	t.state.Board = moveLocal(t.state.Board, id, status, position)
	t.mu.Unlock()

	if _, err := t.api.MoveTodo(ctx, id, client.TodoMove{Status: status, Position: position}); err != nil {
		t.refresh(ctx)
		return t.deps.fail("move todo", err)
	}
	return nil
}

func moveLocal(b Board, id uint, status models.TodoStatus, position int) Board {
	next := make(Board, len(b))
	var moving models.Todo
	found := false
	for s, col := range b {
		kept := make([]models.Todo, 0, len(col))
		for _, todo := range col {
			if todo.ID == id {
				moving, found = todo, true
				continue
			}
			kept = append(kept, todo)
		}
		next[s] = kept
	}
	if !found {
		return b
	}
	moving.Status = status
	col := next[status]
	if position < 0 {
		position = 0
	}
	if position > len(col) {
		position = len(col)
	}
	col = append(col[:position:position], append([]models.Todo{moving}, col[position:]...)...)
	for i := range col {
		col[i].Position = i
	}
	next[status] = col
	return next
}

// Schedule puts the todo on the calendar at its due date and time.
func (t *Todos) Schedule(ctx context.Context, id uint, in client.ScheduleInput) (*models.Event, error) {
	_, event, err := t.api.ScheduleTodo(ctx, id, in)
	if err != nil {
		return nil, t.deps.fail("schedule todo", err)
	}
	t.deps.Alerts.Success("Added to calendar")
	t.refresh(ctx)
	return event, nil
}

// Delete removes todo after confirmation. When the todo has a calendar
// event the user chooses between deleting both, deleting only the todo
// (the time block stays on the calendar) or cancelling.
func (t *Todos) Delete(ctx context.Context, todo models.Todo) error {
	if todo.CalendarEventID == nil {
		if err := t.deps.ask(ctx, "Delete todo?", "\""+todo.Title+"\" will be removed.", "Delete"); err != nil {
			return err
		}
		if err := t.api.DeleteTodo(ctx, todo.ID, false); err != nil {
			return t.deps.fail("delete todo", err)
		}
		t.deps.Alerts.Success("Todo deleted")
		t.refresh(ctx)
		return nil
	}

	decision, err := t.deps.Confirm.Ask(ctx, notify.ConfirmRequest{
		Title:       "Delete linked todo?",
		Message:     "\"" + todo.Title + "\" is scheduled on the calendar.",
		CancelLabel: "Cancel",
		Tone:        notify.ToneDanger,
		Options: []notify.ConfirmOption{
			{Label: "Delete both", Value: DeleteBoth, Tone: notify.ToneDanger},
			{Label: "Delete Todo only", Value: DeleteTodoOnly},
		},
	})
	if err != nil {
		return err
	}

	eventID := *todo.CalendarEventID
	switch {
	case !decision.Confirmed:
		return ErrCancelled
	case decision.Value == DeleteBoth:
		if err := t.api.DeleteEvent(ctx, eventID, true); err != nil {
			return t.deps.fail("delete event", err)
		}
		if err := t.api.DeleteTodo(ctx, todo.ID, false); err != nil {
			return t.deps.fail("delete todo", err)
		}
		t.deps.Alerts.Success("Todo and event deleted")
	case decision.Value == DeleteTodoOnly:
		if _, err := t.api.UnlinkTodo(ctx, todo.ID, true); err != nil {
			return t.deps.fail("unlink todo", err)
		}
		if err := t.api.DeleteTodo(ctx, todo.ID, true); err != nil {
			return t.deps.fail("delete todo", err)
		}
		t.deps.Alerts.Success("Todo deleted, event kept")
	default:
		return ErrCancelled
	}
	t.refresh(ctx)
	return nil
}

func (t *Todos) refresh(ctx context.Context) {
	if err := t.Load(ctx); err != nil {
		t.deps.Alerts.Warning("The board could not be refreshed")
	}
}
