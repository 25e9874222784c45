package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/services"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

type mockTodoService struct {
	createTodoFn      func(userID uint, in services.TodoInput) (*models.Todo, error)
	getTodoByIDFn     func(userID, todoID uint) (*models.Todo, error)
	updateTodoFn      func(userID, todoID uint, in services.TodoInput) (*models.Todo, error)
	deleteTodoFn      func(userID, todoID uint, preserveTime bool) error
	getContextTodosFn func(userID, contextID uint, dates services.DateFilter) ([]models.Todo, error)
	moveTodoFn        func(userID, todoID uint, status models.TodoStatus, position int) (*models.Todo, error)
	scheduleTodoFn    func(userID, todoID uint, in services.ScheduleInput) (*models.Todo, *models.Event, error)
	linkTodoFn        func(userID, todoID, eventID uint) (*models.Todo, *models.Event, error)
	unlinkTodoFn      func(userID, todoID uint, keepEvent bool) (*models.Todo, error)
}

func (m *mockTodoService) CreateTodo(userID uint, in services.TodoInput) (*models.Todo, error) {
	if m.createTodoFn != nil {
		return m.createTodoFn(userID, in)
	}
	return &models.Todo{}, nil
}

func (m *mockTodoService) GetTodoByID(userID, todoID uint) (*models.Todo, error) {
	if m.getTodoByIDFn != nil {
		return m.getTodoByIDFn(userID, todoID)
	}
	return &models.Todo{}, nil
}

func (m *mockTodoService) UpdateTodo(userID, todoID uint, in services.TodoInput) (*models.Todo, error) {
	if m.updateTodoFn != nil {
		return m.updateTodoFn(userID, todoID, in)
	}
	return &models.Todo{}, nil
}

func (m *mockTodoService) DeleteTodo(userID, todoID uint, preserveTime bool) error {
	if m.deleteTodoFn != nil {
		return m.deleteTodoFn(userID, todoID, preserveTime)
	}
	return nil
}

func (m *mockTodoService) GetContextTodos(userID, contextID uint, dates services.DateFilter) ([]models.Todo, error) {
	if m.getContextTodosFn != nil {
		return m.getContextTodosFn(userID, contextID, dates)
	}
	return []models.Todo{}, nil
}

func (m *mockTodoService) MoveTodo(userID, todoID uint, status models.TodoStatus, position int) (*models.Todo, error) {
	if m.moveTodoFn != nil {
		return m.moveTodoFn(userID, todoID, status, position)
	}
	return &models.Todo{}, nil
}

func (m *mockTodoService) ScheduleTodo(userID, todoID uint, in services.ScheduleInput) (*models.Todo, *models.Event, error) {
	if m.scheduleTodoFn != nil {
		return m.scheduleTodoFn(userID, todoID, in)
	}
	return &models.Todo{}, &models.Event{}, nil
}

func (m *mockTodoService) LinkTodo(userID, todoID, eventID uint) (*models.Todo, *models.Event, error) {
	if m.linkTodoFn != nil {
		return m.linkTodoFn(userID, todoID, eventID)
	}
	return &models.Todo{}, &models.Event{}, nil
}

func (m *mockTodoService) UnlinkTodo(userID, todoID uint, keepEvent bool) (*models.Todo, error) {
	if m.unlinkTodoFn != nil {
		return m.unlinkTodoFn(userID, todoID, keepEvent)
	}
	return &models.Todo{}, nil
}

var _ services.TodoServicer = (*mockTodoService)(nil)

func setupTodoRouter(handler *TodoHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/todos", handler.CreateTodo)
	auth.GET("/todos/:id", handler.GetTodoByID)
	auth.PUT("/todos/:id", handler.UpdateTodo)
	auth.DELETE("/todos/:id", handler.DeleteTodo)
	auth.POST("/todos/:id/move", handler.MoveTodo)
	auth.POST("/todos/:id/schedule", handler.ScheduleTodo)
	auth.POST("/todos/:id/link", handler.LinkTodo)
	auth.POST("/todos/:id/unlink", handler.UnlinkTodo)
	auth.GET("/contexts/:id/todos", handler.GetContextTodos)
	return r
}

func TestTodoHandler_CreateTodo(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TodoInput
		todoSvc := &mockTodoService{
			createTodoFn: func(_ uint, in services.TodoInput) (*models.Todo, error) {
				got = in
				return &models.Todo{Base: models.Base{ID: 10}, ContextID: in.ContextID, Title: in.Title, Status: models.TodoStatusTodo}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTodoRouter(NewTodoHandler(todoSvc, audit))

		rec := doRequest(r, "POST", "/todos",
			`{"contextId":2,"title":"Write report","priority":"high","dueDate":"2025-10-20","dueTime":"09:30","durationHours":1.5}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Priority != models.PriorityHigh || got.DueTime == nil || *got.DueTime != "09:30" {
			t.Errorf("unexpected input %+v", got)
		}
		if got.DurationHours == nil || *got.DurationHours != 1.5 {
			t.Errorf("expected duration 1.5, got %v", got.DurationHours)
		}
		todo := parseJSON(t, rec)["todo"].(map[string]interface{})
		if todo["title"] != "Write report" || todo["status"] != "todo" {
			t.Errorf("unexpected todo %v", todo)
		}
		if len(audit.entries) != 1 || audit.entries[0] != (auditEntry{services.AuditCreate, "todo", 10}) {
			t.Errorf("unexpected audit entries %+v", audit.entries)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"contextId":2}`},
		{"missing context", `{"title":"x"}`},
		{"unknown priority", `{"contextId":2,"title":"x","priority":"urgent"}`},
		{"unknown status", `{"contextId":2,"title":"x","status":"blocked"}`},
		{"non-positive duration", `{"contextId":2,"title":"x","durationHours":0}`},
	}
	for _, tc := range tests {
		t.Run("returns 400 on "+tc.name, func(t *testing.T) {
			r := setupTodoRouter(NewTodoHandler(&mockTodoService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/todos", tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestTodoHandler_GetTodoByID(t *testing.T) {
	todoSvc := &mockTodoService{
		getTodoByIDFn: func(_, _ uint) (*models.Todo, error) { return nil, apperrors.ErrTodoNotFound },
	}
	r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/todos/5", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "TODO_NOT_FOUND")
}

func TestTodoHandler_UpdateTodo(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		todoSvc := &mockTodoService{
			updateTodoFn: func(_, id uint, in services.TodoInput) (*models.Todo, error) {
				return &models.Todo{Base: models.Base{ID: id}, Title: in.Title, Status: in.Status}, nil
			},
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/todos/4", `{"contextId":2,"title":"Renamed","status":"done"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		todo := parseJSON(t, rec)["todo"].(map[string]interface{})
		if todo["status"] != "done" {
			t.Errorf("expected done, got %v", todo["status"])
		}
	})

	t.Run("returns 400 when a linked todo changes context", func(t *testing.T) {
		todoSvc := &mockTodoService{
			updateTodoFn: func(_, _ uint, _ services.TodoInput) (*models.Todo, error) {
				return nil, apperrors.ErrContextMismatch
			},
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/todos/4", `{"contextId":3,"title":"Moved"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CONTEXT_MISMATCH")
	})
}

func TestTodoHandler_DeleteTodo(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", false},
		{"?preserveTime=true", true},
		{"?preserveTime=false", false},
		{"?preserveTime=yes", false},
	}
	for _, tc := range tests {
		t.Run("query "+tc.query, func(t *testing.T) {
			var got bool
			todoSvc := &mockTodoService{
				deleteTodoFn: func(_, _ uint, preserveTime bool) error {
					got = preserveTime
					return nil
				},
			}
			r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

			rec := doRequest(r, "DELETE", "/todos/9"+tc.query, "")

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got != tc.want {
				t.Errorf("expected preserveTime %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTodoHandler_GetContextTodos(t *testing.T) {
	var got services.DateFilter
	todoSvc := &mockTodoService{
		getContextTodosFn: func(_, contextID uint, dates services.DateFilter) ([]models.Todo, error) {
			got = dates
			return []models.Todo{{Base: models.Base{ID: 1}, ContextID: contextID}}, nil
		},
	}
	r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/contexts/2/todos?range=day&date=2025-10-20", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Range != timeutil.RangeDay || timeutil.FormatISODate(got.Anchor) != "2025-10-20" {
		t.Errorf("unexpected date filter %+v", got)
	}
	if n := len(parseJSON(t, rec)["todos"].([]interface{})); n != 1 {
		t.Errorf("expected 1 todo, got %d", n)
	}
}

func TestTodoHandler_MoveTodo(t *testing.T) {
	t.Run("passes column and position to the service", func(t *testing.T) {
		todoSvc := &mockTodoService{
			moveTodoFn: func(_, id uint, status models.TodoStatus, position int) (*models.Todo, error) {
				return &models.Todo{Base: models.Base{ID: id}, Status: status, Position: position}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTodoRouter(NewTodoHandler(todoSvc, audit))

		rec := doRequest(r, "POST", "/todos/3/move", `{"status":"in_progress","position":0}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		todo := parseJSON(t, rec)["todo"].(map[string]interface{})
		if todo["status"] != "in_progress" || todo["position"].(float64) != 0 {
			t.Errorf("unexpected todo %v", todo)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditMove {
			t.Errorf("unexpected audit entries %+v", audit.entries)
		}
	})

	t.Run("returns 400 on negative position", func(t *testing.T) {
		r := setupTodoRouter(NewTodoHandler(&mockTodoService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/3/move", `{"status":"done","position":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 without status", func(t *testing.T) {
		r := setupTodoRouter(NewTodoHandler(&mockTodoService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/3/move", `{"position":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTodoHandler_ScheduleTodo(t *testing.T) {
	t.Run("returns 201 with todo and event", func(t *testing.T) {
		var got services.ScheduleInput
		todoSvc := &mockTodoService{
			scheduleTodoFn: func(_, id uint, in services.ScheduleInput) (*models.Todo, *models.Event, error) {
				got = in
				eventID := uint(50)
				return &models.Todo{Base: models.Base{ID: id}, CalendarEventID: &eventID},
					&models.Event{Base: models.Base{ID: eventID}, LinkedTodoID: &id}, nil
			},
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/7/schedule", `{"start":"2025-10-20T09:00:00Z","durationHours":2,"allDay":false}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Start == nil || got.Start.Hour() != 9 || got.DurationHours == nil || *got.DurationHours != 2 {
			t.Errorf("unexpected schedule input %+v", got)
		}
		result := parseJSON(t, rec)
		todo := result["todo"].(map[string]interface{})
		event := result["event"].(map[string]interface{})
		if todo["calendarEventId"].(float64) != 50 || event["linkedTodoId"].(float64) != 7 {
			t.Errorf("expected both sides of the link, got %v", result)
		}
	})

	t.Run("uses the due date when no start is given", func(t *testing.T) {
		todoSvc := &mockTodoService{
			scheduleTodoFn: func(_, _ uint, in services.ScheduleInput) (*models.Todo, *models.Event, error) {
				if in.Start != nil {
					t.Errorf("expected nil start, got %v", in.Start)
				}
				return &models.Todo{}, &models.Event{}, nil
			},
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/7/schedule", `{"allDay":false}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 when the todo has no due date", func(t *testing.T) {
		todoSvc := &mockTodoService{
			scheduleTodoFn: func(_, _ uint, _ services.ScheduleInput) (*models.Todo, *models.Event, error) {
				return nil, nil, apperrors.ErrTodoNotDue
			},
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/7/schedule", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TODO_NOT_SCHEDULABLE")
	})

	t.Run("returns 409 when already linked", func(t *testing.T) {
		todoSvc := &mockTodoService{
			scheduleTodoFn: func(_, _ uint, _ services.ScheduleInput) (*models.Todo, *models.Event, error) {
				return nil, nil, apperrors.ErrAlreadyLinked
			},
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/7/schedule", `{}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestTodoHandler_LinkTodo(t *testing.T) {
	t.Run("returns both sides of the link", func(t *testing.T) {
		var gotEvent uint
		todoSvc := &mockTodoService{
			linkTodoFn: func(_, todoID, eventID uint) (*models.Todo, *models.Event, error) {
				gotEvent = eventID
				return &models.Todo{Base: models.Base{ID: todoID}}, &models.Event{Base: models.Base{ID: eventID}}, nil
			},
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/7/link", `{"eventId":12}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotEvent != 12 {
			t.Errorf("expected event 12, got %d", gotEvent)
		}
	})

	t.Run("returns 400 without event id", func(t *testing.T) {
		r := setupTodoRouter(NewTodoHandler(&mockTodoService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/7/link", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 for an unknown event", func(t *testing.T) {
		todoSvc := &mockTodoService{
			linkTodoFn: func(_, _, _ uint) (*models.Todo, *models.Event, error) {
				return nil, nil, apperrors.ErrEventNotFound
			},
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/7/link", `{"eventId":99}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EVENT_NOT_FOUND")
	})
}

func TestTodoHandler_UnlinkTodo(t *testing.T) {
	t.Run("passes keepEvent to the service", func(t *testing.T) {
		var got bool
		todoSvc := &mockTodoService{
			unlinkTodoFn: func(_, id uint, keepEvent bool) (*models.Todo, error) {
				got = keepEvent
				return &models.Todo{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/7/unlink", `{"keepEvent":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got {
			t.Error("expected keepEvent to be true")
		}
		todo := parseJSON(t, rec)["todo"].(map[string]interface{})
		if todo["calendarEventId"] != nil {
			t.Errorf("expected no link, got %v", todo["calendarEventId"])
		}
	})

	t.Run("returns 400 when not linked", func(t *testing.T) {
		todoSvc := &mockTodoService{
			unlinkTodoFn: func(_, _ uint, _ bool) (*models.Todo, error) { return nil, apperrors.ErrNotLinked },
		}
		r := setupTodoRouter(NewTodoHandler(todoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/todos/7/unlink", `{"keepEvent":false}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOT_LINKED")
	})
}
