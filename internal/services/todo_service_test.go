package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/testutil"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

// column returns the ids of a board column in position order.
func column(t *testing.T, db *gorm.DB, contextID uint, status models.TodoStatus) []uint {
	t.Helper()
	var todos []models.Todo
	if err := db.Where("context_id = ? AND status = ?", contextID, status).Order("position ASC").Find(&todos).Error; err != nil {
		t.Fatalf("failed to load column: %v", err)
	}
	ids := make([]uint, len(todos))
	for i, todo := range todos {
		if todo.Position != i {
			t.Errorf("todo %d has position %d, expected %d", todo.ID, todo.Position, i)
		}
		ids[i] = todo.ID
	}
	return ids
}

func assertIDs(t *testing.T, got []uint, want ...uint) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCreateTodo(t *testing.T) {
	t.Run("appends_with_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTodoService(db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)
		testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)

		todo, err := svc.CreateTodo(user.ID, TodoInput{ContextID: c.ID, Title: "Write report", DueDate: strPtr(""), DueTime: strPtr("10:00")})
		testutil.AssertNoError(t, err)
		if todo.Priority != models.PriorityMedium || todo.Status != models.TodoStatusTodo {
			t.Errorf("expected medium/todo defaults, got %s/%s", todo.Priority, todo.Status)
		}
		if todo.Position != 1 {
			t.Errorf("expected position 1, got %d", todo.Position)
		}
		if todo.DueDate != nil || todo.DueTime != nil {
			t.Error("expected due time dropped without a due date")
		}
	})

	tests := []struct {
		name string
		in   TodoInput
		code string
	}{
		{"missing_title", TodoInput{Title: " "}, "INVALID_INPUT"},
		{"bad_priority", TodoInput{Title: "x", Priority: "urgent"}, "INVALID_INPUT"},
		{"bad_status", TodoInput{Title: "x", Status: "blocked"}, "INVALID_INPUT"},
		{"bad_due_date", TodoInput{Title: "x", DueDate: strPtr("tomorrow")}, "INVALID_INPUT"},
		{"bad_due_time", TodoInput{Title: "x", DueDate: strPtr("2025-10-25"), DueTime: strPtr("9am")}, "INVALID_INPUT"},
		{"zero_duration", TodoInput{Title: "x", DurationHours: floatPtr(0)}, "INVALID_INPUT"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			user := testutil.CreateTestUser(t, db)
			c := testutil.CreateTestContext(t, db, user.ID)
			tc.in.ContextID = c.ID

			_, err := NewTodoService(db).CreateTodo(user.ID, tc.in)
			testutil.AssertAppError(t, err, tc.code)
		})
	}

	t.Run("unknown_context", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		_, err := NewTodoService(db).CreateTodo(user.ID, TodoInput{ContextID: 42, Title: "x"})
		testutil.AssertAppError(t, err, "CONTEXT_NOT_FOUND")
	})
}

func TestUpdateTodo_StatusChangeMovesToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTodoService(db)
	user := testutil.CreateTestUser(t, db)
	c := testutil.CreateTestContext(t, db, user.ID)
	a := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
	b := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 1)
	done := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusDone, 0)

	updated, err := svc.UpdateTodo(user.ID, a.ID, TodoInput{ContextID: c.ID, Title: a.Title, Status: models.TodoStatusDone})
	testutil.AssertNoError(t, err)
	if updated.Position != 1 {
		t.Errorf("expected position 1 in done, got %d", updated.Position)
	}
	assertIDs(t, column(t, db, c.ID, models.TodoStatusTodo), b.ID)
	assertIDs(t, column(t, db, c.ID, models.TodoStatusDone), done.ID, a.ID)
}

func TestUpdateTodo_LinkedCannotChangeContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	c := testutil.CreateTestContext(t, db, user.ID)
	other := testutil.CreateTestContext(t, db, user.ID)
	todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
	event := testutil.CreateTestEvent(t, db, user.ID, c.ID, time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC), 1)
	testutil.LinkTestTodo(t, db, todo, event)

	_, err := NewTodoService(db).UpdateTodo(user.ID, todo.ID, TodoInput{ContextID: other.ID, Title: "moved"})
	testutil.AssertAppError(t, err, "CONTEXT_MISMATCH")
}

func TestMoveTodo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTodoService(db)
	user := testutil.CreateTestUser(t, db)
	c := testutil.CreateTestContext(t, db, user.ID)
	a := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
	b := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 1)
	cc := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 2)

	t.Run("within_column", func(t *testing.T) {
		moved, err := svc.MoveTodo(user.ID, cc.ID, models.TodoStatusTodo, 0)
		testutil.AssertNoError(t, err)
		if moved.Position != 0 {
			t.Errorf("expected position 0, got %d", moved.Position)
		}
		assertIDs(t, column(t, db, c.ID, models.TodoStatusTodo), cc.ID, a.ID, b.ID)
	})

	t.Run("across_columns_clamps_position", func(t *testing.T) {
		moved, err := svc.MoveTodo(user.ID, a.ID, models.TodoStatusInProgress, 7)
		testutil.AssertNoError(t, err)
		if moved.Status != models.TodoStatusInProgress || moved.Position != 0 {
			t.Errorf("expected in_progress/0, got %s/%d", moved.Status, moved.Position)
		}
		assertIDs(t, column(t, db, c.ID, models.TodoStatusTodo), cc.ID, b.ID)
		assertIDs(t, column(t, db, c.ID, models.TodoStatusInProgress), a.ID)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := svc.MoveTodo(user.ID, a.ID, "archived", 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.MoveTodo(user.ID, a.ID, models.TodoStatusDone, -1)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.MoveTodo(user.ID, 9999, models.TodoStatusDone, 0)
		testutil.AssertAppError(t, err, "TODO_NOT_FOUND")
	})
}

func TestGetContextTodos_Range(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTodoService(db)
	user := testutil.CreateTestUser(t, db)
	c := testutil.CreateTestContext(t, db, user.ID)

	inWeek, err := svc.CreateTodo(user.ID, TodoInput{ContextID: c.ID, Title: "this week", DueDate: strPtr("2025-10-21")})
	testutil.AssertNoError(t, err)
	_, err = svc.CreateTodo(user.ID, TodoInput{ContextID: c.ID, Title: "next week", DueDate: strPtr("2025-10-27")})
	testutil.AssertNoError(t, err)
	undated, err := svc.CreateTodo(user.ID, TodoInput{ContextID: c.ID, Title: "someday"})
	testutil.AssertNoError(t, err)

	week := DateFilter{Range: timeutil.RangeWeek, Anchor: time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)}
	todos, err := svc.GetContextTodos(user.ID, c.ID, week)
	testutil.AssertNoError(t, err)
	ids := []uint{}
	for _, todo := range todos {
		ids = append(ids, todo.ID)
	}
	assertIDs(t, ids, inWeek.ID, undated.ID)

	all, err := svc.GetContextTodos(user.ID, c.ID, DateFilter{})
	testutil.AssertNoError(t, err)
	if len(all) != 3 {
		t.Errorf("expected 3 todos without a range, got %d", len(all))
	}
}

func TestScheduleTodo(t *testing.T) {
	t.Run("due_date_and_time", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTodoService(db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)
		created, err := svc.CreateTodo(user.ID, TodoInput{
			ContextID: c.ID, Title: "Dentist",
			DueDate: strPtr("2025-10-26"), DueTime: strPtr("09:30"), DurationHours: floatPtr(1.5),
		})
		testutil.AssertNoError(t, err)

		todo, event, err := svc.ScheduleTodo(user.ID, created.ID, ScheduleInput{})
		testutil.AssertNoError(t, err)
		testutil.AssertLinked(t, db, todo.ID, event.ID)
		if event.StartDate.Hour() != 9 || event.StartDate.Minute() != 30 {
			t.Errorf("expected 09:30 start, got %s", event.StartDate)
		}
		if event.DurationHours != 1.5 || event.EndDate.Sub(event.StartDate) != 90*time.Minute {
			t.Errorf("expected 1.5h event, got %v", event.DurationHours)
		}
		if event.Title != "Dentist" || event.AllDay {
			t.Errorf("unexpected event %+v", event)
		}

		_, _, err = svc.ScheduleTodo(user.ID, created.ID, ScheduleInput{})
		testutil.AssertAppError(t, err, "ALREADY_LINKED")
	})

	t.Run("date_only_is_all_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTodoService(db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)
		created, _ := svc.CreateTodo(user.ID, TodoInput{ContextID: c.ID, Title: "Taxes", DueDate: strPtr("2025-10-31")})

		_, event, err := svc.ScheduleTodo(user.ID, created.ID, ScheduleInput{})
		testutil.AssertNoError(t, err)
		if !event.AllDay || event.EndDate.Sub(event.StartDate) != 24*time.Hour {
			t.Errorf("expected a one-day all-day event, got %s..%s", event.StartDate, event.EndDate)
		}
	})

	t.Run("explicit_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTodoService(db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)
		todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
		start := time.Date(2025, 10, 27, 14, 0, 0, 0, time.UTC)

		updated, event, err := svc.ScheduleTodo(user.ID, todo.ID, ScheduleInput{Start: timePtr(start)})
		testutil.AssertNoError(t, err)
		if !event.StartDate.Equal(start) || event.DurationHours != DefaultScheduleHours {
			t.Errorf("expected default length from explicit start, got %+v", event)
		}
		if updated.DurationHours == nil || *updated.DurationHours != DefaultScheduleHours {
			t.Error("expected todo duration to follow the event")
		}
	})

	t.Run("not_due", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)
		todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)

		_, _, err := NewTodoService(db).ScheduleTodo(user.ID, todo.ID, ScheduleInput{})
		testutil.AssertAppError(t, err, "TODO_NOT_SCHEDULABLE")
	})
}

func TestLinkTodo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTodoService(db)
	user := testutil.CreateTestUser(t, db)
	c := testutil.CreateTestContext(t, db, user.ID)
	other := testutil.CreateTestContext(t, db, user.ID)
	start := time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC)

	todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
	event := testutil.CreateTestEvent(t, db, user.ID, c.ID, start, 2)
	foreign := testutil.CreateTestEvent(t, db, user.ID, other.ID, start, 1)

	_, _, err := svc.LinkTodo(user.ID, todo.ID, foreign.ID)
	testutil.AssertAppError(t, err, "CONTEXT_MISMATCH")

	linked, linkedEvent, err := svc.LinkTodo(user.ID, todo.ID, event.ID)
	testutil.AssertNoError(t, err)
	if linked.DurationHours == nil || *linked.DurationHours != 2 {
		t.Error("expected todo to take the event duration")
	}
	testutil.AssertLinked(t, db, todo.ID, linkedEvent.ID)

	second := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 1)
	_, _, err = svc.LinkTodo(user.ID, second.ID, event.ID)
	testutil.AssertAppError(t, err, "ALREADY_LINKED")

	_, _, err = svc.LinkTodo(user.ID, todo.ID, 9999)
	testutil.AssertAppError(t, err, "EVENT_NOT_FOUND")
}

func TestUnlinkTodo(t *testing.T) {
	setup := func(t *testing.T) (*gorm.DB, TodoServicer, uint, *models.Todo, *models.Event) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)
		todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
		event := testutil.CreateTestEvent(t, db, user.ID, c.ID, time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC), 1)
		testutil.LinkTestTodo(t, db, todo, event)
		return db, NewTodoService(db), user.ID, todo, event
	}

	t.Run("keep_event", func(t *testing.T) {
		db, svc, userID, todo, event := setup(t)
		defer testutil.TeardownTestDB(t, db)

		updated, err := svc.UnlinkTodo(userID, todo.ID, true)
		testutil.AssertNoError(t, err)
		if updated.CalendarEventID != nil {
			t.Error("expected todo link cleared")
		}
		_, err = NewEventService(db).GetEventByID(userID, event.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertUnlinked(t, db, todo.ID, event.ID)

		_, err = svc.UnlinkTodo(userID, todo.ID, true)
		testutil.AssertAppError(t, err, "NOT_LINKED")
	})

	t.Run("drop_event", func(t *testing.T) {
		db, svc, userID, todo, event := setup(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := svc.UnlinkTodo(userID, todo.ID, false)
		testutil.AssertNoError(t, err)
		_, err = NewEventService(db).GetEventByID(userID, event.ID)
		testutil.AssertAppError(t, err, "EVENT_NOT_FOUND")
	})
}

func TestDeleteTodo(t *testing.T) {
	t.Run("renumbers_column", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)
		a := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
		b := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 1)
		cc := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 2)

		testutil.AssertNoError(t, NewTodoService(db).DeleteTodo(user.ID, b.ID, false))
		assertIDs(t, column(t, db, c.ID, models.TodoStatusTodo), a.ID, cc.ID)
	})

	for _, preserve := range []bool{true, false} {
		name := "deletes_linked_event"
		if preserve {
			name = "preserve_time_keeps_event"
		}
		preserve := preserve
		t.Run(name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			user := testutil.CreateTestUser(t, db)
			c := testutil.CreateTestContext(t, db, user.ID)
			todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
			event := testutil.CreateTestEvent(t, db, user.ID, c.ID, time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC), 1)
			testutil.LinkTestTodo(t, db, todo, event)

			testutil.AssertNoError(t, NewTodoService(db).DeleteTodo(user.ID, todo.ID, preserve))

			kept, err := NewEventService(db).GetEventByID(user.ID, event.ID)
			if !preserve {
				testutil.AssertAppError(t, err, "EVENT_NOT_FOUND")
				return
			}
			testutil.AssertNoError(t, err)
			if kept.LinkedTodoID != nil {
				t.Error("expected preserved event to be unlinked")
			}
		})
	}
}
