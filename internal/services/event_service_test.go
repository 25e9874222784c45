package services

import (
	"testing"
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/testutil"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

func recurrence(r models.RecurrenceType) *models.RecurrenceType { return &r }

func TestCreateEvent(t *testing.T) {
	start := time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC)

	t.Run("end_from_duration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)

		event, err := NewEventService(db).CreateEvent(user.ID, EventInput{ContextID: c.ID, Title: "Standup", StartDate: start, DurationHours: floatPtr(0.25)})
		testutil.AssertNoError(t, err)
		if event.EndDate.Sub(event.StartDate) != 15*time.Minute || event.DurationHours != 0.25 {
			t.Errorf("expected a 15 minute event, got %s..%s", event.StartDate, event.EndDate)
		}
	})

	t.Run("default_hour", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)

		event, err := NewEventService(db).CreateEvent(user.ID, EventInput{ContextID: c.ID, Title: "Call", StartDate: start})
		testutil.AssertNoError(t, err)
		if event.DurationHours != 1 {
			t.Errorf("expected 1 hour, got %v", event.DurationHours)
		}
	})

	t.Run("all_day_starts_at_midnight", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)

		event, err := NewEventService(db).CreateEvent(user.ID, EventInput{ContextID: c.ID, Title: "Holiday", StartDate: start, AllDay: true})
		testutil.AssertNoError(t, err)
		if event.StartDate.Hour() != 0 || event.DurationHours != 24 {
			t.Errorf("expected midnight start lasting a day, got %s (%vh)", event.StartDate, event.DurationHours)
		}
	})

	t.Run("non_recurring_clears_recurrence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		c := testutil.CreateTestContext(t, db, user.ID)

		event, err := NewEventService(db).CreateEvent(user.ID, EventInput{
			ContextID: c.ID, Title: "Once", StartDate: start,
			RecurrenceType: recurrence(models.RecurrenceDaily), RecurrenceEndDate: strPtr("2025-11-01"),
		})
		testutil.AssertNoError(t, err)
		if event.RecurrenceType != nil || event.RecurrenceEndDate != nil {
			t.Error("expected recurrence fields cleared")
		}
	})

	tests := []struct {
		name string
		in   EventInput
		code string
	}{
		{"missing_title", EventInput{StartDate: start}, "INVALID_INPUT"},
		{"missing_start", EventInput{Title: "x"}, "INVALID_INPUT"},
		{"end_before_start", EventInput{Title: "x", StartDate: start, EndDate: start.Add(-time.Hour)}, "INVALID_EVENT_SPAN"},
		{"negative_duration", EventInput{Title: "x", StartDate: start, DurationHours: floatPtr(-1)}, "INVALID_INPUT"},
		{"recurring_without_type", EventInput{Title: "x", StartDate: start, Recurring: true}, "INVALID_INPUT"},
		{"recurrence_ends_before_start", EventInput{
			Title: "x", StartDate: start, Recurring: true,
			RecurrenceType: recurrence(models.RecurrenceWeekly), RecurrenceEndDate: strPtr("2025-10-24"),
		}, "INVALID_INPUT"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			user := testutil.CreateTestUser(t, db)
			c := testutil.CreateTestContext(t, db, user.ID)
			tc.in.ContextID = c.ID

			_, err := NewEventService(db).CreateEvent(user.ID, tc.in)
			testutil.AssertAppError(t, err, tc.code)
		})
	}
}

func TestUpdateEvent_SyncsLinkedTodoDuration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewEventService(db)
	user := testutil.CreateTestUser(t, db)
	c := testutil.CreateTestContext(t, db, user.ID)
	other := testutil.CreateTestContext(t, db, user.ID)
	start := time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC)
	todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
	event := testutil.CreateTestEvent(t, db, user.ID, c.ID, start, 1)
	testutil.LinkTestTodo(t, db, todo, event)

	_, err := svc.UpdateEvent(user.ID, event.ID, EventInput{ContextID: c.ID, Title: event.Title, StartDate: start, EndDate: start.Add(3 * time.Hour)})
	testutil.AssertNoError(t, err)

	synced, err := NewTodoService(db).GetTodoByID(user.ID, todo.ID)
	testutil.AssertNoError(t, err)
	if synced.DurationHours == nil || *synced.DurationHours != 3 {
		t.Errorf("expected todo duration 3, got %v", synced.DurationHours)
	}

	_, err = svc.UpdateEvent(user.ID, event.ID, EventInput{ContextID: other.ID, Title: event.Title, StartDate: start})
	testutil.AssertAppError(t, err, "CONTEXT_MISMATCH")
}

func TestDeleteEvent(t *testing.T) {
	for _, preserve := range []bool{true, false} {
		name := "deletes_linked_todo"
		if preserve {
			name = "preserve_todo_keeps_card"
		}
		preserve := preserve
		t.Run(name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			user := testutil.CreateTestUser(t, db)
			c := testutil.CreateTestContext(t, db, user.ID)
			first := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
			linked := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 1)
			last := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 2)
			event := testutil.CreateTestEvent(t, db, user.ID, c.ID, time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC), 1)
			testutil.LinkTestTodo(t, db, linked, event)

			svc := NewEventService(db)
			testutil.AssertNoError(t, svc.DeleteEvent(user.ID, event.ID, preserve))
			_, err := svc.GetEventByID(user.ID, event.ID)
			testutil.AssertAppError(t, err, "EVENT_NOT_FOUND")

			kept, err := NewTodoService(db).GetTodoByID(user.ID, linked.ID)
			if !preserve {
				testutil.AssertAppError(t, err, "TODO_NOT_FOUND")
				assertIDs(t, column(t, db, c.ID, models.TodoStatusTodo), first.ID, last.ID)
				return
			}
			testutil.AssertNoError(t, err)
			if kept.CalendarEventID != nil {
				t.Error("expected preserved todo to be unlinked")
			}
		})
	}
}

func TestUnlinkEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewEventService(db)
	user := testutil.CreateTestUser(t, db)
	c := testutil.CreateTestContext(t, db, user.ID)
	todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
	event := testutil.CreateTestEvent(t, db, user.ID, c.ID, time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC), 1)
	testutil.LinkTestTodo(t, db, todo, event)

	updated, err := svc.UnlinkEvent(user.ID, event.ID, true)
	testutil.AssertNoError(t, err)
	if updated.LinkedTodoID != nil {
		t.Error("expected event link cleared")
	}
	_, err = NewTodoService(db).GetTodoByID(user.ID, todo.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertUnlinked(t, db, todo.ID, event.ID)

	_, err = svc.UnlinkEvent(user.ID, event.ID, true)
	testutil.AssertAppError(t, err, "NOT_LINKED")
}

func TestGetContextEvents_Range(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewEventService(db)
	user := testutil.CreateTestUser(t, db)
	c := testutil.CreateTestContext(t, db, user.ID)
	at := func(day, hour int) time.Time { return time.Date(2025, 10, day, hour, 0, 0, 0, time.UTC) }

	today := testutil.CreateTestEvent(t, db, user.ID, c.ID, at(25, 9), 1)
	overnight := testutil.CreateTestEvent(t, db, user.ID, c.ID, at(24, 23), 2)
	testutil.CreateTestEvent(t, db, user.ID, c.ID, at(24, 9), 1)
	testutil.CreateTestEvent(t, db, user.ID, c.ID, at(24, 23), 1)

	daily, err := svc.CreateEvent(user.ID, EventInput{
		ContextID: c.ID, Title: "Gym", StartDate: at(1, 7),
		Recurring: true, RecurrenceType: recurrence(models.RecurrenceDaily),
	})
	testutil.AssertNoError(t, err)
	_, err = svc.CreateEvent(user.ID, EventInput{
		ContextID: c.ID, Title: "Course", StartDate: at(1, 18),
		Recurring: true, RecurrenceType: recurrence(models.RecurrenceWeekly), RecurrenceEndDate: strPtr("2025-10-20"),
	})
	testutil.AssertNoError(t, err)

	events, err := svc.GetContextEvents(user.ID, c.ID, DateFilter{Range: timeutil.RangeDay, Anchor: at(25, 12)})
	testutil.AssertNoError(t, err)
	ids := []uint{}
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assertIDs(t, ids, daily.ID, overnight.ID, today.ID)

	all, err := svc.GetContextEvents(user.ID, c.ID, DateFilter{})
	testutil.AssertNoError(t, err)
	if len(all) != 6 {
		t.Errorf("expected 6 events without a range, got %d", len(all))
	}
}
