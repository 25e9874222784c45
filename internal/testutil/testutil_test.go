package testutil_test

import (
	"testing"
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "contexts", "transactions", "todos", "events", "notes", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestUser(t, a)

	var count int64
	b.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected a fresh database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	c := testutil.CreateTestContext(t, db, user.ID)
	if c.FieldType != models.FieldTypeExperimental {
		t.Errorf("expected Experimental context, got %s", c.FieldType)
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, &c.ID, models.TransactionTypeExpense, "45.50", "2025-10-25", "food")
	if tx.Amount.String() != "45.5" {
		t.Errorf("expected amount 45.5, got %s", tx.Amount)
	}

	todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
	event := testutil.CreateTestEvent(t, db, user.ID, c.ID, time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC), 1.5)
	testutil.LinkTestTodo(t, db, todo, event)

	var stored models.Todo
	db.First(&stored, todo.ID)
	if stored.CalendarEventID == nil || *stored.CalendarEventID != event.ID {
		t.Errorf("expected todo linked to event %d, got %v", event.ID, stored.CalendarEventID)
	}

	note := testutil.CreateTestNote(t, db, user.ID, c.ID)
	if note.ID == 0 {
		t.Fatal("note should have a non-zero ID")
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrContextNotFound, "CONTEXT_NOT_FOUND")
	wrapped := testutil.AssertAppError(t, errors.Wrap(errors.ErrInternalServer, nil), "INTERNAL_ERROR")
	if wrapped.StatusCode != 500 {
		t.Errorf("expected the wrapped error to keep status 500, got %d", wrapped.StatusCode)
	}
	testutil.AssertIs(t, errors.WithMessage(errors.ErrAccountLocked, "locked for 15 minutes"), errors.ErrAccountLocked)
}

func TestAssertLinkHelpers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	c := testutil.CreateTestContext(t, db, user.ID)
	todo := testutil.CreateTestTodo(t, db, user.ID, c.ID, models.TodoStatusTodo, 0)
	event := testutil.CreateTestEvent(t, db, user.ID, c.ID, time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC), 1)

	testutil.AssertUnlinked(t, db, todo.ID, event.ID)
	testutil.LinkTestTodo(t, db, todo, event)
	testutil.AssertLinked(t, db, todo.ID, event.ID)

	if err := db.Delete(event).Error; err != nil {
		t.Fatalf("failed to delete event: %v", err)
	}
	if err := db.Model(todo).Update("calendar_event_id", nil).Error; err != nil {
		t.Fatalf("failed to clear link: %v", err)
	}
	testutil.AssertUnlinked(t, db, todo.ID, event.ID)
}
