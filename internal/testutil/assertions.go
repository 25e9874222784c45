package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// AssertAppError fails unless err is an *AppError with code, and returns it
// for further checks.
func AssertAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Errorf("expected %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

// AssertIs fails unless err matches sentinel and still maps to its HTTP status.
func AssertIs(t *testing.T, err error, sentinel *apperrors.AppError) {
	t.Helper()
	appErr := AssertAppError(t, err, sentinel.Code)
	if appErr.StatusCode != sentinel.StatusCode {
		t.Errorf("%s: expected status %d, got %d", sentinel.Code, sentinel.StatusCode, appErr.StatusCode)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertLinked reloads a todo and an event and fails unless each points at
// the other.
func AssertLinked(t *testing.T, db *gorm.DB, todoID, eventID uint) {
	t.Helper()
	var todo models.Todo
	if err := db.First(&todo, todoID).Error; err != nil {
		t.Fatalf("todo %d: %v", todoID, err)
	}
	var event models.Event
	if err := db.First(&event, eventID).Error; err != nil {
		t.Fatalf("event %d: %v", eventID, err)
	}
	if todo.CalendarEventID == nil || *todo.CalendarEventID != eventID {
		t.Errorf("todo %d: expected calendar event %d, got %v", todoID, eventID, todo.CalendarEventID)
	}
	if event.LinkedTodoID == nil || *event.LinkedTodoID != todoID {
		t.Errorf("event %d: expected linked todo %d, got %v", eventID, todoID, event.LinkedTodoID)
	}
}

// AssertUnlinked fails if the surviving side of a todo/event pair still
// carries a link. A deleted row counts as unlinked.
func AssertUnlinked(t *testing.T, db *gorm.DB, todoID, eventID uint) {
	t.Helper()
	var todo models.Todo
	switch err := db.First(&todo, todoID).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		t.Fatalf("todo %d: %v", todoID, err)
	case todo.CalendarEventID != nil:
		t.Errorf("todo %d: expected no calendar event, got %d", todoID, *todo.CalendarEventID)
	}
	var event models.Event
	switch err := db.First(&event, eventID).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		t.Fatalf("event %d: %v", eventID, err)
	case event.LinkedTodoID != nil:
		t.Errorf("event %d: expected no linked todo, got %d", eventID, *event.LinkedTodoID)
	}
}
