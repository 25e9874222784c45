package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestContext creates an Experimental context with a unique name.
func CreateTestContext(t *testing.T, db *gorm.DB, userID uint) *models.Context {
	t.Helper()

	c := &models.Context{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Context %d", nextID()),
		Emoji:     "📁",
		FieldType: models.FieldTypeExperimental,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test context: %v", err)
	}
	return c
}

// CreateTestTransaction creates a transaction. amount is a decimal string
// such as "45.50"; a nil contextID makes a standalone transaction.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, contextID *uint, txType models.TransactionType, amount, date string, tags ...string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		ContextID:   contextID,
		Type:        txType,
		Amount:      decimal.RequireFromString(amount),
		Description: fmt.Sprintf("Test transaction %d", nextID()),
		Tags:        models.Tags(tags),
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestTodo creates a medium priority todo in the given column.
func CreateTestTodo(t *testing.T, db *gorm.DB, userID, contextID uint, status models.TodoStatus, position int) *models.Todo {
	t.Helper()

	todo := &models.Todo{
		UserID:    userID,
		ContextID: contextID,
		Title:     fmt.Sprintf("Test todo %d", nextID()),
		Priority:  models.PriorityMedium,
		Status:    status,
		Position:  position,
		Tags:      []string{},
	}
	if err := db.Create(todo).Error; err != nil {
		t.Fatalf("failed to create test todo: %v", err)
	}
	return todo
}

// CreateTestEvent creates a timed event from start lasting hours.
func CreateTestEvent(t *testing.T, db *gorm.DB, userID, contextID uint, start time.Time, hours float64) *models.Event {
	t.Helper()

	event := &models.Event{
		UserID:        userID,
		ContextID:     contextID,
		Title:         fmt.Sprintf("Test event %d", nextID()),
		StartDate:     start,
		EndDate:       start.Add(time.Duration(hours * float64(time.Hour))),
		DurationHours: hours,
		Tags:          []string{},
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// LinkTestTodo links todo and event directly in the database.
func LinkTestTodo(t *testing.T, db *gorm.DB, todo *models.Todo, event *models.Event) {
	t.Helper()

	todo.CalendarEventID = &event.ID
	event.LinkedTodoID = &todo.ID
	if err := db.Model(todo).Update("calendar_event_id", event.ID).Error; err != nil {
		t.Fatalf("failed to link todo: %v", err)
	}
	if err := db.Model(event).Update("linked_todo_id", todo.ID).Error; err != nil {
		t.Fatalf("failed to link event: %v", err)
	}
}

// CreateTestNote creates a note with a short HTML body.
func CreateTestNote(t *testing.T, db *gorm.DB, userID, contextID uint) *models.Note {
	t.Helper()

	note := &models.Note{
		UserID:    userID,
		ContextID: contextID,
		Title:     fmt.Sprintf("Test note %d", nextID()),
		Body:      "<p>body</p>",
		Tags:      []string{},
	}
	if err := db.Create(note).Error; err != nil {
		t.Fatalf("failed to create test note: %v", err)
	}
	return note
}
