package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/pagination"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	RotateRefreshTokenHash(userID uint, current, next string) error
}

// DateFilter narrows a listing to the range containing Anchor.
// RangeAll, or an empty Range, disables the filter.
type DateFilter struct {
	Range  timeutil.Range
	Anchor time.Time
}

func (f DateFilter) bounds() (from, to time.Time, ok bool) {
	anchor := f.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}
	return f.Range.Bounds(anchor)
}

func (f DateFilter) dateBounds() (from, to string, ok bool) {
	anchor := f.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}
	return f.Range.DateBounds(anchor)
}

// ContextServicer defines the contract for context-related business logic.
type ContextServicer interface {
	CreateContext(userID uint, name, emoji string, fieldType models.FieldType) (*models.Context, error)
	GetUserContexts(userID uint) ([]models.Context, error)
	GetContextByID(userID, contextID uint) (*models.Context, error)
	UpdateContext(userID, contextID uint, name, emoji string, fieldType models.FieldType) (*models.Context, error)
	DeleteContext(userID, contextID uint) error
}

// TransactionInput carries the writable fields of a transaction.
type TransactionInput struct {
	ContextID   *uint
	Type        models.TransactionType
	Amount      decimal.Decimal
	Description string
	Tags        []string
	Date        string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	ContextID *uint
	Type      *models.TransactionType
	Dates     DateFilter
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, in TransactionInput) (*models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetContextTransactions(userID, contextID uint, dates DateFilter) ([]models.Transaction, error)
}

// StatsServicer derives aggregates from transactions.
type StatsServicer interface {
	Summary(userID uint, filter TransactionFilter) (*models.Summary, error)
	CategoryTotals(userID uint, filter TransactionFilter) ([]models.CategoryTotal, error)
	DailyTotals(userID uint, filter TransactionFilter) ([]models.DailyTotal, error)
	Categories(userID uint) ([]string, error)
}

// TodoInput carries the writable fields of a todo.
type TodoInput struct {
	ContextID     uint
	Title         string
	Description   string
	Priority      models.Priority
	Status        models.TodoStatus
	DueDate       *string
	DueTime       *string
	DurationHours *float64
	Tags          []string
}

// ScheduleInput describes the event created for a todo. A nil Start uses
// the todo's due date and time.
type ScheduleInput struct {
	Start         *time.Time
	DurationHours *float64
	AllDay        bool
}

// TodoServicer defines the contract for todo-related business logic,
// including the todo side of calendar links.
type TodoServicer interface {
	CreateTodo(userID uint, in TodoInput) (*models.Todo, error)
	GetTodoByID(userID, todoID uint) (*models.Todo, error)
	UpdateTodo(userID, todoID uint, in TodoInput) (*models.Todo, error)
	DeleteTodo(userID, todoID uint, preserveTime bool) error
	GetContextTodos(userID, contextID uint, dates DateFilter) ([]models.Todo, error)
	MoveTodo(userID, todoID uint, status models.TodoStatus, position int) (*models.Todo, error)
	ScheduleTodo(userID, todoID uint, in ScheduleInput) (*models.Todo, *models.Event, error)
	LinkTodo(userID, todoID, eventID uint) (*models.Todo, *models.Event, error)
	UnlinkTodo(userID, todoID uint, keepEvent bool) (*models.Todo, error)
}

// EventInput carries the writable fields of an event. When EndDate is zero
// it is derived from DurationHours, or one hour (one day when AllDay).
type EventInput struct {
	ContextID         uint
	Title             string
	Description       string
	StartDate         time.Time
	EndDate           time.Time
	AllDay            bool
	DurationHours     *float64
	Tags              []string
	Recurring         bool
	RecurrenceType    *models.RecurrenceType
	RecurrenceEndDate *string
	Completed         bool
}

// EventServicer defines the contract for event-related business logic.
type EventServicer interface {
	CreateEvent(userID uint, in EventInput) (*models.Event, error)
	GetEventByID(userID, eventID uint) (*models.Event, error)
	UpdateEvent(userID, eventID uint, in EventInput) (*models.Event, error)
	DeleteEvent(userID, eventID uint, preserveTodo bool) error
	GetContextEvents(userID, contextID uint, dates DateFilter) ([]models.Event, error)
	UnlinkEvent(userID, eventID uint, keepTodo bool) (*models.Event, error)
}

// NoteInput carries the writable fields of a note. Body is HTML.
type NoteInput struct {
	ContextID uint
	Title     string
	Body      string
	Tags      []string
}

// NoteServicer defines the contract for note-related business logic.
type NoteServicer interface {
	CreateNote(userID uint, in NoteInput) (*models.Note, error)
	GetNoteByID(userID, noteID uint) (*models.Note, error)
	UpdateNote(userID, noteID uint, in NoteInput) (*models.Note, error)
	DeleteNote(userID, noteID uint) error
	GetContextNotes(userID, contextID uint, dates DateFilter) ([]models.Note, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
