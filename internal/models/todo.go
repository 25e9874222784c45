package models

// Priority ranks a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TodoStatus is the kanban column a todo sits in.
type TodoStatus string

const (
	TodoStatusTodo       TodoStatus = "todo"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusDone       TodoStatus = "done"
)

// TodoStatuses lists the board columns in display order.
var TodoStatuses = []TodoStatus{TodoStatusTodo, TodoStatusInProgress, TodoStatusDone}

// Valid reports whether s names a board column.
func (s TodoStatus) Valid() bool {
	switch s {
	case TodoStatusTodo, TodoStatusInProgress, TodoStatusDone:
		return true
	}
	return false
}

// Todo is a kanban card. DueDate is YYYY-MM-DD and DueTime HH:MM, both in
// the user's local calendar. CalendarEventID links the todo to at most one
// event; the event's LinkedTodoID points back.
type Todo struct {
	Base
	UserID          uint       `gorm:"not null;index" json:"userId"`
	ContextID       uint       `gorm:"not null;index" json:"contextId"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `json:"description"`
	Priority        Priority   `gorm:"not null;default:'medium'" json:"priority"`
	Status          TodoStatus `gorm:"not null;default:'todo';index" json:"status"`
	Position        int        `gorm:"not null;default:0" json:"position"`
	DueDate         *string    `gorm:"type:varchar(10)" json:"dueDate"`
	DueTime         *string    `gorm:"type:varchar(5)" json:"dueTime"`
	DurationHours   *float64   `json:"durationHours"`
	Tags            []string   `gorm:"serializer:json;type:text" json:"tags"`
	CalendarEventID *uint      `gorm:"index" json:"calendarEventId"`
}
