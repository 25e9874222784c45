package forms

import (
	"strconv"
	"strings"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// TodoForm is the create/edit todo form. DurationHours is raw text.
type TodoForm struct {
	ContextID     uint
	Title         string
	Description   string
	Priority      models.Priority
	Status        models.TodoStatus
	DueDate       string
	DueTime       string
	DurationHours string
	Tags          []string
}

// NewTodoForm returns an empty medium-priority todo in the given column.
func NewTodoForm(contextID uint, status models.TodoStatus) TodoForm {
	if status == "" {
		status = models.TodoStatusTodo
	}
	return TodoForm{ContextID: contextID, Priority: models.PriorityMedium, Status: status}
}

// TodoFormFrom pre-fills a form for editing t.
func TodoFormFrom(t models.Todo) TodoForm {
	f := TodoForm{
		ContextID:   t.ContextID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Tags:        cloneTags(t.Tags),
	}
	if t.DueDate != nil {
		f.DueDate = *t.DueDate
	}
	if t.DueTime != nil {
		f.DueTime = *t.DueTime
	}
	if t.DurationHours != nil {
		f.DurationHours = strconv.FormatFloat(*t.DurationHours, 'f', -1, 64)
	}
	return f
}

func (f TodoForm) WithTitle(title string) TodoForm {
	f.Title = title
	return f
}

func (f TodoForm) WithDescription(d string) TodoForm {
	f.Description = d
	return f
}

func (f TodoForm) WithPriority(p models.Priority) TodoForm {
	f.Priority = p
	return f
}

func (f TodoForm) WithStatus(s models.TodoStatus) TodoForm {
	f.Status = s
	return f
}

// WithDue sets the due date and optional time. Clearing the date clears the time.
func (f TodoForm) WithDue(date, clock string) TodoForm {
	f.DueDate = date
	f.DueTime = clock
	if strings.TrimSpace(date) == "" {
		f.DueTime = ""
	}
	return f
}

func (f TodoForm) WithDurationHours(hours string) TodoForm {
	f.DurationHours = hours
	return f
}

func (f TodoForm) WithTags(tags []string) TodoForm {
	f.Tags = cloneTags(tags)
	return f
}

type todoRules struct {
	ContextID uint              `json:"context" validate:"required"`
	Title     string            `json:"title" validate:"required,max=200"`
	Priority  models.Priority   `json:"priority" validate:"required,priority"`
	Status    models.TodoStatus `json:"status" validate:"required,todo_status"`
	DueDate   string            `json:"due date" validate:"omitempty,iso_date"`
	DueTime   string            `json:"due time" validate:"omitempty,clock"`
}

// Submit validates the form.
func (f TodoForm) Submit() (client.TodoInput, error) {
	rules := todoRules{
		ContextID: f.ContextID,
		Title:     strings.TrimSpace(f.Title),
		Priority:  f.Priority,
		Status:    f.Status,
		DueDate:   strings.TrimSpace(f.DueDate),
		DueTime:   strings.TrimSpace(f.DueTime),
	}
	if err := check(rules); err != nil {
		return client.TodoInput{}, err
	}
	if rules.DueTime != "" && rules.DueDate == "" {
		return client.TodoInput{}, invalid("dueTime", "A due time needs a due date")
	}

	in := client.TodoInput{
		ContextID:   f.ContextID,
		Title:       rules.Title,
		Description: strings.TrimSpace(f.Description),
		Priority:    f.Priority,
		Status:      f.Status,
		DueDate:     optional(rules.DueDate),
		DueTime:     optional(rules.DueTime),
		Tags:        models.Tags(f.Tags),
	}
	if raw := strings.TrimSpace(f.DurationHours); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours <= 0 {
			return client.TodoInput{}, invalid("durationHours", "Duration must be a positive number of hours")
		}
		in.DurationHours = &hours
	}
	return in, nil
}
