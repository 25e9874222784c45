package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

// DefaultScheduleHours is the length of an event created from a todo that
// has no duration of its own.
const DefaultScheduleHours = 1.0

// todoService handles todo-related business logic. It also owns the todo
// side of todo/event links; every change to a link updates both rows in one
// database transaction.
type todoService struct {
	db *gorm.DB
}

// NewTodoService creates a new TodoServicer.
func NewTodoService(db *gorm.DB) TodoServicer {
	return &todoService{db: db}
}

func (s *todoService) validate(userID uint, in *TodoInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be low, medium or high")
	}
	if in.Status == "" {
		in.Status = models.TodoStatusTodo
	}
	if !in.Status.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be todo, in_progress or done")
	}
	in.DueDate = blankToNil(in.DueDate)
	in.DueTime = blankToNil(in.DueTime)
	if in.DueDate != nil {
		if _, err := timeutil.ParseDate(*in.DueDate, nil); err != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
	} else {
		in.DueTime = nil
	}
	if in.DueTime != nil {
		if _, err := time.Parse(timeutil.ClockLayout, *in.DueTime); err != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "dueTime must be HH:MM")
		}
	}
	if in.DurationHours != nil && *in.DurationHours <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "durationHours must be greater than 0")
	}
	in.Description = strings.TrimSpace(in.Description)
	in.Tags = models.Tags(in.Tags)
	_, err := findContext(s.db, userID, in.ContextID)
	return err
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// columnLen counts the todos in a board column.
func columnLen(tx *gorm.DB, userID, contextID uint, status models.TodoStatus) (int, error) {
	var n int64
	err := tx.Model(&models.Todo{}).
		Where("user_id = ? AND context_id = ? AND status = ?", userID, contextID, status).
		Count(&n).Error
	return int(n), err
}

// renumber rewrites positions 0..n-1 in column order, skipping skipID.
func renumber(tx *gorm.DB, userID, contextID uint, status models.TodoStatus, skipID uint) ([]models.Todo, error) {
	var col []models.Todo
	if err := tx.Where("user_id = ? AND context_id = ? AND status = ? AND id <> ?", userID, contextID, status, skipID).
		Order("position ASC, id ASC").Find(&col).Error; err != nil {
		return nil, err
	}
	for i := range col {
		if col[i].Position == i {
			continue
		}
		col[i].Position = i
		if err := tx.Model(&col[i]).Update("position", i).Error; err != nil {
			return nil, err
		}
	}
	return col, nil
}

// CreateTodo appends a todo to the end of its column.
func (s *todoService) CreateTodo(userID uint, in TodoInput) (*models.Todo, error) {
	if err := s.validate(userID, &in); err != nil {
		return nil, err
	}

	todo := &models.Todo{
		UserID:        userID,
		ContextID:     in.ContextID,
		Title:         in.Title,
		Description:   in.Description,
		Priority:      in.Priority,
		Status:        in.Status,
		DueDate:       in.DueDate,
		DueTime:       in.DueTime,
		DurationHours: in.DurationHours,
		Tags:          in.Tags,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		n, err := columnLen(tx, userID, in.ContextID, in.Status)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		todo.Position = n
		if err := tx.Create(todo).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// GetTodoByID retrieves a todo by ID for a specific user
func (s *todoService) GetTodoByID(userID, todoID uint) (*models.Todo, error) {
	return findTodo(s.db, userID, todoID)
}

func findTodo(db *gorm.DB, userID, todoID uint) (*models.Todo, error) {
	var todo models.Todo
	if err := db.Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTodoNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &todo, nil
}

// UpdateTodo replaces a todo's fields. A status change moves the card to
// the end of its new column. A linked todo cannot change context.
func (s *todoService) UpdateTodo(userID, todoID uint, in TodoInput) (*models.Todo, error) {
	todo, err := s.GetTodoByID(userID, todoID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(userID, &in); err != nil {
		return nil, err
	}
	if todo.CalendarEventID != nil && in.ContextID != todo.ContextID {
		return nil, apperrors.ErrContextMismatch
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		oldStatus, oldContext := todo.Status, todo.ContextID
		moved := oldStatus != in.Status || oldContext != in.ContextID
		if moved {
			n, err := columnLen(tx, userID, in.ContextID, in.Status)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			todo.Position = n
		}

		todo.ContextID = in.ContextID
		todo.Title = in.Title
		todo.Description = in.Description
		todo.Priority = in.Priority
		todo.Status = in.Status
		todo.DueDate = in.DueDate
		todo.DueTime = in.DueTime
		todo.DurationHours = in.DurationHours
		todo.Tags = in.Tags
		if err := tx.Save(todo).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if moved {
			if _, err := renumber(tx, userID, oldContext, oldStatus, todo.ID); err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// DeleteTodo deletes a todo. A linked event is deleted too unless
// preserveTime is set, in which case it stays on the calendar unlinked.
func (s *todoService) DeleteTodo(userID, todoID uint, preserveTime bool) error {
	todo, err := s.GetTodoByID(userID, todoID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if todo.CalendarEventID != nil {
			if err := releaseEvent(tx, userID, *todo.CalendarEventID, preserveTime); err != nil {
				return err
			}
		}
		if err := tx.Delete(todo).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if _, err := renumber(tx, userID, todo.ContextID, todo.Status, todo.ID); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetContextTodos lists a context's todos in board order. With a range,
// only todos due inside it are returned, plus those with no due date.
func (s *todoService) GetContextTodos(userID, contextID uint, dates DateFilter) ([]models.Todo, error) {
	if _, err := findContext(s.db, userID, contextID); err != nil {
		return nil, err
	}
	q := s.db.Where("user_id = ? AND context_id = ?", userID, contextID)
	if from, to, ok := dates.dateBounds(); ok {
		q = q.Where("due_date IS NULL OR (due_date >= ? AND due_date < ?)", from, to)
	}
	todos := []models.Todo{}
	if err := q.Order("status ASC, position ASC, id ASC").Find(&todos).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return todos, nil
}

// MoveTodo places a todo at position in the status column. Positions in
// the source and target columns are rewritten to stay contiguous.
func (s *todoService) MoveTodo(userID, todoID uint, status models.TodoStatus, position int) (*models.Todo, error) {
	if !status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be todo, in_progress or done")
	}
	if position < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "position must not be negative")
	}
	todo, err := s.GetTodoByID(userID, todoID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		oldStatus := todo.Status
		target, err := renumber(tx, userID, todo.ContextID, status, todo.ID)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if position > len(target) {
			position = len(target)
		}
		for i := len(target) - 1; i >= position; i-- {
			if err := tx.Model(&target[i]).Update("position", i+1).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		todo.Status = status
		todo.Position = position
		if err := tx.Model(todo).Updates(map[string]interface{}{"status": status, "position": position}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if oldStatus != status {
			if _, err := renumber(tx, userID, todo.ContextID, oldStatus, todo.ID); err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// scheduleWindow works out the event span for a todo.
func scheduleWindow(todo *models.Todo, in ScheduleInput) (start, end time.Time, hours float64, allDay bool, err error) {
	allDay = in.AllDay
	switch {
	case in.Start != nil:
		start = *in.Start
	case todo.DueDate != nil:
		start, err = timeutil.ParseDate(*todo.DueDate, nil)
		if err != nil {
			return
		}
		if todo.DueTime != nil {
			clock, perr := time.Parse(timeutil.ClockLayout, *todo.DueTime)
			if perr != nil {
				err = perr
				return
			}
			start = start.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
		} else {
			allDay = true
		}
	default:
		err = apperrors.ErrTodoNotDue
		return
	}

	if allDay {
		start = timeutil.StartOfDay(start)
		end = start.AddDate(0, 0, 1)
		return start, end, timeutil.DurationHours(start, end), true, nil
	}

	hours = DefaultScheduleHours
	switch {
	case in.DurationHours != nil:
		hours = *in.DurationHours
	case todo.DurationHours != nil:
		hours = *todo.DurationHours
	}
	if hours <= 0 {
		err = apperrors.WithMessage(apperrors.ErrInvalidInput, "durationHours must be greater than 0")
		return
	}
	end = start.Add(timeutil.HoursToDuration(hours))
	return start, end, hours, false, nil
}

// ScheduleTodo creates a calendar event for an unlinked todo and links the
// two. Without an explicit start the todo's due date and time are used; a
// due date without a time gives an all-day event.
func (s *todoService) ScheduleTodo(userID, todoID uint, in ScheduleInput) (*models.Todo, *models.Event, error) {
	todo, err := s.GetTodoByID(userID, todoID)
	if err != nil {
		return nil, nil, err
	}
	if todo.CalendarEventID != nil {
		return nil, nil, apperrors.ErrAlreadyLinked
	}
	start, end, hours, allDay, err := scheduleWindow(todo, in)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, nil, err
		}
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	event := &models.Event{
		UserID:        userID,
		ContextID:     todo.ContextID,
		Title:         todo.Title,
		Description:   todo.Description,
		StartDate:     start,
		EndDate:       end,
		AllDay:        allDay,
		DurationHours: hours,
		Tags:          models.Tags(todo.Tags),
		LinkedTodoID:  &todo.ID,
		Completed:     todo.Status == models.TodoStatusDone,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		todo.CalendarEventID = &event.ID
		if !allDay {
			todo.DurationHours = &hours
		}
		if err := tx.Model(todo).Updates(map[string]interface{}{
			"calendar_event_id": event.ID,
			"duration_hours":    todo.DurationHours,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return todo, event, nil
}

// LinkTodo links an unlinked todo to an unlinked event in the same context.
// The todo takes the event's duration.
func (s *todoService) LinkTodo(userID, todoID, eventID uint) (*models.Todo, *models.Event, error) {
	todo, err := s.GetTodoByID(userID, todoID)
	if err != nil {
		return nil, nil, err
	}
	event, err := findEvent(s.db, userID, eventID)
	if err != nil {
		return nil, nil, err
	}
	if todo.CalendarEventID != nil || event.LinkedTodoID != nil {
		return nil, nil, apperrors.ErrAlreadyLinked
	}
	if todo.ContextID != event.ContextID {
		return nil, nil, apperrors.ErrContextMismatch
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		hours := event.DurationHours
		todo.CalendarEventID = &event.ID
		todo.DurationHours = &hours
		event.LinkedTodoID = &todo.ID
		if err := tx.Model(todo).Updates(map[string]interface{}{
			"calendar_event_id": event.ID,
			"duration_hours":    hours,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(event).Update("linked_todo_id", todo.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return todo, event, nil
}

// UnlinkTodo breaks a todo's link. The event is deleted unless keepEvent is set.
func (s *todoService) UnlinkTodo(userID, todoID uint, keepEvent bool) (*models.Todo, error) {
	todo, err := s.GetTodoByID(userID, todoID)
	if err != nil {
		return nil, err
	}
	if todo.CalendarEventID == nil {
		return nil, apperrors.ErrNotLinked
	}
	eventID := *todo.CalendarEventID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := releaseEvent(tx, userID, eventID, keepEvent); err != nil {
			return err
		}
		todo.CalendarEventID = nil
		if err := tx.Model(todo).Update("calendar_event_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// releaseEvent detaches the event from its todo, keeping it when keep is
// set and deleting it otherwise.
func releaseEvent(tx *gorm.DB, userID, eventID uint, keep bool) error {
	q := tx.Model(&models.Event{}).Where("id = ? AND user_id = ?", eventID, userID)
	var err error
	if keep {
		err = q.Update("linked_todo_id", nil).Error
	} else {
		err = tx.Where("id = ? AND user_id = ?", eventID, userID).Delete(&models.Event{}).Error
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
