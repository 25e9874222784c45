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

// eventService handles event-related business logic.
type eventService struct {
	db *gorm.DB
}

// NewEventService creates a new EventServicer.
func NewEventService(db *gorm.DB) EventServicer {
	return &eventService{db: db}
}

func (s *eventService) validate(userID uint, in *EventInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if in.StartDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate is required")
	}
	if in.DurationHours != nil && *in.DurationHours <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "durationHours must be greater than 0")
	}

	if in.AllDay {
		in.StartDate = timeutil.StartOfDay(in.StartDate)
	}
	if in.EndDate.IsZero() {
		switch {
		case in.DurationHours != nil:
			in.EndDate = in.StartDate.Add(timeutil.HoursToDuration(*in.DurationHours))
		case in.AllDay:
			in.EndDate = in.StartDate.AddDate(0, 0, 1)
		default:
			in.EndDate = in.StartDate.Add(time.Hour)
		}
	}
	if in.EndDate.Before(in.StartDate) {
		return apperrors.ErrInvalidEventSpan
	}

	if in.Recurring {
		if in.RecurrenceType == nil || !in.RecurrenceType.Valid() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "recurrenceType must be daily, weekly, monthly or yearly")
		}
		in.RecurrenceEndDate = blankToNil(in.RecurrenceEndDate)
		if in.RecurrenceEndDate != nil {
			until, err := timeutil.ParseDate(*in.RecurrenceEndDate, in.StartDate.Location())
			if err != nil {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
			}
			if until.Before(timeutil.StartOfDay(in.StartDate)) {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "recurrenceEndDate must not be before startDate")
			}
		}
	} else {
		in.RecurrenceType = nil
		in.RecurrenceEndDate = nil
	}

	in.Description = strings.TrimSpace(in.Description)
	in.Tags = models.Tags(in.Tags)
	_, err := findContext(s.db, userID, in.ContextID)
	return err
}

func applyEvent(e *models.Event, in EventInput) {
	e.ContextID = in.ContextID
	e.Title = in.Title
	e.Description = in.Description
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.AllDay = in.AllDay
	e.DurationHours = timeutil.DurationHours(in.StartDate, in.EndDate)
	e.Tags = in.Tags
	e.Recurring = in.Recurring
	e.RecurrenceType = in.RecurrenceType
	e.RecurrenceEndDate = in.RecurrenceEndDate
	e.Completed = in.Completed
}

// CreateEvent creates an unlinked event.
func (s *eventService) CreateEvent(userID uint, in EventInput) (*models.Event, error) {
	if err := s.validate(userID, &in); err != nil {
		return nil, err
	}
	event := &models.Event{UserID: userID}
	applyEvent(event, in)
	if err := s.db.Create(event).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return event, nil
}

// GetEventByID retrieves an event by ID for a specific user
func (s *eventService) GetEventByID(userID, eventID uint) (*models.Event, error) {
	return findEvent(s.db, userID, eventID)
}

func findEvent(db *gorm.DB, userID, eventID uint) (*models.Event, error) {
	var event models.Event
	if err := db.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &event, nil
}

// UpdateEvent replaces an event. When the event is linked, the todo's
// duration follows the event's in the same database transaction.
func (s *eventService) UpdateEvent(userID, eventID uint, in EventInput) (*models.Event, error) {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(userID, &in); err != nil {
		return nil, err
	}
	if event.LinkedTodoID != nil && in.ContextID != event.ContextID {
		return nil, apperrors.ErrContextMismatch
	}

	applyEvent(event, in)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(event).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if event.LinkedTodoID == nil || event.AllDay {
			return nil
		}
		if err := tx.Model(&models.Todo{}).
			Where("id = ? AND user_id = ?", *event.LinkedTodoID, userID).
			Update("duration_hours", event.DurationHours).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent deletes an event. A linked todo is deleted too unless
// preserveTodo is set, in which case it stays on the board unlinked.
func (s *eventService) DeleteEvent(userID, eventID uint, preserveTodo bool) error {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if event.LinkedTodoID != nil {
			if err := releaseTodo(tx, userID, *event.LinkedTodoID, preserveTodo); err != nil {
				return err
			}
		}
		if err := tx.Delete(event).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// UnlinkEvent breaks an event's link. The todo is deleted unless keepTodo is set.
func (s *eventService) UnlinkEvent(userID, eventID uint, keepTodo bool) (*models.Event, error) {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.LinkedTodoID == nil {
		return nil, apperrors.ErrNotLinked
	}
	todoID := *event.LinkedTodoID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := releaseTodo(tx, userID, todoID, keepTodo); err != nil {
			return err
		}
		event.LinkedTodoID = nil
		if err := tx.Model(event).Update("linked_todo_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// releaseTodo detaches the todo from its event, keeping it when keep is set
// and deleting it (closing the gap in its column) otherwise.
func releaseTodo(tx *gorm.DB, userID, todoID uint, keep bool) error {
	if keep {
		if err := tx.Model(&models.Todo{}).Where("id = ? AND user_id = ?", todoID, userID).
			Update("calendar_event_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	}

	todo, err := findTodo(tx, userID, todoID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTodoNotFound) {
			return nil
		}
		return err
	}
	if err := tx.Delete(todo).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := renumber(tx, userID, todo.ContextID, todo.Status, todo.ID); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetContextEvents lists a context's events by start. With a range, events
// that overlap it are returned, plus recurring series that may have an
// occurrence inside it; occurrences are expanded by the caller.
func (s *eventService) GetContextEvents(userID, contextID uint, dates DateFilter) ([]models.Event, error) {
	if _, err := findContext(s.db, userID, contextID); err != nil {
		return nil, err
	}
	q := s.db.Where("user_id = ? AND context_id = ?", userID, contextID)
	if from, to, ok := dates.bounds(); ok {
		q = q.Where(
			s.db.Where("start_date < ? AND (end_date > ? OR start_date >= ?)", to, from, from).
				Or("recurring = ? AND start_date < ? AND (recurrence_end_date IS NULL OR recurrence_end_date >= ?)",
					true, to, timeutil.FormatISODate(from)),
		)
	}
	events := []models.Event{}
	if err := q.Order("start_date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return events, nil
}
