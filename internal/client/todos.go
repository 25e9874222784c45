package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// CreateTodo creates a todo.
func (c *Client) CreateTodo(ctx context.Context, in TodoInput) (*models.Todo, error) {
	var out struct {
		Todo models.Todo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPost, "/todos", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

// GetTodo returns one todo.
func (c *Client) GetTodo(ctx context.Context, id uint) (*models.Todo, error) {
	var out struct {
		Todo models.Todo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodGet, idPath("todos", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

// UpdateTodo replaces a todo.
func (c *Client) UpdateTodo(ctx context.Context, id uint, in TodoInput) (*models.Todo, error) {
	var out struct {
		Todo models.Todo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPut, idPath("todos", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

// DeleteTodo deletes a todo. With preserveTime the linked event, if any, is
// kept on the calendar; otherwise it is deleted too.
func (c *Client) DeleteTodo(ctx context.Context, id uint, preserveTime bool) error {
	var q url.Values
	if preserveTime {
		q = url.Values{"preserveTime": {"true"}}
	}
	return c.do(ctx, http.MethodDelete, idPath("todos", id), q, nil, nil)
}

// MoveTodo places a todo in a board column.
func (c *Client) MoveTodo(ctx context.Context, id uint, move TodoMove) (*models.Todo, error) {
	var out struct {
		Todo models.Todo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPost, idPath("todos", id)+"/move", nil, move, &out); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

// ScheduleTodo creates a calendar event for a todo and links the two.
func (c *Client) ScheduleTodo(ctx context.Context, id uint, in ScheduleInput) (*models.Todo, *models.Event, error) {
	var out struct {
		Todo  models.Todo  `json:"todo"`
		Event models.Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodPost, idPath("todos", id)+"/schedule", nil, in, &out); err != nil {
		return nil, nil, err
	}
	return &out.Todo, &out.Event, nil
}

// LinkTodo links a todo to an existing event.
func (c *Client) LinkTodo(ctx context.Context, todoID, eventID uint) (*models.Todo, *models.Event, error) {
	body := map[string]uint{"eventId": eventID}
	var out struct {
		Todo  models.Todo  `json:"todo"`
		Event models.Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodPost, idPath("todos", todoID)+"/link", nil, body, &out); err != nil {
		return nil, nil, err
	}
	return &out.Todo, &out.Event, nil
}

// UnlinkTodo breaks a todo's link. Without keepEvent the event is deleted.
func (c *Client) UnlinkTodo(ctx context.Context, id uint, keepEvent bool) (*models.Todo, error) {
	body := map[string]bool{"keepEvent": keepEvent}
	var out struct {
		Todo models.Todo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPost, idPath("todos", id)+"/unlink", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}
