package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// CreateEvent creates an event.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*models.Event, error) {
	var out struct {
		Event models.Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodPost, "/events", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

// GetEvent returns one event.
func (c *Client) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	var out struct {
		Event models.Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodGet, idPath("events", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

// UpdateEvent replaces an event. A linked todo picks up the new duration.
func (c *Client) UpdateEvent(ctx context.Context, id uint, in EventInput) (*models.Event, error) {
	var out struct {
		Event models.Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodPut, idPath("events", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

// DeleteEvent deletes an event. With preserveTodo the linked todo is kept
// and unlinked; otherwise it is deleted too.
func (c *Client) DeleteEvent(ctx context.Context, id uint, preserveTodo bool) error {
	var q url.Values
	if preserveTodo {
		q = url.Values{"preserveTodo": {"true"}}
	}
	return c.do(ctx, http.MethodDelete, idPath("events", id), q, nil, nil)
}

// UnlinkEvent breaks an event's link. Without keepTodo the todo is deleted.
func (c *Client) UnlinkEvent(ctx context.Context, id uint, keepTodo bool) (*models.Event, error) {
	body := map[string]bool{"keepTodo": keepTodo}
	var out struct {
		Event models.Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodPost, idPath("events", id)+"/unlink", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}
