package client

import (
	"context"
	"net/http"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// ListContexts returns every context of the user.
func (c *Client) ListContexts(ctx context.Context) ([]models.Context, error) {
	var out struct {
		Contexts []models.Context `json:"contexts"`
	}
	if err := c.do(ctx, http.MethodGet, "/contexts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Contexts, nil
}

// GetContext returns one context.
func (c *Client) GetContext(ctx context.Context, id uint) (*models.Context, error) {
	var out struct {
		Context models.Context `json:"context"`
	}
	if err := c.do(ctx, http.MethodGet, idPath("contexts", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Context, nil
}

// CreateContext creates a context.
func (c *Client) CreateContext(ctx context.Context, in ContextInput) (*models.Context, error) {
	var out struct {
		Context models.Context `json:"context"`
	}
	if err := c.do(ctx, http.MethodPost, "/contexts", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Context, nil
}

// UpdateContext replaces a context's name, emoji and field type.
func (c *Client) UpdateContext(ctx context.Context, id uint, in ContextInput) (*models.Context, error) {
	var out struct {
		Context models.Context `json:"context"`
	}
	if err := c.do(ctx, http.MethodPut, idPath("contexts", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Context, nil
}

// DeleteContext deletes a context and everything in it.
func (c *Client) DeleteContext(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("contexts", id), nil, nil, nil)
}

// ContextTransactions lists a context's transactions in a date range.
func (c *Client) ContextTransactions(ctx context.Context, id uint, q RangeQuery) ([]models.Transaction, error) {
	var out struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, idPath("contexts", id)+"/transactions", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// ContextTodos lists a context's todos in a date range. Todos without a due
// date are always included.
func (c *Client) ContextTodos(ctx context.Context, id uint, q RangeQuery) ([]models.Todo, error) {
	var out struct {
		Todos []models.Todo `json:"todos"`
	}
	if err := c.do(ctx, http.MethodGet, idPath("contexts", id)+"/todos", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Todos, nil
}

// ContextEvents lists a context's events intersecting a date range.
func (c *Client) ContextEvents(ctx context.Context, id uint, q RangeQuery) ([]models.Event, error) {
	var out struct {
		Events []models.Event `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, idPath("contexts", id)+"/events", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// ContextNotes lists a context's notes, most recently updated first.
func (c *Client) ContextNotes(ctx context.Context, id uint, q RangeQuery) ([]models.Note, error) {
	var out struct {
		Notes []models.Note `json:"notes"`
	}
	if err := c.do(ctx, http.MethodGet, idPath("contexts", id)+"/notes", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}
