package client

import (
	"context"
	"net/http"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, in NoteInput) (*models.Note, error) {
	var out struct {
		Note models.Note `json:"note"`
	}
	if err := c.do(ctx, http.MethodPost, "/notes", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Note, nil
}

// GetNote returns one note.
func (c *Client) GetNote(ctx context.Context, id uint) (*models.Note, error) {
	var out struct {
		Note models.Note `json:"note"`
	}
	if err := c.do(ctx, http.MethodGet, idPath("notes", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Note, nil
}

// UpdateNote replaces a note.
func (c *Client) UpdateNote(ctx context.Context, id uint, in NoteInput) (*models.Note, error) {
	var out struct {
		Note models.Note `json:"note"`
	}
	if err := c.do(ctx, http.MethodPut, idPath("notes", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Note, nil
}

// DeleteNote deletes a note.
func (c *Client) DeleteNote(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("notes", id), nil, nil, nil)
}
