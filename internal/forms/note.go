package forms

import (
	"strings"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// UntitledNote is the title given to notes saved without one.
const UntitledNote = "Untitled"

// NoteForm is the note editor state. Body is HTML from the editor.
type NoteForm struct {
	ContextID uint
	Title     string
	Body      string
	Tags      []string
}

// NoteFormFrom pre-fills the editor with n.
func NoteFormFrom(n models.Note) NoteForm {
	return NoteForm{ContextID: n.ContextID, Title: n.Title, Body: n.Body, Tags: cloneTags(n.Tags)}
}

func (f NoteForm) WithTitle(title string) NoteForm {
	f.Title = title
	return f
}

func (f NoteForm) WithBody(body string) NoteForm {
	f.Body = body
	return f
}

func (f NoteForm) WithTags(tags []string) NoteForm {
	f.Tags = cloneTags(tags)
	return f
}

// IsBlank reports whether nothing has been typed yet.
func (f NoteForm) IsBlank() bool {
	return strings.TrimSpace(f.Title) == "" && strings.TrimSpace(f.Body) == ""
}

type noteRules struct {
	ContextID uint   `json:"context" validate:"required"`
	Title     string `json:"title" validate:"max=200"`
}

// Submit validates the form. Blank titles become UntitledNote.
func (f NoteForm) Submit() (client.NoteInput, error) {
	rules := noteRules{ContextID: f.ContextID, Title: strings.TrimSpace(f.Title)}
	if err := check(rules); err != nil {
		return client.NoteInput{}, err
	}
	if rules.Title == "" {
		rules.Title = UntitledNote
	}
	return client.NoteInput{
		ContextID: f.ContextID,
		Title:     rules.Title,
		Body:      f.Body,
		Tags:      models.Tags(f.Tags),
	}, nil
}
