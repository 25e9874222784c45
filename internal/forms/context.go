package forms

import (
	"strings"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
)

// DefaultEmoji is used when a context is saved without one.
const DefaultEmoji = "📁"

// ContextForm is the context settings form.
type ContextForm struct {
	Name      string
	Emoji     string
	FieldType models.FieldType
}

// NewContextForm returns an empty experimental context.
func NewContextForm() ContextForm {
	return ContextForm{Emoji: DefaultEmoji, FieldType: models.FieldTypeExperimental}
}

// ContextFormFrom pre-fills a form for editing c.
func ContextFormFrom(c models.Context) ContextForm {
	return ContextForm{Name: c.Name, Emoji: c.Emoji, FieldType: c.FieldType}
}

func (f ContextForm) WithName(name string) ContextForm {
	f.Name = name
	return f
}

func (f ContextForm) WithEmoji(emoji string) ContextForm {
	f.Emoji = emoji
	return f
}

func (f ContextForm) WithFieldType(t models.FieldType) ContextForm {
	f.FieldType = t
	return f
}

type contextRules struct {
	Name      string           `json:"name" validate:"required,max=100"`
	Emoji     string           `json:"emoji" validate:"required,emoji"`
	FieldType models.FieldType `json:"field type" validate:"required,field_type"`
}

// Submit validates the form.
func (f ContextForm) Submit() (client.ContextInput, error) {
	rules := contextRules{
		Name:      strings.TrimSpace(f.Name),
		Emoji:     strings.TrimSpace(f.Emoji),
		FieldType: f.FieldType,
	}
	if rules.Emoji == "" {
		rules.Emoji = DefaultEmoji
	}
	if err := check(rules); err != nil {
		return client.ContextInput{}, err
	}
	return client.ContextInput(rules), nil
}
