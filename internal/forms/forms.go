// Package forms holds the immutable value types behind each edit form.
//
// A form is a plain value and With* methods return a modified copy.
// Nothing is validated until Submit, which turns the form into an API input
// or a ValidationError.
package forms

import (
	"errors"
	"strings"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/validator"
)

// ValidationError is a user-facing reason a form cannot be submitted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// check runs struct validation on v and converts the first failure.
func check(v any) error {
	err := validator.New().Struct(v)
	if err == nil {
		return nil
	}
	field := ""
	var verrs govalidator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field = verrs[0].Field()
	}
	return invalid(field, capitalize(validator.Message(err)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseTags splits comma-separated input into a normalised tag list.
func ParseTags(input string) []string {
	return models.Tags(strings.Split(input, ","))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
