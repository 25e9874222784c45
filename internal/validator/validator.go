// Package validator provides custom validation functions for Gin's binding
// engine and for client-side form submission.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// maxEmojiRunes allows flags, skin tones and ZWJ sequences.
const maxEmojiRunes = 10

var validations = map[string]validator.Func{
	"field_type":       validateFieldType,
	"transaction_type": validateTransactionType,
	"priority":         validatePriority,
	"todo_status":      validateTodoStatus,
	"recurrence_type":  validateRecurrenceType,
	"date_range":       validateDateRange,
	"iso_date":         validateISODate,
	"clock":            validateClock,
	"emoji":            validateEmoji,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		attach(v)
	}
}

var (
	standalone     *validator.Validate
	standaloneOnce sync.Once
)

// New returns a shared validator with the same rules Gin uses, for code that
// validates outside a request (client forms).
func New() *validator.Validate {
	standaloneOnce.Do(func() {
		standalone = validator.New(validator.WithRequiredStructEnabled())
		attach(standalone)
	})
	return standalone
}

func attach(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	for tag, fn := range validations {
		_ = v.RegisterValidation(tag, fn)
	}
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Message turns a validation failure into one user-facing sentence about the
// first offending field. Other errors are returned as their text.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "iso_date":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field)
	case "clock":
		return fmt.Sprintf("%s must be a time (HH:MM)", field)
	case "oneof", "field_type", "transaction_type", "priority", "todo_status", "recurrence_type", "date_range":
		return fmt.Sprintf("%s has an unsupported value", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func validateFieldType(fl validator.FieldLevel) bool {
	return models.FieldType(fl.Field().String()).Valid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validatePriority(fl validator.FieldLevel) bool {
	return models.Priority(fl.Field().String()).Valid()
}

func validateTodoStatus(fl validator.FieldLevel) bool {
	return models.TodoStatus(fl.Field().String()).Valid()
}

func validateRecurrenceType(fl validator.FieldLevel) bool {
	return models.RecurrenceType(fl.Field().String()).Valid()
}

func validateDateRange(fl validator.FieldLevel) bool {
	_, err := timeutil.ParseRange(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(timeutil.DateLayout, fl.Field().String())
	return err == nil
}

func validateClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

// validateEmoji accepts a short run of symbols; plain words are rejected.
func validateEmoji(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || utf8.RuneCountInString(s) > maxEmojiRunes {
		return false
	}
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r)) {
			return false
		}
	}
	return true
}
