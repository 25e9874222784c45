// Package errors provides custom error types for the second brain API.
// All service-layer errors should use AppError so that responses stay
// consistent and never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches AppErrors by code so that errors.Is(err, ErrTodoNotFound)
// holds for wrapped copies and WithMessage variants.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// Detail is the inner object of an error response.
type Detail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is the JSON body of every error response. Message repeats the
// detail message at the top level for clients that only read that.
type Response struct {
	Error   Detail `json:"error"`
	Message string `json:"message"`
}

// Response renders e as a response body.
func (e *AppError) Response() Response {
	return Response{Error: Detail{Code: e.Code, Message: e.Message}, Message: e.Message}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Too many failed attempts, try again later", StatusCode: http.StatusTooManyRequests}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Context errors.
var (
	ErrContextNotFound  = &AppError{Code: "CONTEXT_NOT_FOUND", Message: "Context not found", StatusCode: http.StatusNotFound}
	ErrDuplicateContext = &AppError{Code: "DUPLICATE_CONTEXT", Message: "A context with this name already exists", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount          = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
)

// Todo errors.
var (
	ErrTodoNotFound = &AppError{Code: "TODO_NOT_FOUND", Message: "Todo not found", StatusCode: http.StatusNotFound}
	ErrTodoNotDue   = &AppError{Code: "TODO_NOT_SCHEDULABLE", Message: "Todo needs a due date before it can be scheduled", StatusCode: http.StatusBadRequest}
)

// Event errors.
var (
	ErrEventNotFound    = &AppError{Code: "EVENT_NOT_FOUND", Message: "Event not found", StatusCode: http.StatusNotFound}
	ErrInvalidEventSpan = &AppError{Code: "INVALID_EVENT_SPAN", Message: "Event end must not be before its start", StatusCode: http.StatusBadRequest}
)

// Link errors.
var (
	ErrAlreadyLinked   = &AppError{Code: "ALREADY_LINKED", Message: "Item is already linked", StatusCode: http.StatusConflict}
	ErrNotLinked       = &AppError{Code: "NOT_LINKED", Message: "Item has no linked counterpart", StatusCode: http.StatusBadRequest}
	ErrContextMismatch = &AppError{Code: "CONTEXT_MISMATCH", Message: "Linked items must belong to the same context", StatusCode: http.StatusBadRequest}
)

// Note errors.
var (
	ErrNoteNotFound = &AppError{Code: "NOTE_NOT_FOUND", Message: "Note not found", StatusCode: http.StatusNotFound}
)
