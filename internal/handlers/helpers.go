package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/logger"
	"github.com/adrianpop47/second-brain-app-sub000/internal/middleware"
	"github.com/adrianpop47/second-brain-app-sub000/internal/services"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
	"github.com/adrianpop47/second-brain-app-sub000/internal/validator"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	id, ok := userID.(uint)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	return id, nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// bindJSON binds the request body into req. On failure it writes a 400 with
// a one-line message about the first invalid field and returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Message(err)))
		return false
	}
	return true
}

// parseDateFilter reads ?range= and ?date= (YYYY-MM-DD, default today).
func parseDateFilter(c *gin.Context) (services.DateFilter, error) {
	var filter services.DateFilter

	r, err := timeutil.ParseRange(c.Query("range"))
	if err != nil {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	filter.Range = r

	filter.Anchor = time.Now()
	if v := c.Query("date"); v != "" {
		anchor, err := timeutil.ParseDate(v, nil)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		filter.Anchor = anchor
	}
	return filter, nil
}

// parseOptionalID parses an optional uint query parameter.
func parseOptionalID(c *gin.Context, param string) (*uint, error) {
	v := c.Query(param)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil || id == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+param)
	}
	u := uint(id)
	return &u, nil
}

// queryFlag reports whether a boolean query parameter is set to true.
func queryFlag(c *gin.Context, param string) bool {
	b, err := strconv.ParseBool(c.Query(param))
	return err == nil && b
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, appErr.Response())
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, apperrors.ErrInternalServer.Response())
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse documents the body written by respondWithError.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Message string      `json:"message"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
