package common

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	CompanyIDKey contextKey = "company_id"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]any) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendDomainError maps a typed domain error onto an HTTP response.
func SendDomainError(c echo.Context, err error) error {
	var de *Error
	if !errors.As(err, &de) {
		return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "Internal server error", nil))
	}

	status := http.StatusInternalServerError
	switch de.Kind {
	case KindNotFound:
		status = http.StatusNotFound
	case KindConflict:
		status = http.StatusConflict
	case KindInvalidState:
		status = http.StatusUnprocessableEntity
	case KindValidation:
		status = http.StatusBadRequest
	}
	return c.JSON(status, CreateErrorResponse(de.Code, de.Message, de.Details))
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]any{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(CodeValidationFailure, "Validation failed", details))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

func SetUserIDInContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func SetCompanyIDInContext(ctx context.Context, companyID uuid.UUID) context.Context {
	return context.WithValue(ctx, CompanyIDKey, companyID)
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

func GetCompanyIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(CompanyIDKey).(uuid.UUID)
	return id, ok
}
