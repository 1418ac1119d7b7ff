package common

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for transport mapping and retry policy.
// Business-rule failures (Conflict, InvalidState) are never retried
// automatically; they require new input or are terminal.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindValidation   Kind = "validation"
)

// Stable error codes surfaced to callers.
const (
	CodePlanNotFound               = "PLAN_NOT_FOUND"
	CodeTenantNotFound             = "TENANT_NOT_FOUND"
	CodeUserNotFound               = "USER_NOT_FOUND"
	CodeInvitationNotFound         = "INVITATION_NOT_FOUND"
	CodeSeatLimitExceeded          = "SEAT_LIMIT_EXCEEDED"
	CodeDeactivationShortfall      = "DEACTIVATION_SHORTFALL"
	CodeTenantNotEmpty             = "TENANT_NOT_EMPTY"
	CodeActiveSessionsExist        = "ACTIVE_SESSIONS_EXIST"
	CodeInvitationExpired          = "INVITATION_EXPIRED"
	CodeInvitationAlreadyConsumed  = "INVITATION_ALREADY_CONSUMED"
	CodeInvitationNotPending       = "INVITATION_NOT_PENDING"
	CodeDuplicateEmail             = "DUPLICATE_EMAIL"
	CodeInvalidCredentials         = "INVALID_CREDENTIALS"
	CodeDuplicateDomain            = "DUPLICATE_DOMAIN"
	CodeConcurrentModification     = "CONCURRENT_MODIFICATION"
	CodeValidationFailure          = "VALIDATION_FAILURE"
)

// Error is a typed domain error. Details carries structured context
// (counts, entity ids) so callers can render an actionable message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and Code so sentinel comparisons work through wraps.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}

func NewError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func InvalidState(code, message string) *Error {
	return &Error{Kind: KindInvalidState, Code: code, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidationFailure, Message: message}
}

// WithDetail attaches one structured detail and returns the same error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// KindOf returns the Kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// CodeOf returns the stable code of err, or "" when err is not a domain error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
