package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so callers can decide whether a retry,
// a re-fetch, or a client-side fix is the right reaction.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindInvalidState
	KindInvalidTransition
	KindForbidden
	KindUnauthorized
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// AppError is the engine's error type. Every error that crosses a
// service boundary is one of these.
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind to an HTTP status. The error middleware
// looks for this method.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidState, KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string, err error) *AppError {
	return newError(KindValidation, message, err)
}

func Validationf(format string, args ...interface{}) *AppError {
	return newError(KindValidation, fmt.Sprintf(format, args...), nil)
}

func NotFound(resource string, err error) *AppError {
	return newError(KindNotFound, fmt.Sprintf("%s not found", resource), err)
}

func Conflict(message string, err error) *AppError {
	return newError(KindConflict, message, err)
}

func InvalidState(message string, err error) *AppError {
	return newError(KindInvalidState, message, err)
}

func InvalidTransition(from, to string) *AppError {
	return newError(KindInvalidTransition, fmt.Sprintf("cannot transition from %s to %s", from, to), nil)
}

func Forbidden(message string, err error) *AppError {
	return newError(KindForbidden, message, err)
}

func Unauthorized(err error) *AppError {
	return newError(KindUnauthorized, "unauthorized", err)
}

func Internal(err error) *AppError {
	return newError(KindInternal, "internal error", err)
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var app *AppError
	if errors.As(err, &app) {
		return app.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func IsNotFound(err error) bool          { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool          { return IsKind(err, KindConflict) }
func IsValidation(err error) bool        { return IsKind(err, KindValidation) }
func IsInvalidState(err error) bool      { return IsKind(err, KindInvalidState) }
func IsInvalidTransition(err error) bool { return IsKind(err, KindInvalidTransition) }
func IsForbidden(err error) bool         { return IsKind(err, KindForbidden) }
