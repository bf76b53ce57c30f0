// Package domainerrors defines the coded error type services return to the
// transport layer. Stores never construct these directly; they return
// pkg/platform/sentinel values which services translate.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code is a stable, client-visible error identifier.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_error"
	CodeInvalidInput Code = "invalid_input"
	// CodeInvalidState marks a well-formed request that breaks a business rule,
	// e.g. applying to an expired job or withdrawing a shortlisted application.
	CodeInvalidState Code = "invalid_state"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeRateLimited  Code = "rate_limited"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal_error"

	// CodeInvariantViolation is raised by model constructors and mutators.
	// Services translate it to CodeValidation before it reaches a handler.
	CodeInvariantViolation Code = "invariant_violation"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error carrying a Code, a client-safe message and an
// optional wrapped cause that is only ever logged.
type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// NewValidation builds a CodeValidation error listing every rejected field.
func NewValidation(msg string, fields ...FieldError) *Error {
	return &Error{Code: CodeValidation, Message: msg, Fields: fields}
}

// As extracts the outermost *Error from err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err (or anything it wraps) is a domain error with code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// CodeOf returns the code of err, or CodeInternal for non-domain errors.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// Is reports whether err is a domain error with the same code as target.
func Is(err error, target *Error) bool {
	return target != nil && HasCode(err, target.Code)
}

// ToHTTPStatus maps a code onto the status the API responds with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidInput, CodeInvalidState, CodeInvariantViolation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FieldErrors accumulates rejected fields while validating a request.
type FieldErrors []FieldError

func (f *FieldErrors) Add(field, msg string) {
	*f = append(*f, FieldError{Field: field, Message: msg})
}

// Err returns nil when nothing was rejected, otherwise a CodeValidation error.
func (f FieldErrors) Err(msg string) error {
	if len(f) == 0 {
		return nil
	}
	return NewValidation(msg, f...)
}
