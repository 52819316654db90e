package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Name categorizes an error for the HTTP envelope.
type Name string

const (
	NameValidation Name = "ValidationError"
	NameAuth       Name = "AuthError"
	NameUpstream   Name = "UpstreamError"
	NameInternal   Name = "InternalError"
)

// Error carries a taxonomy name alongside the message and wrapped cause.
type Error struct {
	Name    Name
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Name, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Name, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error name to its HTTP status code.
func (e *Error) Status() int {
	switch e.Name {
	case NameValidation:
		return http.StatusBadRequest
	case NameAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a user-correctable input error.
func Validation(format string, args ...any) *Error {
	return &Error{Name: NameValidation, Message: fmt.Sprintf(format, args...)}
}

// Auth builds a missing/invalid credential error.
func Auth(message string) *Error {
	return &Error{Name: NameAuth, Message: message}
}

// Upstream wraps a remote provider failure.
func Upstream(message string, err error) *Error {
	return &Error{Name: NameUpstream, Message: message, Err: err}
}

// As extracts an *Error from an error chain, if present.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
