package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error shape written to clients as the "error" member of
// a response envelope.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Code, e.Internal)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithInternal returns a copy carrying err for logs. The client still only
// sees Code and Message.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Internal = err
	return &cpy
}

// WithMessage returns a copy with a client facing message replaced.
func (e *AppError) WithMessage(message string) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Message = message
	return &cpy
}

func define(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: status}
}

var (
	ErrUnauthorized = define(http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
	ErrNotFound     = define(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrBadRequest   = define(http.StatusBadRequest, "BAD_REQUEST", "Invalid request")
	ErrCSRFInvalid  = define(http.StatusForbidden, "CSRF_TOKEN_INVALID", "Invalid CSRF token")

	// ErrEntryStore reports a failed read or write against the entries table.
	ErrEntryStore = define(http.StatusInternalServerError, "ENTRY_STORE_ERROR", "Could not access entries")

	ErrInternalServer = define(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// NewBadRequest is ErrBadRequest with a specific message.
func NewBadRequest(message string) *AppError {
	return ErrBadRequest.WithMessage(message)
}

// FromError returns err as an AppError. Anything that is not already one is
// reported as ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer.WithInternal(err)
}
