// Package domainerrors carries user-facing error codes across package boundaries.
// Services return these (wrapping infrastructure causes) and transports translate
// the code into a status without inspecting the message.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	// Local validation failures, recoverable by editing input.
	CodeValidation   Code = "validation"
	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"

	// The remote call completed but the service declined it.
	CodeRejected Code = "rejected"
	CodeConflict Code = "conflict"

	// The remote call could not complete.
	CodeUnavailable Code = "unavailable"

	// The same operation is already outstanding.
	CodeInFlight Code = "in_flight"

	// The caller exceeded its request budget.
	CodeRateLimited Code = "rate_limited"

	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal_error"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// As extracts the outermost coded error from a chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// CodeOf returns the code carried by err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the user-facing message of a coded error, or fallback.
func MessageOf(err error, fallback string) string {
	if de, ok := As(err); ok && de.Message != "" {
		return de.Message
	}
	return fallback
}
