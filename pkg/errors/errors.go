// Package errors provides structured error types for the crdb client.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages (the server's own text for query errors)
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The taxonomy follows the life of a query:
//   - INVALID_PARAMETER: rejected by the URL builder before any network access
//   - TIMEOUT, NETWORK_ERROR, NOT_FOUND: raised by the network executor
//   - QUERY_ERROR: the server answered with a single-line error message
//   - PARSE_ERROR: the tabular payload does not match the fixed schema
//
// None of them is retried.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParameter, "combo_level must be 0, 1 or 2, got %d", lvl)
//	if errors.Is(err, errors.ErrCodeInvalidParameter) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"

	// Server-side errors
	ErrCodeQueryError Code = "QUERY_ERROR"
	ErrCodeParseError Code = "PARSE_ERROR"
	ErrCodeNotFound   Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	URL     string // Query URL the error belongs to (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		s = fmt.Sprintf("%s: %v", s, e.Cause)
	}
	if e.URL != "" {
		s = fmt.Sprintf("%s (%s)", s, e.URL)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithURL returns a copy of e annotated with the query URL.
func (e *Error) WithURL(url string) *Error {
	cp := *e
	cp.URL = url
	return &cp
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// AttachURL annotates a coded error with url unless it already names one.
// Other errors are returned unchanged.
func AttachURL(err error, url string) error {
	var e *Error
	if errors.As(err, &e) && e.URL == "" {
		return e.WithURL(url)
	}
	return err
}

// As is errors.As from the standard library, re-exported so callers need
// a single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}
