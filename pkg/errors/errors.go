// Package errors provides structured error types for netdraw.
//
// Every fatal condition of a conversion run is reported as an [*Error] carrying a
// machine-readable [Code]. Recoverable, record-level parse defects never become
// errors: the parser absorbs them and reports them through its logger.
//
// # Error Codes
//
//   - INPUT_NOT_FOUND: the input path does not exist or cannot be read
//   - UNRECOGNIZED_FORMAT: the content matches none of the scan report shapes
//   - INVALID_INPUT: a flag or option value is out of range
//   - INVALID_CONFIG: the config file cannot be decoded
//   - OUTPUT_WRITE: the destination cannot be created or written
//   - INTERNAL_ERROR: an invariant of the document model was violated
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid sort mode: %q", mode)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeOutputWrite, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the conversion run.
const (
	// Input errors
	ErrCodeInputNotFound      Code = "INPUT_NOT_FOUND"
	ErrCodeUnrecognizedFormat Code = "UNRECOGNIZED_FORMAT"
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Output errors
	ErrCodeOutputWrite Code = "OUTPUT_WRITE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
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
// For *Error types, returns the message followed by the cause, without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
