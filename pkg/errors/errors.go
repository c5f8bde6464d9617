// Package errors provides structured error types for facetower.
//
// This package defines error codes and types that enable:
//   - Fail-fast reporting of caller misuse (unknown ids, unbalanced scopes)
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages in the CLI
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Structural codes (NOT_FOUND, EMPTY_STACK, INVALID_SEED, INVALID_STATE)
// indicate caller misuse of the graph and are never recovered in-band.
// ORACLE_FAILURE marks an opaque geometric classification failure; recognition
// rules handle it locally and never escalate it.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "face %d is not in the current view", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeOracleFailure, origErr, "classify face %d", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph structure errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeEmptyStack   Code = "EMPTY_STACK"
	ErrCodeInvalidSeed  Code = "INVALID_SEED"
	ErrCodeInvalidState Code = "INVALID_STATE"

	// Geometry errors
	ErrCodeOracleFailure Code = "ORACLE_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsStructural reports whether err signals caller misuse of the graph
// (unknown id, popped base view, bad seed, graph mutated mid-iteration).
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeEmptyStack, ErrCodeInvalidSeed, ErrCodeInvalidState:
		return true
	}
	return false
}
