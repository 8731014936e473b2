// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
//
// Guard failures additionally carry a stable, machine-checkable code string
// (e.g. "TIME_LOCK_NOT_EXPIRED") that off-chain relayers match on. Codes are
// attached with WithCode and extracted with CodeOf.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated account doesn't hold the required capability.
	ErrForbidden = errors.New("forbidden")

	// ErrPolicyViolation indicates a call's arguments violate the action's configured bounds.
	ErrPolicyViolation = errors.New("policy violation")

	// ErrGateClosed indicates a liveness gate (balance threshold, time-lock cooldown)
	// is currently blocking execution. Retry is the caller's responsibility.
	ErrGateClosed = errors.New("gate closed")
)

// codedError pairs a domain error with a stable code string.
type codedError struct {
	err  error
	code string
}

func (c *codedError) Error() string { return c.code + ": " + c.err.Error() }

func (c *codedError) Unwrap() error { return c.err }

// WithCode attaches a stable code string to err. The resulting error still
// matches err via errors.Is, so the taxonomy mapping in handlers keeps working.
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &codedError{err: err, code: code}
}

// CodeOf returns the first code found in err's tree, or "" if none.
func CodeOf(err error) string {
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}
	return ""
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
