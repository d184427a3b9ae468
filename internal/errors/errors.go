// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidOperation indicates a business rule rejected the operation
	// (e.g., issuing more stock than on hand). Not retried.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConcurrencyConflict indicates a version-conditioned write matched zero
	// rows because another writer committed first. Transient; retried internally.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrConcurrencyExhausted indicates the bounded conflict-retry budget ran
	// out. Fatal for the request; the caller may try again later.
	ErrConcurrencyExhausted = errors.New("concurrency retries exhausted")

	// ErrSerializationFailure indicates an event payload could not be
	// serialized. Aborts the enclosing transaction so the business mutation
	// rolls back too.
	ErrSerializationFailure = errors.New("serialization failure")

	// ErrDeliveryFailure indicates a broker publish attempt failed. Retried by
	// the outbox relay on its own schedule, never surfaced synchronously.
	ErrDeliveryFailure = errors.New("delivery failure")

	// ErrNoTransaction indicates code that requires an open transaction was
	// called without one. This is a programming error and must fail loudly.
	ErrNoTransaction = errors.New("no active transaction")
)

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
