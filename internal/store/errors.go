package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations. These four
// kinds are the whole failure taxonomy the review engine branches on.
var (
	// ErrUnauthorized is returned when the caller's credential is absent or
	// invalid. Fatal to a session start; recoverable by re-authenticating.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a requested entity does not exist in the
	// store. A session drops the affected card and continues.
	ErrNotFound = errors.New("entity not found")

	// ErrUnavailable is returned on transport or storage failure, including
	// request timeouts. Transient and retryable by resubmission.
	ErrUnavailable = errors.New("store unavailable")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrCardNotFound indicates that the requested card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTallyNotFound indicates that the requested answer tally does not exist.
	ErrTallyNotFound = fmt.Errorf("%w: answer tally", ErrNotFound)

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable reports whether the error is transient: the caller may
// resubmit the same operation and reasonably expect it to succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// StoreError is a custom error type for store-specific errors with
// additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "card", "tally")
	Operation string // The operation that failed (e.g., "fetch_all", "update_level")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
