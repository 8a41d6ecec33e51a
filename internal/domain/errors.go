// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidLevel is returned when a proficiency level is outside
	// the [MinLevel, MaxLevel] range.
	ErrInvalidLevel = errors.New("proficiency level out of range")

	// ErrNegativeCount is returned when an answer tally count is negative.
	ErrNegativeCount = errors.New("answer counts cannot be negative")
)
