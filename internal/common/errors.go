// Package common defines sentinel errors and constants shared by the server,
// the store backends and the contentctl tool. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound = errors.New("not found")
	ErrStore    = errors.New("store error")

	// Request-level errors.
	ErrValidation    = errors.New("validation error")
	ErrAlreadyExists = errors.New("already exists")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError describes a malformed request payload. It matches
// ErrValidation with errors.Is and carries a message that is safe to show
// to the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}
