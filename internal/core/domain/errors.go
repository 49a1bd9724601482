package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrParse means a raw form field could not be read as a number.
	ErrParse = errors.New("invalid coordinate input")

	// ErrOutOfRange is only returned under RangeReject.
	ErrOutOfRange = errors.New("coordinate out of range")

	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidMode      = errors.New("invalid coordinate mode")
	ErrInvalidAction    = errors.New("invalid form action")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionLimit     = errors.New("session limit reached")
)

// ValidationError names the form field that blocked a submission.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
