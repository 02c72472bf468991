// Package apperr defines the error kinds the engine reports. Handlers map
// each kind to an HTTP status; services never touch HTTP themselves.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation: bad input, rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrConflict: a state precondition failed (register already open,
	// invoice already paid, insufficient points or balance).
	ErrConflict = errors.New("state conflict")
	// ErrForbidden: the permission gate denied the actor.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound: referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
