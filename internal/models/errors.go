package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the four failure kinds the service distinguishes.
// Callers classify with errors.Is and wrap with %w to add context.
var (
	// ErrValidation covers bad input: empty description, invalid enum value,
	// unknown sort field, out-of-range pagination, self-links.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers unknown ids and references on get/update/delete/link.
	ErrNotFound = errors.New("record not found")

	// ErrConflict covers duplicate references, duplicate links and
	// reference sequence overflow.
	ErrConflict = errors.New("conflict")

	// ErrStore covers underlying storage failures after rollback.
	ErrStore = errors.New("store error")
)

func wrapValidation(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

func wrapValidationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
