package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed or missing caller input. Nothing is written when it is returned.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a referenced trip or city that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a failure of the storage collaborator.
	ErrPersistence = errors.New("persistence failure")
)

var (
	ErrEmptyCityList     = fmt.Errorf("%w: city list is empty", ErrInvalidInput)
	ErrInvalidDateRange  = fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	ErrInvalidCoordinate = fmt.Errorf("%w: coordinate is missing or not a number", ErrInvalidInput)
)

// InputErrorf builds an ErrInvalidInput with a formatted message.
func InputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// PersistenceError wraps a repository failure, keeping the original cause in the chain.
func PersistenceError(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", ErrPersistence, op, err)
}
