package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers duplicate emails and duplicate memberships.
	ErrConflict = errors.New("conflict")
	// ErrValidation covers malformed input that passed JSON decoding.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError names the entity and id that could not be found.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// lookupError turns gorm.ErrRecordNotFound into a NotFoundError and wraps
// anything else.
func lookupError(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return fmt.Errorf("failed to find %s: %w", entity, err)
}

// writeError maps constraint violations to ErrConflict.
func writeError(err error, op, conflict string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrConflict, conflict)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
