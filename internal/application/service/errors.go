package service

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to callers. The HTTP layer maps these onto status
// codes; services never swallow them.
var (
	// ErrValidation marks a missing or invalid field.
	ErrValidation = errors.New("validation error")

	// ErrPermission marks an actor not authorized for an operation.
	ErrPermission = errors.New("permission denied")

	// ErrState marks a transition attempted from a non-permitted state.
	ErrState = errors.New("invalid claim state")

	// ErrNotFound marks a referenced claim or item that does not exist.
	ErrNotFound = errors.New("not found")
)

func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func permissionErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPermission, fmt.Sprintf(format, args...))
}

func stateErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrState, fmt.Sprintf(format, args...))
}

func notFoundErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
