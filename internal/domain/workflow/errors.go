package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when no transition is configured for
	// the trigger in the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not a valid claim state.
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed is returned when a transition exists but its guard
	// (the actor role check) rejects the firing actor.
	ErrGuardFailed = errors.New("guard condition failed")
)
