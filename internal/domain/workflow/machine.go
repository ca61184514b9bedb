package workflow

import (
	"fmt"

	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

// GuardFunc evaluates whether the firing actor may take a transition.
type GuardFunc func(actor entity.Role) bool

// StateMachine tracks the current claim state and validates transitions
// before any mutation happens.
type StateMachine interface {
	// State returns the current state.
	State() State

	// CanFire returns true if the trigger has a transition configured in the
	// current state whose guard passes for the actor.
	CanFire(trigger Trigger, actor entity.Role) bool

	// Fire attempts to execute the trigger for the actor, moving to the new
	// state if the transition table and its guard allow it.
	Fire(trigger Trigger, actor entity.Role) error

	// PermittedTriggers returns all triggers the actor may fire in the
	// current state.
	PermittedTriggers(actor entity.Role) []Trigger
}

// transition is one row of the transition table.
type transition struct {
	toState State
	guard   GuardFunc
}

// Builder assembles a transition table and produces machines from it.
type Builder struct {
	transitions map[State]map[Trigger][]transition
}

// NewBuilder creates an empty state machine builder.
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger][]transition)}
}

// StateConfig configures transitions out of a single state.
type StateConfig struct {
	builder *Builder
	from    State
}

// Configure returns the configuration for the given state.
func (b *Builder) Configure(state State) *StateConfig {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}
	if b.transitions[state] == nil {
		b.transitions[state] = make(map[Trigger][]transition)
	}
	return &StateConfig{builder: b, from: state}
}

// Permit allows a trigger to transition to the target state unconditionally.
func (c *StateConfig) Permit(trigger Trigger, toState State) *StateConfig {
	return c.PermitIf(trigger, toState, nil)
}

// PermitIf allows a trigger to transition to the target state when the guard
// passes for the firing actor.
func (c *StateConfig) PermitIf(trigger Trigger, toState State, guard GuardFunc) *StateConfig {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}
	c.builder.transitions[c.from][trigger] = append(c.builder.transitions[c.from][trigger], transition{
		toState: toState,
		guard:   guard,
	})
	return c
}

// Build creates a machine positioned at the given initial state. The machine
// holds its own copy of the table so later builder changes cannot leak in.
func (b *Builder) Build(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	table := make(map[State]map[Trigger][]transition, len(b.transitions))
	for state, triggers := range b.transitions {
		copied := make(map[Trigger][]transition, len(triggers))
		for trigger, ts := range triggers {
			copied[trigger] = append([]transition{}, ts...)
		}
		table[state] = copied
	}

	return &stateMachine{currentState: initialState, transitions: table}
}

type stateMachine struct {
	currentState State
	transitions  map[State]map[Trigger][]transition
}

func (m *stateMachine) State() State {
	return m.currentState
}

func (m *stateMachine) CanFire(trigger Trigger, actor entity.Role) bool {
	for _, t := range m.transitions[m.currentState][trigger] {
		if t.guard == nil || t.guard(actor) {
			return true
		}
	}
	return false
}

func (m *stateMachine) Fire(trigger Trigger, actor entity.Role) error {
	ts, ok := m.transitions[m.currentState][trigger]
	if !ok || len(ts) == 0 {
		return fmt.Errorf("%w: cannot fire %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}

	for _, t := range ts {
		if t.guard == nil || t.guard(actor) {
			m.currentState = t.toState
			return nil
		}
	}

	return fmt.Errorf("%w: %s may not fire %s from state %s", ErrGuardFailed, actor, trigger, m.currentState)
}

func (m *stateMachine) PermittedTriggers(actor entity.Role) []Trigger {
	var triggers []Trigger
	for trigger := range m.transitions[m.currentState] {
		if m.CanFire(trigger, actor) {
			triggers = append(triggers, trigger)
		}
	}
	return triggers
}
