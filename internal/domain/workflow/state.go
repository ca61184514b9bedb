package workflow

// State represents a claim state in the approval lifecycle.
type State string

const (
	StatePendingAdmin   State = "pending_admin"
	StatePendingFinance State = "pending_finance"
	StateApproved       State = "approved"
	StateRejected       State = "rejected"
)

var validStates = map[State]bool{
	StatePendingAdmin:   true,
	StatePendingFinance: true,
	StateApproved:       true,
	StateRejected:       true,
}

var terminalStates = map[State]bool{
	StateApproved: true,
	StateRejected: true,
}

// IsTerminal returns true if the state admits no further transitions.
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid claim state.
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
