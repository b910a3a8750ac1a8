// Package domain provides the core domain model for package version
// promotion.
package domain

import "fmt"

// RunState represents the current state of a promotion run.
type RunState string

const (
	// StateResolving is the initial state while the root package version's
	// dependency tree is being resolved.
	StateResolving RunState = "resolving"

	// StateClassifying means dependencies are being classified as 1GP or
	// 2GP with their release states.
	StateClassifying RunState = "classifying"

	// StateReporting1GP means the 1GP dependency report is being produced.
	StateReporting1GP RunState = "reporting_1gp"

	// StateReporting2GP means the 2GP dependency report is being produced.
	StateReporting2GP RunState = "reporting_2gp"

	// StateDeciding means the run is deciding whether promotion may proceed.
	StateDeciding RunState = "deciding"

	// StatePromoting means release flags are being flipped on unpromoted
	// dependencies and the root package version.
	StatePromoting RunState = "promoting"

	// StateDone is the terminal state, reached whether or not promotion
	// occurred.
	StateDone RunState = "done"

	// StateFailed indicates the run aborted on a query or update error.
	StateFailed RunState = "failed"
)

// AllStates returns all valid run states.
func AllStates() []RunState {
	return []RunState{
		StateResolving,
		StateClassifying,
		StateReporting1GP,
		StateReporting2GP,
		StateDeciding,
		StatePromoting,
		StateDone,
		StateFailed,
	}
}

// String returns the string representation of the state.
func (s RunState) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid run state.
func (s RunState) IsValid() bool {
	switch s {
	case StateResolving, StateClassifying, StateReporting1GP, StateReporting2GP,
		StateDeciding, StatePromoting, StateDone, StateFailed:
		return true
	default:
		return false
	}
}

// IsFinal returns true if this is a terminal state.
func (s RunState) IsFinal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransitionTo returns true if transitioning to the target state is valid.
func (s RunState) CanTransitionTo(target RunState) bool {
	validTargets, exists := validTransitions()[s]
	if !exists {
		return false
	}

	for _, valid := range validTargets {
		if valid == target {
			return true
		}
	}
	return false
}

// validTransitions defines the state machine transitions.
func validTransitions() map[RunState][]RunState {
	return map[RunState][]RunState{
		StateResolving:    {StateClassifying, StateFailed},
		StateClassifying:  {StateReporting1GP, StateFailed},
		StateReporting1GP: {StateReporting2GP},
		StateReporting2GP: {StateDeciding},
		// Deciding either proceeds to promote or ends the run as an
		// informational dry run. Stopping is not a failure.
		StateDeciding:  {StatePromoting, StateDone},
		StatePromoting: {StateDone, StateFailed},
		StateDone:      {},
		StateFailed:    {},
	}
}

// NextValidStates returns the valid next states from the current state.
func (s RunState) NextValidStates() []RunState {
	if valid, exists := validTransitions()[s]; exists {
		return valid
	}
	return nil
}

// ParseRunState parses a string into a RunState.
func ParseRunState(s string) (RunState, error) {
	state := RunState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid run state: %q", s)
	}
	return state, nil
}

// Description returns a human-readable description of the state.
func (s RunState) Description() string {
	switch s {
	case StateResolving:
		return "Resolving the root package version's dependency tree"
	case StateClassifying:
		return "Classifying dependencies as 1GP or 2GP"
	case StateReporting1GP:
		return "Reporting 1GP dependencies"
	case StateReporting2GP:
		return "Reporting 2GP dependencies and promotion status"
	case StateDeciding:
		return "Deciding whether promotion may proceed"
	case StatePromoting:
		return "Promoting unpromoted package versions"
	case StateDone:
		return "Run complete"
	case StateFailed:
		return "Run aborted on an error"
	default:
		return "Unknown state"
	}
}
