// Package domain provides the core domain model for package version
// promotion.
package domain

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// RunContext is the context passed to the state machine.
type RunContext struct {
	Report      *Report
	AutoPromote bool
}

// Event names for the state machine.
const (
	EventResolved    statekit.EventType = "RESOLVED"
	EventClassified  statekit.EventType = "CLASSIFIED"
	EventReported1GP statekit.EventType = "REPORTED_1GP"
	EventReported2GP statekit.EventType = "REPORTED_2GP"
	EventPromote     statekit.EventType = "PROMOTE"
	EventSkip        statekit.EventType = "SKIP"
	EventPromoted    statekit.EventType = "PROMOTED"
	EventFail        statekit.EventType = "FAIL"
)

// Guard names for the state machine.
const (
	GuardMayPromote statekit.GuardType = "mayPromote"
)

// State IDs for the state machine.
var (
	StateIDResolving    statekit.StateID = statekit.StateID(StateResolving)
	StateIDClassifying  statekit.StateID = statekit.StateID(StateClassifying)
	StateIDReporting1GP statekit.StateID = statekit.StateID(StateReporting1GP)
	StateIDReporting2GP statekit.StateID = statekit.StateID(StateReporting2GP)
	StateIDDeciding     statekit.StateID = statekit.StateID(StateDeciding)
	StateIDPromoting    statekit.StateID = statekit.StateID(StatePromoting)
	StateIDDone         statekit.StateID = statekit.StateID(StateDone)
	StateIDFailed       statekit.StateID = statekit.StateID(StateFailed)
)

// PromotionRunMachine wraps the Statekit state machine for promotion runs.
type PromotionRunMachine struct {
	interpreter *statekit.Interpreter[RunContext]
}

// NewPromotionRunMachine creates a new state machine for promotion runs.
func NewPromotionRunMachine() (*PromotionRunMachine, error) {
	machine, err := statekit.NewMachine[RunContext]("promotion-run").
		WithInitial(StateIDResolving).
		// Guards
		WithGuard(GuardMayPromote, guardMayPromote).
		// Resolving state
		State(StateIDResolving).
		On(EventResolved).Target(StateIDClassifying).
		On(EventFail).Target(StateIDFailed).
		Done().
		// Classifying state
		State(StateIDClassifying).
		On(EventClassified).Target(StateIDReporting1GP).
		On(EventFail).Target(StateIDFailed).
		Done().
		// Reporting states are purely informational and never block.
		State(StateIDReporting1GP).
		On(EventReported1GP).Target(StateIDReporting2GP).
		Done().
		State(StateIDReporting2GP).
		On(EventReported2GP).Target(StateIDDeciding).
		Done().
		// Deciding state: promote only when all 2GP dependencies are
		// already promoted or the operator opted into auto-promotion.
		// Skipping is the dry-run outcome, not an error.
		State(StateIDDeciding).
		On(EventPromote).Target(StateIDPromoting).Guard(GuardMayPromote).
		On(EventSkip).Target(StateIDDone).
		Done().
		// Promoting state
		State(StateIDPromoting).
		On(EventPromoted).Target(StateIDDone).
		On(EventFail).Target(StateIDFailed).
		Done().
		// Done state (terminal)
		State(StateIDDone).
		Final().
		Done().
		// Failed state (terminal)
		State(StateIDFailed).
		Final().
		Done().
		Build()

	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}

	return &PromotionRunMachine{
		interpreter: statekit.NewInterpreter(machine),
	}, nil
}

// Guard implementations - Guards take context by value (not pointer)

func guardMayPromote(ctx RunContext, _ statekit.Event) bool {
	if ctx.Report == nil {
		return false
	}
	return ctx.Report.Promoted() || ctx.AutoPromote
}

// Start starts the state machine interpreter.
func (m *PromotionRunMachine) Start() {
	m.interpreter.Start()
}

// Send sends an event to the interpreter.
func (m *PromotionRunMachine) Send(event statekit.EventType) error {
	if m.interpreter == nil {
		return fmt.Errorf("interpreter not started")
	}
	m.interpreter.Send(statekit.Event{Type: event})
	return nil
}

// CurrentState returns the current state.
func (m *PromotionRunMachine) CurrentState() statekit.StateID {
	if m.interpreter == nil {
		return ""
	}
	return m.interpreter.State().Value
}

// IsDone returns true if the machine is in a final state.
func (m *PromotionRunMachine) IsDone() bool {
	if m.interpreter == nil {
		return false
	}
	return m.interpreter.Done()
}

// Transition validates an event against the current state and returns the
// state it leads to.
func Transition(current RunState, event statekit.EventType, ctx RunContext) (RunState, error) {
	var target RunState
	switch event {
	case EventResolved:
		target = StateClassifying
	case EventClassified:
		target = StateReporting1GP
	case EventReported1GP:
		target = StateReporting2GP
	case EventReported2GP:
		target = StateDeciding
	case EventPromote:
		if !guardMayPromote(ctx, statekit.Event{}) {
			return "", fmt.Errorf("%w: unpromoted dependencies remain and auto_promote is off", ErrInvalidState)
		}
		target = StatePromoting
	case EventSkip:
		target = StateDone
	case EventPromoted:
		target = StateDone
	case EventFail:
		target = StateFailed
	default:
		return "", fmt.Errorf("unknown event: %s", event)
	}

	if !current.CanTransitionTo(target) {
		return "", fmt.Errorf("%w: cannot transition from %s to %s via %s", ErrInvalidState, current, target, event)
	}
	return target, nil
}

// ValidateTransition checks if a transition is valid without executing it.
func ValidateTransition(current RunState, event statekit.EventType, ctx RunContext) error {
	_, err := Transition(current, event, ctx)
	return err
}

// XStateJSON represents the XState JSON format for visualization.
type XStateJSON struct {
	ID      string                     `json:"id"`
	Initial string                     `json:"initial"`
	States  map[string]XStateStateJSON `json:"states"`
}

// XStateStateJSON represents a state in XState JSON format.
type XStateStateJSON struct {
	Type string                      `json:"type,omitempty"`
	On   map[string]XStateTransition `json:"on,omitempty"`
}

// XStateTransition represents a transition in XState JSON format.
type XStateTransition struct {
	Target string `json:"target"`
	Guard  string `json:"cond,omitempty"`
}

// ExportXStateJSON exports the state machine definition as
// XState-compatible JSON.
func (m *PromotionRunMachine) ExportXStateJSON() ([]byte, error) {
	xstate := XStateJSON{
		ID:      "promotion-run",
		Initial: string(StateResolving),
		States: map[string]XStateStateJSON{
			string(StateResolving): {
				On: map[string]XStateTransition{
					string(EventResolved): {Target: string(StateClassifying)},
					string(EventFail):     {Target: string(StateFailed)},
				},
			},
			string(StateClassifying): {
				On: map[string]XStateTransition{
					string(EventClassified): {Target: string(StateReporting1GP)},
					string(EventFail):       {Target: string(StateFailed)},
				},
			},
			string(StateReporting1GP): {
				On: map[string]XStateTransition{
					string(EventReported1GP): {Target: string(StateReporting2GP)},
				},
			},
			string(StateReporting2GP): {
				On: map[string]XStateTransition{
					string(EventReported2GP): {Target: string(StateDeciding)},
				},
			},
			string(StateDeciding): {
				On: map[string]XStateTransition{
					string(EventPromote): {Target: string(StatePromoting), Guard: string(GuardMayPromote)},
					string(EventSkip):    {Target: string(StateDone)},
				},
			},
			string(StatePromoting): {
				On: map[string]XStateTransition{
					string(EventPromoted): {Target: string(StateDone)},
					string(EventFail):     {Target: string(StateFailed)},
				},
			},
			string(StateDone): {
				Type: "final",
			},
			string(StateFailed): {
				Type: "final",
			},
		},
	}

	return json.MarshalIndent(xstate, "", "  ")
}
