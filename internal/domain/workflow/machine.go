package workflow

import "fmt"

// StateMachine tracks an instance's overall state and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current state
	PermittedTriggers() []Trigger
}

// Builder assembles the transition configuration for a state machine
type Builder struct {
	transitions map[State]map[Trigger]State
}

// NewBuilder creates an empty state machine builder
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger]State)}
}

// Permit allows firing trigger in from, landing in to
func (b *Builder) Permit(from State, trigger Trigger, to State) *Builder {
	if !from.IsValid() {
		panic(fmt.Sprintf("invalid source state: %s", from))
	}
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}
	edges, ok := b.transitions[from]
	if !ok {
		edges = make(map[Trigger]State)
		b.transitions[from] = edges
	}
	edges[trigger] = to
	return b
}

// Build creates a state machine starting in initialState. The configuration
// is copied so the builder can be reused.
func (b *Builder) Build(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	transitions := make(map[State]map[Trigger]State, len(b.transitions))
	for from, edges := range b.transitions {
		edgesCopy := make(map[Trigger]State, len(edges))
		for trigger, to := range edges {
			edgesCopy[trigger] = to
		}
		transitions[from] = edgesCopy
	}

	return &stateMachine{current: initialState, transitions: transitions}
}

type stateMachine struct {
	current     State
	transitions map[State]map[Trigger]State
}

func (m *stateMachine) State() State {
	return m.current
}

func (m *stateMachine) CanFire(trigger Trigger) bool {
	edges, ok := m.transitions[m.current]
	if !ok {
		return false
	}
	_, ok = edges[trigger]
	return ok
}

func (m *stateMachine) Fire(trigger Trigger) error {
	edges, ok := m.transitions[m.current]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from terminal state %s", ErrIllegalTransition, trigger, m.current)
	}
	to, ok := edges[trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from state %s", ErrIllegalTransition, trigger, m.current)
	}
	m.current = to
	return nil
}

func (m *stateMachine) PermittedTriggers() []Trigger {
	edges, ok := m.transitions[m.current]
	if !ok {
		return []Trigger{}
	}
	triggers := make([]Trigger, 0, len(edges))
	for trigger := range edges {
		triggers = append(triggers, trigger)
	}
	return triggers
}

// NewInstanceMachine creates the state machine governing a workflow
// instance's overall status. CANCELLED is reachable only while the instance
// is still open; APPROVED, REJECTED and CANCELLED are terminal.
func NewInstanceMachine(initialState State) StateMachine {
	b := NewBuilder()

	b.Permit(StatePending, TriggerStartReview, StateUnderReview).
		Permit(StatePending, TriggerApprove, StateApproved).
		Permit(StatePending, TriggerReject, StateRejected).
		Permit(StatePending, TriggerCancel, StateCancelled)

	b.Permit(StateUnderReview, TriggerApprove, StateApproved).
		Permit(StateUnderReview, TriggerReject, StateRejected).
		Permit(StateUnderReview, TriggerCancel, StateCancelled)

	return b.Build(initialState)
}
