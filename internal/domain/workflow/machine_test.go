package workflow

import (
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateUnderReview, false},
		{StateApproved, true},
		{StateRejected, true},
		{StateCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"cancelled", StateCancelled, true},
		{"unknown", State("INVALID"), false},
		{"empty", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStepStatus_IsDone(t *testing.T) {
	tests := []struct {
		status   StepStatus
		expected bool
	}{
		{StepPending, false},
		{StepInProgress, false},
		{StepCompleted, true},
		{StepSkipped, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsDone(); got != tt.expected {
				t.Errorf("StepStatus.IsDone() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuilder_PermitPanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid state")
		}
	}()

	NewBuilder().Permit(State("INVALID"), TriggerApprove, StateApproved)
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	NewBuilder().Build(State("INVALID"))
}

func TestInstanceMachine_HappyPath(t *testing.T) {
	m := NewInstanceMachine(StatePending)

	if err := m.Fire(TriggerStartReview); err != nil {
		t.Fatalf("Fire(START_REVIEW) error = %v", err)
	}
	if m.State() != StateUnderReview {
		t.Errorf("State() = %v, want %v", m.State(), StateUnderReview)
	}

	if err := m.Fire(TriggerApprove); err != nil {
		t.Fatalf("Fire(APPROVE) error = %v", err)
	}
	if m.State() != StateApproved {
		t.Errorf("State() = %v, want %v", m.State(), StateApproved)
	}
}

func TestInstanceMachine_TerminalStatesHaveNoEdges(t *testing.T) {
	for _, terminal := range []State{StateApproved, StateRejected, StateCancelled} {
		m := NewInstanceMachine(terminal)

		if got := m.PermittedTriggers(); len(got) != 0 {
			t.Errorf("PermittedTriggers() from %s = %v, want none", terminal, got)
		}

		err := m.Fire(TriggerCancel)
		if !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("Fire(CANCEL) from %s error = %v, want ErrIllegalTransition", terminal, err)
		}
	}
}

func TestInstanceMachine_CancelOnlyWhileOpen(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		allowed bool
	}{
		{"from pending", StatePending, true},
		{"from under review", StateUnderReview, true},
		{"from approved", StateApproved, false},
		{"from rejected", StateRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewInstanceMachine(tt.from)
			if got := m.CanFire(TriggerCancel); got != tt.allowed {
				t.Errorf("CanFire(CANCEL) = %v, want %v", got, tt.allowed)
			}
		})
	}
}

func TestInstanceMachine_DirectDecisionFromPending(t *testing.T) {
	m := NewInstanceMachine(StatePending)

	if err := m.Fire(TriggerReject); err != nil {
		t.Fatalf("Fire(REJECT) error = %v", err)
	}
	if m.State() != StateRejected {
		t.Errorf("State() = %v, want %v", m.State(), StateRejected)
	}
}
