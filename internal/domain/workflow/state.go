package workflow

// State represents the overall status of a workflow instance
type State string

const (
	StatePending     State = "PENDING"
	StateUnderReview State = "UNDER_REVIEW"
	StateApproved    State = "APPROVED"
	StateRejected    State = "REJECTED"
	StateCancelled   State = "CANCELLED"
)

var validStates = map[State]bool{
	StatePending:     true,
	StateUnderReview: true,
	StateApproved:    true,
	StateRejected:    true,
	StateCancelled:   true,
}

var terminalStates = map[State]bool{
	StateApproved:  true,
	StateRejected:  true,
	StateCancelled: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid workflow instance state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// StepStatus represents the status of a single workflow step
type StepStatus string

const (
	StepPending    StepStatus = "PENDING"
	StepInProgress StepStatus = "IN_PROGRESS"
	StepCompleted  StepStatus = "COMPLETED"
	StepSkipped    StepStatus = "SKIPPED"
)

// IsDone returns true when the step no longer blocks later steps
func (s StepStatus) IsDone() bool {
	return s == StepCompleted || s == StepSkipped
}

// String returns the string representation of the step status
func (s StepStatus) String() string {
	return string(s)
}
