package event

// Type classifies a domain event
type Type string

const (
	// TypeRequestSubmitted fires when a workflow instance is created
	TypeRequestSubmitted Type = "request.submitted"

	// TypeRequestCancelled fires when an open instance is cancelled
	TypeRequestCancelled Type = "request.cancelled"

	// TypeDecisionMade fires when an admin decision is committed
	TypeDecisionMade Type = "request.decided"

	// TypeStatusChanged fires after any guarded entity status transition
	TypeStatusChanged Type = "entity.status_changed"

	// TypeStepOverdue fires when a workflow step first passes its due date
	TypeStepOverdue Type = "step.overdue"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}
