package workflow

// Trigger represents an event that can cause an instance state transition
type Trigger string

const (
	TriggerStartReview Trigger = "START_REVIEW"
	TriggerApprove     Trigger = "APPROVE"
	TriggerReject      Trigger = "REJECT"
	TriggerCancel      Trigger = "CANCEL"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
