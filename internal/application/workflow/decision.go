package workflow

import "github.com/plazholdr/job-finder-sub006/internal/domain/entity"

// Decision is a tagged verdict on a workflow instance. Construct one through
// Approve or Reject; a rejection carries its reason by construction instead
// of relying on an optional field being filled in.
type Decision struct {
	kind   entity.DecisionKind
	notes  string
	reason string
}

// Approve builds an approval decision with optional reviewer notes
func Approve(notes string) Decision {
	return Decision{kind: entity.DecisionApprove, notes: notes}
}

// Reject builds a rejection decision. The reason is mandatory; Decide fails
// with ErrMissingReason when it is empty.
func Reject(reason, notes string) Decision {
	return Decision{kind: entity.DecisionReject, reason: reason, notes: notes}
}

// Kind returns the decision verdict
func (d Decision) Kind() entity.DecisionKind { return d.kind }

// Notes returns the reviewer notes
func (d Decision) Notes() string { return d.notes }

// Reason returns the rejection reason, empty for approvals
func (d Decision) Reason() string { return d.reason }

// IsReject reports whether the decision is a rejection
func (d Decision) IsReject() bool { return d.kind == entity.DecisionReject }
