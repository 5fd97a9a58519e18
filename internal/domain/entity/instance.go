package entity

import (
	"time"

	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
	"github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

// RequestType classifies the triggering request a workflow instance is bound to
type RequestType string

const (
	RequestEarlyCompletion     RequestType = "early_completion"
	RequestTermination         RequestType = "termination"
	RequestCompanyVerification RequestType = "company_verification"
)

// String returns the string representation of the request type
func (t RequestType) String() string {
	return string(t)
}

// DecisionKind is the admin's verdict on a workflow instance
type DecisionKind string

const (
	DecisionApprove DecisionKind = "APPROVE"
	DecisionReject  DecisionKind = "REJECT"
)

// AdminDecision records the final verdict on a workflow instance.
// RejectionReason is mandatory when Decision is REJECT.
type AdminDecision struct {
	Decision        DecisionKind `json:"decision"`
	ReviewerID      string       `json:"reviewer_id"`
	Timestamp       time.Time    `json:"timestamp"`
	Notes           string       `json:"notes,omitempty"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
}

// WorkflowStep is one stage of a multi-step approval. Steps keep their Order
// for the lifetime of the instance; a step may only complete once every
// lower-order step is completed or skipped.
type WorkflowStep struct {
	ID            int64               `json:"id"`
	InstanceID    int64               `json:"instance_id"`
	Order         int                 `json:"order"`
	Name          string              `json:"name"`
	Status        workflow.StepStatus `json:"status"`
	Assignee      string              `json:"assignee,omitempty"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
	CompletedDate *time.Time          `json:"completed_date,omitempty"`
}

// WorkflowInstance represents one in-flight multi-step approval bound 1:1 to
// a triggering request. Once the overall status reaches a terminal state the
// instance is immutable.
type WorkflowInstance struct {
	ID               int64           `json:"id"`
	RequestType      RequestType     `json:"request_type"`
	EntityKind       status.Kind     `json:"entity_kind"`
	EntityID         int64           `json:"entity_id"`
	Status           workflow.State  `json:"status"`
	CurrentStepIndex int             `json:"current_step_index"`
	Steps            []*WorkflowStep `json:"steps"`
	AdminDecision    *AdminDecision  `json:"admin_decision,omitempty"`
	RequesterID      string          `json:"requester_id"`
	SupervisorID     string          `json:"supervisor_id,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// IsOpen returns true while the instance can still be decided or cancelled
func (i *WorkflowInstance) IsOpen() bool {
	return !i.Status.IsTerminal()
}

// StepByName returns the first step with the given name, or nil
func (i *WorkflowInstance) StepByName(name string) *WorkflowStep {
	for _, step := range i.Steps {
		if step.Name == name {
			return step
		}
	}
	return nil
}

// CanCompleteStep reports whether the step at the given order may move to
// completed: every step with a lower order must already be done.
func (i *WorkflowInstance) CanCompleteStep(order int) bool {
	for _, step := range i.Steps {
		if step.Order < order && !step.Status.IsDone() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the instance. The decision processor mutates
// a clone and swaps it in only after every effect succeeds.
func (i *WorkflowInstance) Clone() *WorkflowInstance {
	cp := *i
	cp.Steps = make([]*WorkflowStep, len(i.Steps))
	for idx, step := range i.Steps {
		stepCopy := *step
		if step.DueDate != nil {
			due := *step.DueDate
			stepCopy.DueDate = &due
		}
		if step.CompletedDate != nil {
			done := *step.CompletedDate
			stepCopy.CompletedDate = &done
		}
		cp.Steps[idx] = &stepCopy
	}
	if i.AdminDecision != nil {
		decision := *i.AdminDecision
		cp.AdminDecision = &decision
	}
	return &cp
}
