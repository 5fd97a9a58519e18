package workflow

import (
	"context"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
)

// CreateRequest carries everything needed to open a workflow instance
type CreateRequest struct {
	RequestType  entity.RequestType
	EntityID     int64
	Requester    entity.Actor
	SupervisorID string
	Reason       string
}

// Engine orchestrates workflow instances: creation, step advancement, and
// the decision processor. All mutating operations serialize per instance.
type Engine interface {
	// CreateInstance opens a workflow instance for an entity and request
	// type, seeding the declared step chain. Fails with
	// ErrDuplicateActiveRequest while another instance is open for the same
	// entity and request type.
	CreateInstance(ctx context.Context, req CreateRequest) (*entity.WorkflowInstance, error)

	// GetInstance loads an instance with its steps
	GetInstance(ctx context.Context, id int64) (*entity.WorkflowInstance, error)

	// StartReview moves a pending instance under review and activates its
	// first step
	StartReview(ctx context.Context, instanceID int64, actor entity.Actor) (*entity.WorkflowInstance, error)

	// AdvanceStep completes the current non-decision step and activates the
	// next one
	AdvanceStep(ctx context.Context, instanceID int64, actor entity.Actor, notes string) (*entity.WorkflowInstance, error)

	// Decide applies an admin decision: status, decision step, history,
	// dependent entity transition, and notification obligations, atomically.
	Decide(ctx context.Context, instanceID int64, decision Decision, actor entity.Actor) (*entity.WorkflowInstance, error)

	// Cancel withdraws an open instance. Terminal instances fail with
	// ErrAlreadyDecided.
	Cancel(ctx context.Context, instanceID int64, actor entity.Actor, reason string) (*entity.WorkflowInstance, error)
}
