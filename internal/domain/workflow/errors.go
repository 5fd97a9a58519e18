package workflow

import "errors"

var (
	// ErrIllegalTransition is returned when the requested edge is not in the
	// entity's transition table
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrUnauthorized is returned when the actor's role does not satisfy the
	// edge's role requirement
	ErrUnauthorized = errors.New("actor not authorized for transition")

	// ErrAlreadyDecided is returned when a decision is applied to a workflow
	// instance that already reached a terminal state
	ErrAlreadyDecided = errors.New("workflow instance already decided")

	// ErrMissingReason is returned when a rejection carries no reason
	ErrMissingReason = errors.New("rejection requires a reason")

	// ErrDuplicateActiveRequest is returned when a second workflow instance
	// is created for an entity+requestType that already has an open one
	ErrDuplicateActiveRequest = errors.New("an active request already exists for this entity")

	// ErrInvalidState is returned when a state is not valid
	ErrInvalidState = errors.New("invalid state")

	// ErrInstanceNotFound is returned when no workflow instance exists for
	// the given ID
	ErrInstanceNotFound = errors.New("workflow instance not found")
)
