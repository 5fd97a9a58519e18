// Package guard decides whether a requested entity status transition is
// legal and whether the acting role may drive it. The guard is pure: it
// mutates only the entity handed to it and writes no history. Recording the
// audit trail is the caller's responsibility.
package guard

import (
	"fmt"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
	"github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

// edge is one legal transition plus the roles allowed to drive it
type edge map[entity.Role]bool

func roles(rs ...entity.Role) edge {
	e := make(edge, len(rs))
	for _, r := range rs {
		e[r] = true
	}
	return e
}

// tables maps, per entity kind, each source code to its legal targets.
// A code absent from the outer map is terminal for that kind.
var tables = map[status.Kind]map[status.Code]map[status.Code]edge{
	status.KindJobListing: {
		status.JobDraft: {
			status.JobPendingApproval: roles(entity.RoleCompany),
		},
		status.JobPendingApproval: {
			status.JobActive:   roles(entity.RoleAdmin),
			status.JobRejected: roles(entity.RoleAdmin),
		},
		status.JobActive: {
			status.JobClosed: roles(entity.RoleCompany, entity.RoleAdmin),
		},
		status.JobRejected: {
			// Companies may amend and resubmit a rejected listing
			status.JobDraft: roles(entity.RoleCompany),
		},
		// JobClosed is terminal
	},
	status.KindApplication: {
		status.AppPending: {
			status.AppReviewing: roles(entity.RoleCompany),
			status.AppWithdrawn: roles(entity.RoleStudent),
			status.AppRejected:  roles(entity.RoleCompany),
		},
		status.AppReviewing: {
			status.AppInterviewScheduled: roles(entity.RoleCompany),
			status.AppRejected:           roles(entity.RoleCompany),
			status.AppWithdrawn:          roles(entity.RoleStudent),
		},
		status.AppInterviewScheduled: {
			status.AppInterviewed: roles(entity.RoleCompany),
			status.AppRejected:    roles(entity.RoleCompany),
			status.AppWithdrawn:   roles(entity.RoleStudent),
		},
		status.AppInterviewed: {
			status.AppOfferExtended: roles(entity.RoleCompany),
			status.AppRejected:      roles(entity.RoleCompany),
			status.AppWithdrawn:     roles(entity.RoleStudent),
		},
		status.AppOfferExtended: {
			status.AppAccepted:  roles(entity.RoleStudent),
			status.AppRejected:  roles(entity.RoleStudent, entity.RoleCompany),
			status.AppWithdrawn: roles(entity.RoleStudent),
		},
		// AppAccepted, AppRejected, AppWithdrawn are terminal
	},
	status.KindEmployment: {
		status.EmpActive: {
			status.EmpNoticePeriod: roles(entity.RoleStudent, entity.RoleCompany),
			status.EmpSuspended:    roles(entity.RoleAdmin),
			status.EmpOnLeave:      roles(entity.RoleCompany, entity.RoleSupervisor),
			status.EmpCompleted:    roles(entity.RoleAdmin, entity.RoleSystem),
			status.EmpTerminated:   roles(entity.RoleAdmin, entity.RoleSystem),
		},
		status.EmpNoticePeriod: {
			status.EmpCompleted:  roles(entity.RoleAdmin, entity.RoleSystem),
			status.EmpTerminated: roles(entity.RoleAdmin, entity.RoleSystem),
		},
		status.EmpSuspended: {
			status.EmpActive:     roles(entity.RoleAdmin),
			status.EmpTerminated: roles(entity.RoleAdmin, entity.RoleSystem),
		},
		status.EmpOnLeave: {
			status.EmpActive: roles(entity.RoleCompany, entity.RoleSupervisor),
		},
		// EmpTerminated and EmpCompleted are terminal
	},
	status.KindCompanyVerification: {
		status.VerUnverified: {
			status.VerPendingReview: roles(entity.RoleCompany),
		},
		status.VerPendingReview: {
			status.VerVerified: roles(entity.RoleAdmin, entity.RoleSystem),
			status.VerRejected: roles(entity.RoleAdmin, entity.RoleSystem),
		},
		status.VerRejected: {
			status.VerPendingReview: roles(entity.RoleCompany),
		},
		// VerVerified is terminal
	},
}

// CanTransition reports whether moving kind from → to is both in the
// transition table and permitted for the role. Pure and lock-free.
func CanTransition(kind status.Kind, from, to status.Code, role entity.Role) bool {
	targets, ok := tables[kind][from]
	if !ok {
		return false
	}
	e, ok := targets[to]
	if !ok {
		return false
	}
	return e[role]
}

// EdgeExists reports whether from → to is in the kind's transition table,
// regardless of role.
func EdgeExists(kind status.Kind, from, to status.Code) bool {
	targets, ok := tables[kind][from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// IsTerminalCode reports whether the code has no outgoing edges for the kind.
func IsTerminalCode(kind status.Kind, code status.Code) bool {
	_, ok := tables[kind][code]
	return !ok
}

// Transition moves the entity to the target code after validating the edge
// and the actor's role. On success the entity's status is mutated in place.
func Transition(holder entity.StatusHolder, to status.Code, actor entity.Actor) error {
	kind := holder.StatusKind()
	from := holder.CurrentStatus()

	targets, ok := tables[kind][from]
	if !ok {
		return fmt.Errorf("%w: %s has no transitions out of %s",
			workflow.ErrIllegalTransition, kind, status.LabelOf(kind, from))
	}
	e, ok := targets[to]
	if !ok {
		return fmt.Errorf("%w: %s cannot move %s -> %s",
			workflow.ErrIllegalTransition, kind, status.LabelOf(kind, from), status.LabelOf(kind, to))
	}
	if !e[actor.Role] {
		return fmt.Errorf("%w: role %s cannot move %s %s -> %s",
			workflow.ErrUnauthorized, actor.Role, kind, status.LabelOf(kind, from), status.LabelOf(kind, to))
	}

	holder.SetStatus(to)
	return nil
}
