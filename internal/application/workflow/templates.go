package workflow

import (
	"time"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	domainwf "github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

// Step names shared between the templates and the decision processor
const (
	StepInitialReview      = "Initial Review"
	StepSupervisorApproval = "Supervisor Approval"
	StepAdminDecision      = "Admin Decision"
	StepStatusUpdate       = "Status Update"
	StepDocumentReview     = "Document Review"
	StepBackgroundCheck    = "Background Check"
)

// StepTemplate declares one step of a request type's approval chain. SLA is
// the time allowed from activation to the step's due date.
type StepTemplate struct {
	Name     string
	Assignee entity.Role
	SLA      time.Duration
}

// stepTemplates declares the fixed approval chain per request type. Seeding
// from a shared table keeps early-completion and termination flows from
// drifting apart.
var stepTemplates = map[entity.RequestType][]StepTemplate{
	entity.RequestEarlyCompletion: {
		{Name: StepInitialReview, Assignee: entity.RoleAdmin, SLA: 3 * 24 * time.Hour},
		{Name: StepSupervisorApproval, Assignee: entity.RoleSupervisor, SLA: 3 * 24 * time.Hour},
		{Name: StepAdminDecision, Assignee: entity.RoleAdmin, SLA: 5 * 24 * time.Hour},
		{Name: StepStatusUpdate, Assignee: entity.RoleSystem, SLA: 24 * time.Hour},
	},
	entity.RequestTermination: {
		{Name: StepInitialReview, Assignee: entity.RoleAdmin, SLA: 3 * 24 * time.Hour},
		{Name: StepSupervisorApproval, Assignee: entity.RoleSupervisor, SLA: 3 * 24 * time.Hour},
		{Name: StepAdminDecision, Assignee: entity.RoleAdmin, SLA: 5 * 24 * time.Hour},
		{Name: StepStatusUpdate, Assignee: entity.RoleSystem, SLA: 24 * time.Hour},
	},
	entity.RequestCompanyVerification: {
		{Name: StepDocumentReview, Assignee: entity.RoleAdmin, SLA: 5 * 24 * time.Hour},
		{Name: StepBackgroundCheck, Assignee: entity.RoleAdmin, SLA: 7 * 24 * time.Hour},
		{Name: StepAdminDecision, Assignee: entity.RoleAdmin, SLA: 5 * 24 * time.Hour},
	},
}

// SeedSteps builds the step list for a request type, every step pending with
// no due date until activated.
func SeedSteps(requestType entity.RequestType) []*entity.WorkflowStep {
	template, ok := stepTemplates[requestType]
	if !ok {
		return nil
	}
	steps := make([]*entity.WorkflowStep, len(template))
	for i, t := range template {
		steps[i] = &entity.WorkflowStep{
			Order:    i,
			Name:     t.Name,
			Status:   domainwf.StepPending,
			Assignee: t.Assignee.String(),
		}
	}
	return steps
}

// TemplateFor returns the declared step templates for a request type
func TemplateFor(requestType entity.RequestType) ([]StepTemplate, bool) {
	t, ok := stepTemplates[requestType]
	return t, ok
}

// KnownRequestType reports whether a step template exists for the type
func KnownRequestType(requestType entity.RequestType) bool {
	_, ok := stepTemplates[requestType]
	return ok
}
