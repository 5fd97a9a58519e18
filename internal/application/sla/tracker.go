// Package sla derives milestone state for workflow steps. Overdue flags are
// recomputed on every read relative to the caller's clock and never
// persisted, so stored and derived state cannot drift.
package sla

import (
	"fmt"
	"sync"
	"time"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	domainwf "github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

// Evaluation is the derived milestone state of one workflow instance
type Evaluation struct {
	OverdueSteps []*entity.WorkflowStep
	NextDueStep  *entity.WorkflowStep
}

// Milestone is the derived view of a single step's deadline
type Milestone struct {
	Step       *entity.WorkflowStep
	TargetDate time.Time
	Completed  bool
	Overdue    bool
}

// openWithDueDate reports whether the step still counts against its deadline
func openWithDueDate(step *entity.WorkflowStep) bool {
	if step.DueDate == nil {
		return false
	}
	return step.Status == domainwf.StepPending || step.Status == domainwf.StepInProgress
}

// Evaluate computes the overdue steps and the next upcoming deadline for an
// instance. Pure function of (instance, now); safe to call concurrently.
func Evaluate(instance *entity.WorkflowInstance, now time.Time) Evaluation {
	var eval Evaluation

	for _, step := range instance.Steps {
		if !openWithDueDate(step) {
			continue
		}
		if now.After(*step.DueDate) {
			eval.OverdueSteps = append(eval.OverdueSteps, step)
			continue
		}
		if eval.NextDueStep == nil || step.DueDate.Before(*eval.NextDueStep.DueDate) {
			eval.NextDueStep = step
		}
	}

	return eval
}

// Milestones returns the derived deadline view for every step that carries a
// due date.
func Milestones(instance *entity.WorkflowInstance, now time.Time) []Milestone {
	milestones := make([]Milestone, 0, len(instance.Steps))
	for _, step := range instance.Steps {
		if step.DueDate == nil {
			continue
		}
		milestones = append(milestones, Milestone{
			Step:       step,
			TargetDate: *step.DueDate,
			Completed:  step.Status == domainwf.StepCompleted,
			Overdue:    openWithDueDate(step) && now.After(*step.DueDate),
		})
	}
	return milestones
}

// ReminderTracker remembers which steps already had a reminder emitted so
// repeated evaluation stays idempotent: one reminder obligation per step per
// entry into the overdue state.
type ReminderTracker struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewReminderTracker creates an empty tracker
func NewReminderTracker() *ReminderTracker {
	return &ReminderTracker{seen: make(map[string]bool)}
}

func reminderKey(instanceID int64, stepOrder int) string {
	return fmt.Sprintf("%d:%d", instanceID, stepOrder)
}

// ShouldRemind returns true exactly once per (instance, step): the first
// call marks the step reminded, later calls return false.
func (t *ReminderTracker) ShouldRemind(instanceID int64, stepOrder int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := reminderKey(instanceID, stepOrder)
	if t.seen[key] {
		return false
	}
	t.seen[key] = true
	return true
}

// Forget clears the reminded mark, e.g. when an instance is closed and its
// bookkeeping is no longer needed.
func (t *ReminderTracker) Forget(instanceID int64, stepOrder int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.seen, reminderKey(instanceID, stepOrder))
}
