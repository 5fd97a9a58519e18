package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	domainwf "github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

func stepAt(order int, name string, st domainwf.StepStatus, due *time.Time) *entity.WorkflowStep {
	return &entity.WorkflowStep{Order: order, Name: name, Status: st, DueDate: due}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(48 * time.Hour)
	nearFuture := now.Add(time.Hour)

	tests := []struct {
		name        string
		steps       []*entity.WorkflowStep
		wantOverdue []int
		wantNext    int // step order, -1 for nil
	}{
		{
			name: "no due dates",
			steps: []*entity.WorkflowStep{
				stepAt(0, "Initial Review", domainwf.StepPending, nil),
			},
			wantOverdue: nil,
			wantNext:    -1,
		},
		{
			name: "in progress past due",
			steps: []*entity.WorkflowStep{
				stepAt(0, "Initial Review", domainwf.StepInProgress, &past),
			},
			wantOverdue: []int{0},
			wantNext:    -1,
		},
		{
			name: "pending past due counts too",
			steps: []*entity.WorkflowStep{
				stepAt(0, "Initial Review", domainwf.StepPending, &past),
			},
			wantOverdue: []int{0},
			wantNext:    -1,
		},
		{
			name: "completed step never overdue",
			steps: []*entity.WorkflowStep{
				stepAt(0, "Initial Review", domainwf.StepCompleted, &past),
			},
			wantOverdue: nil,
			wantNext:    -1,
		},
		{
			name: "skipped step never overdue",
			steps: []*entity.WorkflowStep{
				stepAt(0, "Initial Review", domainwf.StepSkipped, &past),
			},
			wantOverdue: nil,
			wantNext:    -1,
		},
		{
			name: "next due is the earliest upcoming",
			steps: []*entity.WorkflowStep{
				stepAt(0, "Initial Review", domainwf.StepCompleted, &past),
				stepAt(1, "Supervisor Approval", domainwf.StepInProgress, &future),
				stepAt(2, "Admin Decision", domainwf.StepPending, &nearFuture),
			},
			wantOverdue: nil,
			wantNext:    2,
		},
		{
			name: "mixed overdue and upcoming",
			steps: []*entity.WorkflowStep{
				stepAt(0, "Initial Review", domainwf.StepInProgress, &past),
				stepAt(1, "Supervisor Approval", domainwf.StepPending, &future),
			},
			wantOverdue: []int{0},
			wantNext:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance := &entity.WorkflowInstance{ID: 1, Steps: tt.steps}
			eval := Evaluate(instance, now)

			var gotOverdue []int
			for _, s := range eval.OverdueSteps {
				gotOverdue = append(gotOverdue, s.Order)
			}
			assert.Equal(t, tt.wantOverdue, gotOverdue)

			if tt.wantNext == -1 {
				assert.Nil(t, eval.NextDueStep)
			} else {
				require.NotNil(t, eval.NextDueStep)
				assert.Equal(t, tt.wantNext, eval.NextDueStep.Order)
			}
		})
	}
}

// Completing a step before its due date passes removes it from OverdueSteps
// on the next evaluation.
func TestEvaluate_CompletionClearsOverdue(t *testing.T) {
	due := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	step := stepAt(0, "Initial Review", domainwf.StepInProgress, &due)
	instance := &entity.WorkflowInstance{ID: 7, Steps: []*entity.WorkflowStep{step}}

	before := due.Add(-time.Minute)
	assert.Empty(t, Evaluate(instance, before).OverdueSteps)

	step.Status = domainwf.StepCompleted
	after := due.Add(time.Minute)
	assert.Empty(t, Evaluate(instance, after).OverdueSteps)
}

func TestMilestones(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	instance := &entity.WorkflowInstance{ID: 3, Steps: []*entity.WorkflowStep{
		stepAt(0, "Initial Review", domainwf.StepCompleted, &past),
		stepAt(1, "Supervisor Approval", domainwf.StepInProgress, &past),
		stepAt(2, "Admin Decision", domainwf.StepPending, &future),
		stepAt(3, "Status Update", domainwf.StepPending, nil),
	}}

	milestones := Milestones(instance, now)
	require.Len(t, milestones, 3, "steps without due dates have no milestone")

	assert.True(t, milestones[0].Completed)
	assert.False(t, milestones[0].Overdue, "completed milestones are never overdue")
	assert.True(t, milestones[1].Overdue)
	assert.False(t, milestones[2].Overdue)
}

func TestReminderTracker_OncePerStep(t *testing.T) {
	tracker := NewReminderTracker()

	assert.True(t, tracker.ShouldRemind(1, 0))
	assert.False(t, tracker.ShouldRemind(1, 0))
	assert.False(t, tracker.ShouldRemind(1, 0))

	// Distinct steps and instances track independently
	assert.True(t, tracker.ShouldRemind(1, 1))
	assert.True(t, tracker.ShouldRemind(2, 0))
}

func TestReminderTracker_Forget(t *testing.T) {
	tracker := NewReminderTracker()

	assert.True(t, tracker.ShouldRemind(1, 0))
	tracker.Forget(1, 0)
	assert.True(t, tracker.ShouldRemind(1, 0))
}
