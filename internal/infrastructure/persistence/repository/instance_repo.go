package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/application/port"
	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
	"github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
	"github.com/plazholdr/job-finder-sub006/internal/infrastructure/persistence/sqlite"
)

// InstanceRepository implements port.InstanceRepository
type InstanceRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewInstanceRepository creates a new instance repository
func NewInstanceRepository(db *sqlite.DB, logger *zap.Logger) port.InstanceRepository {
	return &InstanceRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a workflow instance together with its steps
func (r *InstanceRepository) Create(ctx context.Context, instance *entity.WorkflowInstance) error {
	query := `
		INSERT INTO workflow_instances (
			request_type, entity_kind, entity_id, status, current_step_index,
			requester_id, supervisor_id, reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		instance.RequestType.String(),
		instance.EntityKind.String(),
		instance.EntityID,
		instance.Status.String(),
		instance.CurrentStepIndex,
		instance.RequesterID,
		instance.SupervisorID,
		instance.Reason,
	)
	if err != nil {
		r.logger.Error("Failed to create workflow instance", zap.Error(err))
		return fmt.Errorf("failed to create workflow instance: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	instance.ID = id

	for _, step := range instance.Steps {
		step.InstanceID = id
		if err := r.createStep(ctx, step); err != nil {
			return err
		}
	}

	return nil
}

func (r *InstanceRepository) createStep(ctx context.Context, step *entity.WorkflowStep) error {
	query := `
		INSERT INTO workflow_steps (instance_id, step_order, name, status, assignee, due_date, completed_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		step.InstanceID,
		step.Order,
		step.Name,
		step.Status.String(),
		step.Assignee,
		step.DueDate,
		step.CompletedDate,
	)
	if err != nil {
		r.logger.Error("Failed to create workflow step", zap.Int64("instance_id", step.InstanceID), zap.Error(err))
		return fmt.Errorf("failed to create workflow step: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	step.ID = id
	return nil
}

const instanceColumns = `
	id, request_type, entity_kind, entity_id, status, current_step_index,
	decision, decision_reviewer_id, decision_time, decision_notes, rejection_reason,
	requester_id, supervisor_id, reason, created_at, updated_at
`

// GetByID retrieves a workflow instance with its ordered steps
func (r *InstanceRepository) GetByID(ctx context.Context, id int64) (*entity.WorkflowInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM workflow_instances WHERE id = ?`

	instance, err := r.scanInstance(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err != nil || instance == nil {
		return instance, err
	}

	if err := r.loadSteps(ctx, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// GetOpenByEntity retrieves the open instance bound to an entity for a request
// type, or nil when none is in flight
func (r *InstanceRepository) GetOpenByEntity(ctx context.Context, kind status.Kind, entityID int64, requestType entity.RequestType) (*entity.WorkflowInstance, error) {
	query := `SELECT ` + instanceColumns + `
		FROM workflow_instances
		WHERE entity_kind = ? AND entity_id = ? AND request_type = ?
			AND status IN (?, ?)
		LIMIT 1`

	instance, err := r.scanInstance(r.db.Executor(ctx).QueryRowContext(ctx, query,
		kind.String(), entityID, requestType.String(),
		workflow.StatePending.String(), workflow.StateUnderReview.String(),
	))
	if err != nil || instance == nil {
		return instance, err
	}

	if err := r.loadSteps(ctx, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// Update persists the instance fields, including the admin decision
func (r *InstanceRepository) Update(ctx context.Context, instance *entity.WorkflowInstance) error {
	query := `
		UPDATE workflow_instances
		SET status = ?, current_step_index = ?,
			decision = ?, decision_reviewer_id = ?, decision_time = ?,
			decision_notes = ?, rejection_reason = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	var decision, reviewerID, notes, reason sql.NullString
	var decisionTime sql.NullTime
	if d := instance.AdminDecision; d != nil {
		decision = sql.NullString{String: string(d.Decision), Valid: true}
		reviewerID = sql.NullString{String: d.ReviewerID, Valid: true}
		decisionTime = sql.NullTime{Time: d.Timestamp, Valid: true}
		notes = sql.NullString{String: d.Notes, Valid: true}
		reason = sql.NullString{String: d.RejectionReason, Valid: true}
	}

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		instance.Status.String(),
		instance.CurrentStepIndex,
		decision,
		reviewerID,
		decisionTime,
		notes,
		reason,
		instance.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update workflow instance", zap.Int64("id", instance.ID), zap.Error(err))
		return fmt.Errorf("failed to update workflow instance: %w", err)
	}

	return nil
}

// UpdateStep persists a single step's status and dates
func (r *InstanceRepository) UpdateStep(ctx context.Context, step *entity.WorkflowStep) error {
	query := `
		UPDATE workflow_steps
		SET status = ?, assignee = ?, due_date = ?, completed_date = ?
		WHERE instance_id = ? AND step_order = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		step.Status.String(),
		step.Assignee,
		step.DueDate,
		step.CompletedDate,
		step.InstanceID,
		step.Order,
	)
	if err != nil {
		r.logger.Error("Failed to update workflow step",
			zap.Int64("instance_id", step.InstanceID), zap.Int("order", step.Order), zap.Error(err))
		return fmt.Errorf("failed to update workflow step: %w", err)
	}

	return nil
}

// ListOpen retrieves open workflow instances with their steps, oldest first
func (r *InstanceRepository) ListOpen(ctx context.Context, limit int) ([]*entity.WorkflowInstance, error) {
	query := `SELECT ` + instanceColumns + `
		FROM workflow_instances
		WHERE status IN (?, ?)
		ORDER BY created_at ASC
		LIMIT ?`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query,
		workflow.StatePending.String(), workflow.StateUnderReview.String(), limit)
	if err != nil {
		r.logger.Error("Failed to list open instances", zap.Error(err))
		return nil, fmt.Errorf("failed to list open instances: %w", err)
	}
	defer rows.Close()

	var instances []*entity.WorkflowInstance
	for rows.Next() {
		instance, err := r.scanInstanceRow(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, instance := range instances {
		if err := r.loadSteps(ctx, instance); err != nil {
			return nil, err
		}
	}

	return instances, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *InstanceRepository) scanInstance(row *sql.Row) (*entity.WorkflowInstance, error) {
	instance, err := r.scanInstanceRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return instance, err
}

func (r *InstanceRepository) scanInstanceRow(row rowScanner) (*entity.WorkflowInstance, error) {
	var instance entity.WorkflowInstance
	var requestType, entityKind, state string
	var decision, reviewerID, notes, reason, supervisorID sql.NullString
	var decisionTime sql.NullTime

	err := row.Scan(
		&instance.ID,
		&requestType,
		&entityKind,
		&instance.EntityID,
		&state,
		&instance.CurrentStepIndex,
		&decision,
		&reviewerID,
		&decisionTime,
		&notes,
		&reason,
		&instance.RequesterID,
		&supervisorID,
		&instance.Reason,
		&instance.CreatedAt,
		&instance.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		r.logger.Error("Failed to scan workflow instance", zap.Error(err))
		return nil, fmt.Errorf("failed to scan workflow instance: %w", err)
	}

	instance.RequestType = entity.RequestType(requestType)
	instance.EntityKind = status.Kind(entityKind)
	instance.Status = workflow.State(state)
	instance.SupervisorID = supervisorID.String

	if decision.Valid {
		instance.AdminDecision = &entity.AdminDecision{
			Decision:        entity.DecisionKind(decision.String),
			ReviewerID:      reviewerID.String,
			Timestamp:       decisionTime.Time,
			Notes:           notes.String,
			RejectionReason: reason.String,
		}
	}

	return &instance, nil
}

func (r *InstanceRepository) loadSteps(ctx context.Context, instance *entity.WorkflowInstance) error {
	query := `
		SELECT id, instance_id, step_order, name, status, assignee, due_date, completed_date
		FROM workflow_steps
		WHERE instance_id = ?
		ORDER BY step_order ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, instance.ID)
	if err != nil {
		r.logger.Error("Failed to load workflow steps", zap.Int64("instance_id", instance.ID), zap.Error(err))
		return fmt.Errorf("failed to load workflow steps: %w", err)
	}
	defer rows.Close()

	var steps []*entity.WorkflowStep
	for rows.Next() {
		var step entity.WorkflowStep
		var stepStatus string
		var assignee sql.NullString
		var dueDate, completedDate sql.NullTime

		err := rows.Scan(
			&step.ID,
			&step.InstanceID,
			&step.Order,
			&step.Name,
			&stepStatus,
			&assignee,
			&dueDate,
			&completedDate,
		)
		if err != nil {
			return fmt.Errorf("failed to scan workflow step: %w", err)
		}

		step.Status = workflow.StepStatus(stepStatus)
		step.Assignee = assignee.String
		if dueDate.Valid {
			step.DueDate = &dueDate.Time
		}
		if completedDate.Valid {
			step.CompletedDate = &completedDate.Time
		}
		steps = append(steps, &step)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	instance.Steps = steps
	return nil
}

// Verify interface compliance
var _ port.InstanceRepository = (*InstanceRepository)(nil)
