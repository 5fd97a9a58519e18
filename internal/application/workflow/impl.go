package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/plazholdr/job-finder-sub006/internal/application/dispatcher"
	"github.com/plazholdr/job-finder-sub006/internal/application/guard"
	"github.com/plazholdr/job-finder-sub006/internal/application/port"
	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/event"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
	domainwf "github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// approvalOutcome maps a request type to the entity status an approval
// commits, driven through the guard with the system role.
var approvalOutcome = map[entity.RequestType]status.Code{
	entity.RequestEarlyCompletion:     status.EmpCompleted,
	entity.RequestTermination:         status.EmpTerminated,
	entity.RequestCompanyVerification: status.VerVerified,
}

// rejectionOutcome maps request types whose rejection also moves the bound
// entity. Employment requests leave the record unchanged on rejection.
var rejectionOutcome = map[entity.RequestType]status.Code{
	entity.RequestCompanyVerification: status.VerRejected,
}

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	instances     port.InstanceRepository
	history       port.HistoryRepository
	notifications port.NotificationRepository
	employment    port.EmploymentRepository
	verifications port.VerificationRepository
	txManager     port.TransactionManager
	dispatcher    dispatcher.Dispatcher
	logger        Logger
	clock         func() time.Time

	// Per-key mutual exclusion: decide/advance/cancel serialize per
	// instance, creation serializes per (entity, requestType). Entries are
	// refcounted and evicted once the last holder releases.
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting events
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithClock overrides the time source, used by tests
func WithClock(clock func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.clock = clock
	}
}

// NewEngine creates a new workflow engine
func NewEngine(
	instances port.InstanceRepository,
	history port.HistoryRepository,
	notifications port.NotificationRepository,
	employment port.EmploymentRepository,
	verifications port.VerificationRepository,
	txManager port.TransactionManager,
	logger Logger,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		instances:     instances,
		history:       history,
		notifications: notifications,
		employment:    employment,
		verifications: verifications,
		txManager:     txManager,
		logger:        logger,
		clock:         time.Now,
		locks:         make(map[string]*lockEntry),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// lock acquires the named mutex and returns its release func. Held for the
// full duration of a mutating operation, released on every exit path. The
// release drops the entry's refcount and evicts it at zero, so the lock map
// stays bounded by in-flight operations rather than lifetime instance count.
func (e *engineImpl) lock(key string) func() {
	e.mu.Lock()
	entry, ok := e.locks[key]
	if !ok {
		entry = &lockEntry{}
		e.locks[key] = entry
	}
	entry.refs++
	e.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		e.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(e.locks, key)
		}
		e.mu.Unlock()
	}
}

func instanceKey(id int64) string {
	return fmt.Sprintf("instance:%d", id)
}

// entityKindFor resolves the entity kind a request type is bound to
func entityKindFor(requestType entity.RequestType) status.Kind {
	switch requestType {
	case entity.RequestEarlyCompletion, entity.RequestTermination:
		return status.KindEmployment
	case entity.RequestCompanyVerification:
		return status.KindCompanyVerification
	default:
		return ""
	}
}

// CreateInstance opens a workflow instance for an entity and request type
func (e *engineImpl) CreateInstance(ctx context.Context, req CreateRequest) (*entity.WorkflowInstance, error) {
	if !KnownRequestType(req.RequestType) {
		return nil, fmt.Errorf("unknown request type %q", req.RequestType)
	}
	kind := entityKindFor(req.RequestType)

	unlock := e.lock(fmt.Sprintf("create:%s:%d:%s", kind, req.EntityID, req.RequestType))
	defer unlock()

	open, err := e.instances.GetOpenByEntity(ctx, kind, req.EntityID, req.RequestType)
	if err != nil {
		return nil, fmt.Errorf("check open requests: %w", err)
	}
	if open != nil {
		return nil, fmt.Errorf("%w: instance %d is still %s for %s %d",
			domainwf.ErrDuplicateActiveRequest, open.ID, open.Status, kind, req.EntityID)
	}

	now := e.clock()
	instance := &entity.WorkflowInstance{
		RequestType:  req.RequestType,
		EntityKind:   kind,
		EntityID:     req.EntityID,
		Status:       domainwf.StatePending,
		Steps:        SeedSteps(req.RequestType),
		RequesterID:  req.Requester.ID,
		SupervisorID: req.SupervisorID,
		Reason:       req.Reason,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.instances.Create(txCtx, instance); err != nil {
			return fmt.Errorf("create instance: %w", err)
		}
		history := &entity.HistoryEntry{
			InstanceID: instance.ID,
			EntityKind: kind,
			EntityID:   req.EntityID,
			NewStatus:  domainwf.StatePending.String(),
			Action:     entity.ActionCreate,
			ActorID:    req.Requester.ID,
			ActorRole:  req.Requester.Role,
			Reason:     req.Reason,
			Timestamp:  now,
		}
		if err := e.history.Create(txCtx, history); err != nil {
			return fmt.Errorf("create history: %w", err)
		}
		return nil
	})
	if err != nil {
		e.logger.Error("Failed to create workflow instance", "error", err,
			"request_type", req.RequestType, "entity_id", req.EntityID)
		return nil, err
	}

	e.logger.Info("Workflow instance created", "id", instance.ID,
		"request_type", req.RequestType, "entity_id", req.EntityID)
	e.emit(ctx, event.NewEvent(event.TypeRequestSubmitted, instance.ID, map[string]interface{}{
		"request_type": req.RequestType.String(),
		"entity_kind":  kind.String(),
		"entity_id":    req.EntityID,
	}))

	return instance, nil
}

// GetInstance loads an instance with its steps
func (e *engineImpl) GetInstance(ctx context.Context, id int64) (*entity.WorkflowInstance, error) {
	instance, err := e.instances.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get instance %d: %w", id, err)
	}
	if instance == nil {
		return nil, fmt.Errorf("instance %d: %w", id, domainwf.ErrInstanceNotFound)
	}
	return instance, nil
}

// StartReview moves a pending instance under review and activates its first step
func (e *engineImpl) StartReview(ctx context.Context, instanceID int64, actor entity.Actor) (*entity.WorkflowInstance, error) {
	unlock := e.lock(instanceKey(instanceID))
	defer unlock()

	instance, err := e.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	machine := domainwf.NewInstanceMachine(instance.Status)
	if err := machine.Fire(domainwf.TriggerStartReview); err != nil {
		return nil, err
	}

	now := e.clock()
	work := instance.Clone()
	work.Status = machine.State()
	work.UpdatedAt = now
	e.activateStep(work, 0, now)

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.instances.Update(txCtx, work); err != nil {
			return fmt.Errorf("update instance: %w", err)
		}
		if err := e.instances.UpdateStep(txCtx, work.Steps[0]); err != nil {
			return fmt.Errorf("update step: %w", err)
		}
		history := &entity.HistoryEntry{
			InstanceID:     work.ID,
			EntityKind:     work.EntityKind,
			EntityID:       work.EntityID,
			PreviousStatus: instance.Status.String(),
			NewStatus:      work.Status.String(),
			Action:         entity.ActionTransition,
			ActorID:        actor.ID,
			ActorRole:      actor.Role,
			Timestamp:      now,
		}
		return e.history.Create(txCtx, history)
	})
	if err != nil {
		e.logger.Error("Failed to start review", "error", err, "instance_id", instanceID)
		return nil, err
	}

	e.logger.Info("Review started", "instance_id", instanceID, "actor", actor.ID)
	return work, nil
}

// AdvanceStep completes the current non-decision step and activates the next one
func (e *engineImpl) AdvanceStep(ctx context.Context, instanceID int64, actor entity.Actor, notes string) (*entity.WorkflowInstance, error) {
	unlock := e.lock(instanceKey(instanceID))
	defer unlock()

	instance, err := e.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if !instance.IsOpen() {
		return nil, fmt.Errorf("%w: instance %d is %s", domainwf.ErrAlreadyDecided, instanceID, instance.Status)
	}
	if instance.CurrentStepIndex >= len(instance.Steps) {
		return nil, fmt.Errorf("instance %d has no remaining steps", instanceID)
	}

	current := instance.Steps[instance.CurrentStepIndex]
	if current.Name == StepAdminDecision {
		return nil, fmt.Errorf("step %q on instance %d is completed by the decision processor", current.Name, instanceID)
	}
	if current.Status != domainwf.StepInProgress {
		return nil, fmt.Errorf("step %q on instance %d is not active", current.Name, instanceID)
	}
	if !instance.CanCompleteStep(current.Order) {
		return nil, fmt.Errorf("step %q on instance %d blocked by earlier open steps", current.Name, instanceID)
	}

	now := e.clock()
	work := instance.Clone()
	step := work.Steps[work.CurrentStepIndex]
	step.Status = domainwf.StepCompleted
	step.CompletedDate = &now
	work.CurrentStepIndex++
	work.UpdatedAt = now
	e.activateStep(work, work.CurrentStepIndex, now)

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.instances.Update(txCtx, work); err != nil {
			return fmt.Errorf("update instance: %w", err)
		}
		if err := e.instances.UpdateStep(txCtx, step); err != nil {
			return fmt.Errorf("update step: %w", err)
		}
		if work.CurrentStepIndex < len(work.Steps) {
			if err := e.instances.UpdateStep(txCtx, work.Steps[work.CurrentStepIndex]); err != nil {
				return fmt.Errorf("update next step: %w", err)
			}
		}
		history := &entity.HistoryEntry{
			InstanceID:     work.ID,
			EntityKind:     work.EntityKind,
			EntityID:       work.EntityID,
			PreviousStatus: work.Status.String(),
			NewStatus:      work.Status.String(),
			Action:         entity.ActionTransition,
			ActorID:        actor.ID,
			ActorRole:      actor.Role,
			Notes:          notes,
			Timestamp:      now,
		}
		return e.history.Create(txCtx, history)
	})
	if err != nil {
		e.logger.Error("Failed to advance step", "error", err, "instance_id", instanceID)
		return nil, err
	}

	e.logger.Info("Step completed", "instance_id", instanceID, "step", step.Name, "actor", actor.ID)
	return work, nil
}

// Decide applies an admin decision to a workflow instance. Effects are
// all-or-nothing: instance status, decision step, history entry, dependent
// entity transition, and notification obligations commit in one transaction
// or not at all.
func (e *engineImpl) Decide(ctx context.Context, instanceID int64, decision Decision, actor entity.Actor) (*entity.WorkflowInstance, error) {
	unlock := e.lock(instanceKey(instanceID))
	defer unlock()

	instance, err := e.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if !instance.IsOpen() {
		return nil, fmt.Errorf("%w: instance %d is %s", domainwf.ErrAlreadyDecided, instanceID, instance.Status)
	}
	if decision.IsReject() && strings.TrimSpace(decision.Reason()) == "" {
		return nil, fmt.Errorf("%w: instance %d", domainwf.ErrMissingReason, instanceID)
	}

	machine := domainwf.NewInstanceMachine(instance.Status)
	trigger := domainwf.TriggerApprove
	if decision.IsReject() {
		trigger = domainwf.TriggerReject
	}
	if err := machine.Fire(trigger); err != nil {
		return nil, err
	}

	now := e.clock()
	work := instance.Clone()
	work.Status = machine.State()
	work.UpdatedAt = now
	work.AdminDecision = &entity.AdminDecision{
		Decision:        decision.Kind(),
		ReviewerID:      actor.ID,
		Timestamp:       now,
		Notes:           decision.Notes(),
		RejectionReason: decision.Reason(),
	}

	changed := e.settleSteps(work, !decision.IsReject(), now)

	// Dependent entity transition runs through the guard with the system
	// role; if the guard refuses, the whole decision fails before commit.
	holder, outcome, err := e.resolveOutcome(ctx, work, decision)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		if err := guard.Transition(holder, outcome, entity.System); err != nil {
			return nil, fmt.Errorf("dependent entity transition: %w", err)
		}
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.instances.Update(txCtx, work); err != nil {
			return fmt.Errorf("update instance: %w", err)
		}
		for _, step := range changed {
			if err := e.instances.UpdateStep(txCtx, step); err != nil {
				return fmt.Errorf("update step %q: %w", step.Name, err)
			}
		}
		if holder != nil {
			if err := e.persistEntityStatus(txCtx, work.EntityKind, work.EntityID, holder.CurrentStatus()); err != nil {
				return fmt.Errorf("persist entity status: %w", err)
			}
		}
		history := &entity.HistoryEntry{
			InstanceID:     work.ID,
			EntityKind:     work.EntityKind,
			EntityID:       work.EntityID,
			PreviousStatus: instance.Status.String(),
			NewStatus:      work.Status.String(),
			Action:         entity.ActionDecision,
			ActorID:        actor.ID,
			ActorRole:      actor.Role,
			Reason:         decision.Reason(),
			Notes:          decision.Notes(),
			Timestamp:      now,
		}
		if err := e.history.Create(txCtx, history); err != nil {
			return fmt.Errorf("create history: %w", err)
		}
		return e.enqueueDecisionNotifications(txCtx, work, decision, now)
	})
	if err != nil {
		e.logger.Error("Decision failed", "error", err, "instance_id", instanceID, "decision", decision.Kind())
		return nil, err
	}

	e.logger.Info("Decision committed", "instance_id", instanceID,
		"decision", decision.Kind(), "reviewer", actor.ID)
	e.emit(ctx, event.NewEvent(event.TypeDecisionMade, work.ID, map[string]interface{}{
		"decision":     string(decision.Kind()),
		"request_type": work.RequestType.String(),
		"new_status":   work.Status.String(),
	}))

	return work, nil
}

// Cancel withdraws an open instance
func (e *engineImpl) Cancel(ctx context.Context, instanceID int64, actor entity.Actor, reason string) (*entity.WorkflowInstance, error) {
	unlock := e.lock(instanceKey(instanceID))
	defer unlock()

	instance, err := e.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if !instance.IsOpen() {
		return nil, fmt.Errorf("%w: instance %d is %s", domainwf.ErrAlreadyDecided, instanceID, instance.Status)
	}

	machine := domainwf.NewInstanceMachine(instance.Status)
	if err := machine.Fire(domainwf.TriggerCancel); err != nil {
		return nil, err
	}

	now := e.clock()
	work := instance.Clone()
	work.Status = machine.State()
	work.UpdatedAt = now
	changed := e.settleSteps(work, false, now)

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.instances.Update(txCtx, work); err != nil {
			return fmt.Errorf("update instance: %w", err)
		}
		for _, step := range changed {
			if err := e.instances.UpdateStep(txCtx, step); err != nil {
				return fmt.Errorf("update step %q: %w", step.Name, err)
			}
		}
		history := &entity.HistoryEntry{
			InstanceID:     work.ID,
			EntityKind:     work.EntityKind,
			EntityID:       work.EntityID,
			PreviousStatus: instance.Status.String(),
			NewStatus:      work.Status.String(),
			Action:         entity.ActionCancel,
			ActorID:        actor.ID,
			ActorRole:      actor.Role,
			Reason:         reason,
			Timestamp:      now,
		}
		return e.history.Create(txCtx, history)
	})
	if err != nil {
		e.logger.Error("Failed to cancel instance", "error", err, "instance_id", instanceID)
		return nil, err
	}

	e.logger.Info("Instance cancelled", "instance_id", instanceID, "actor", actor.ID)
	e.emit(ctx, event.NewEvent(event.TypeRequestCancelled, work.ID, map[string]interface{}{
		"reason": reason,
	}))

	return work, nil
}

// activateStep moves the step at order to in_progress and stamps its due
// date from the template SLA
func (e *engineImpl) activateStep(instance *entity.WorkflowInstance, order int, now time.Time) {
	if order >= len(instance.Steps) {
		return
	}
	template, ok := TemplateFor(instance.RequestType)
	if !ok || order >= len(template) {
		return
	}
	step := instance.Steps[order]
	step.Status = domainwf.StepInProgress
	due := now.Add(template[order].SLA)
	step.DueDate = &due
}

// settleSteps closes out the step chain when an instance reaches a terminal
// state. Open steps before the decision step are skipped, the decision step
// completes, and on approval the trailing status-update step completes with
// it (the entity transition it stands for commits in the same transaction).
// Returns the steps that changed.
func (e *engineImpl) settleSteps(instance *entity.WorkflowInstance, approved bool, now time.Time) []*entity.WorkflowStep {
	decisionStep := instance.StepByName(StepAdminDecision)
	changed := make([]*entity.WorkflowStep, 0, len(instance.Steps))

	for _, step := range instance.Steps {
		switch {
		case decisionStep != nil && step.Order == decisionStep.Order && instance.Status != domainwf.StateCancelled:
			step.Status = domainwf.StepCompleted
			step.CompletedDate = &now
			changed = append(changed, step)
		case step.Status.IsDone():
			// already settled
		case approved && step.Name == StepStatusUpdate:
			step.Status = domainwf.StepCompleted
			step.CompletedDate = &now
			changed = append(changed, step)
		default:
			step.Status = domainwf.StepSkipped
			changed = append(changed, step)
		}
	}

	if len(instance.Steps) > 0 {
		instance.CurrentStepIndex = len(instance.Steps) - 1
	}
	return changed
}

// resolveOutcome loads the bound entity and the status code the decision
// commits, or (nil, 0, nil) when the decision moves no entity
func (e *engineImpl) resolveOutcome(ctx context.Context, instance *entity.WorkflowInstance, decision Decision) (entity.StatusHolder, status.Code, error) {
	outcomes := approvalOutcome
	if decision.IsReject() {
		outcomes = rejectionOutcome
	}
	target, ok := outcomes[instance.RequestType]
	if !ok {
		return nil, 0, nil
	}

	holder, err := e.loadBoundEntity(ctx, instance)
	if err != nil {
		return nil, 0, err
	}
	return holder, target, nil
}

func (e *engineImpl) loadBoundEntity(ctx context.Context, instance *entity.WorkflowInstance) (entity.StatusHolder, error) {
	switch instance.EntityKind {
	case status.KindEmployment:
		rec, err := e.employment.GetByID(ctx, instance.EntityID)
		if err != nil {
			return nil, fmt.Errorf("load employment record %d: %w", instance.EntityID, err)
		}
		if rec == nil {
			return nil, fmt.Errorf("employment record %d not found", instance.EntityID)
		}
		return rec, nil
	case status.KindCompanyVerification:
		ver, err := e.verifications.GetByID(ctx, instance.EntityID)
		if err != nil {
			return nil, fmt.Errorf("load verification %d: %w", instance.EntityID, err)
		}
		if ver == nil {
			return nil, fmt.Errorf("verification %d not found", instance.EntityID)
		}
		return ver, nil
	default:
		return nil, fmt.Errorf("request type %s bound to unsupported kind %s", instance.RequestType, instance.EntityKind)
	}
}

func (e *engineImpl) persistEntityStatus(ctx context.Context, kind status.Kind, entityID int64, code status.Code) error {
	switch kind {
	case status.KindEmployment:
		return e.employment.UpdateStatus(ctx, entityID, code)
	case status.KindCompanyVerification:
		return e.verifications.UpdateStatus(ctx, entityID, code)
	default:
		return fmt.Errorf("unsupported entity kind %s", kind)
	}
}

// enqueueDecisionNotifications records delivery obligations for the
// requester and their supervisor. Content only; transport is external.
func (e *engineImpl) enqueueDecisionNotifications(ctx context.Context, instance *entity.WorkflowInstance, decision Decision, now time.Time) error {
	verdict := "approved"
	if decision.IsReject() {
		verdict = fmt.Sprintf("rejected: %s", decision.Reason())
	}

	recipients := []string{instance.RequesterID}
	if instance.SupervisorID != "" {
		recipients = append(recipients, instance.SupervisorID)
	}

	for _, recipient := range recipients {
		n := &entity.Notification{
			InstanceID: instance.ID,
			Recipient:  recipient,
			Type:       entity.NotificationTypeDecision,
			Message:    fmt.Sprintf("The %s request for %s %d was %s", instance.RequestType, instance.EntityKind, instance.EntityID, verdict),
			Status:     entity.NotificationStatusPending,
			CreatedAt:  now,
		}
		if err := e.notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("enqueue notification for %s: %w", recipient, err)
		}
	}
	return nil
}

// emit dispatches an event asynchronously when a dispatcher is configured
func (e *engineImpl) emit(ctx context.Context, evt *event.Event) {
	if e.dispatcher != nil {
		e.dispatcher.DispatchAsync(ctx, evt)
	}
}
