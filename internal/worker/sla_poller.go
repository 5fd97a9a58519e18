package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/application/dispatcher"
	"github.com/plazholdr/job-finder-sub006/internal/application/port"
	"github.com/plazholdr/job-finder-sub006/internal/application/sla"
	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/event"
)

// SLAPoller periodically scans open workflow instances for overdue steps and
// enqueues one reminder notification per step per overdue episode.
type SLAPoller struct {
	instances     port.InstanceRepository
	notifications port.NotificationRepository
	tracker       *sla.ReminderTracker
	dispatcher    dispatcher.Dispatcher
	logger        *zap.Logger

	pollInterval time.Duration
	batchSize    int
	clock        func() time.Time

	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// SLAPollerOption customizes poller construction
type SLAPollerOption func(*SLAPoller)

// WithPollInterval overrides the scan interval
func WithPollInterval(d time.Duration) SLAPollerOption {
	return func(p *SLAPoller) { p.pollInterval = d }
}

// WithBatchSize overrides how many instances each scan inspects
func WithBatchSize(n int) SLAPollerOption {
	return func(p *SLAPoller) { p.batchSize = n }
}

// WithPollerClock overrides the time source, for tests
func WithPollerClock(clock func() time.Time) SLAPollerOption {
	return func(p *SLAPoller) { p.clock = clock }
}

// WithPollerDispatcher sets the event dispatcher overdue events are emitted on
func WithPollerDispatcher(d dispatcher.Dispatcher) SLAPollerOption {
	return func(p *SLAPoller) { p.dispatcher = d }
}

// NewSLAPoller creates a new deadline poller
func NewSLAPoller(
	instances port.InstanceRepository,
	notifications port.NotificationRepository,
	logger *zap.Logger,
	opts ...SLAPollerOption,
) *SLAPoller {
	p := &SLAPoller{
		instances:     instances,
		notifications: notifications,
		tracker:       sla.NewReminderTracker(),
		logger:        logger,
		pollInterval:  15 * time.Minute,
		batchSize:     100,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start starts the polling worker
func (p *SLAPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("sla poller is already running")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.isRunning = true

	p.logger.Info("SLAPoller started",
		zap.Duration("poll_interval", p.pollInterval),
		zap.Int("batch_size", p.batchSize))

	go p.pollLoop()

	return nil
}

// Stop stops the polling worker
func (p *SLAPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}

	p.isRunning = false
	if p.cancel != nil {
		p.cancel()
	}

	p.logger.Info("SLAPoller stopped")
}

// Name returns the worker name for identification
func (p *SLAPoller) Name() string {
	return "SLAPoller"
}

func (p *SLAPoller) pollLoop() {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Scan immediately on start
	p.Poll()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("Poll loop context cancelled")
			return

		case <-ticker.C:
			p.Poll()
		}
	}
}

// Poll runs one scan over open instances. Exported so tests and operators can
// trigger a scan without waiting for the ticker.
func (p *SLAPoller) Poll() {
	p.mu.RLock()
	base := p.ctx
	p.mu.RUnlock()
	if base == nil {
		base = context.Background()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(base), 30*time.Second)
	defer cancel()

	instances, err := p.instances.ListOpen(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("Failed to list open instances", zap.Error(err))
		return
	}

	if len(instances) == 0 {
		return
	}

	now := p.clock()
	remindedCount := 0

	for _, instance := range instances {
		eval := sla.Evaluate(instance, now)
		for _, step := range eval.OverdueSteps {
			if !p.tracker.ShouldRemind(instance.ID, step.Order) {
				continue
			}

			if err := p.enqueueReminder(ctx, instance, step); err != nil {
				// Let the next scan retry this step
				p.tracker.Forget(instance.ID, step.Order)
				p.logger.Error("Failed to enqueue reminder",
					zap.Int64("instance_id", instance.ID),
					zap.Int("step_order", step.Order),
					zap.Error(err))
				continue
			}
			remindedCount++

			if p.dispatcher != nil {
				p.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeStepOverdue, instance.ID, map[string]interface{}{
					"step":     step.Name,
					"order":    step.Order,
					"due_date": step.DueDate.Format(time.RFC3339),
				}))
			}
		}
	}

	if remindedCount > 0 {
		p.logger.Info("SLA scan completed",
			zap.Int("instances", len(instances)),
			zap.Int("reminders", remindedCount))
	}
}

func (p *SLAPoller) enqueueReminder(ctx context.Context, instance *entity.WorkflowInstance, step *entity.WorkflowStep) error {
	recipient := step.Assignee
	if recipient == "" {
		recipient = instance.RequesterID
	}

	notification := &entity.Notification{
		InstanceID: instance.ID,
		Recipient:  recipient,
		Type:       entity.NotificationTypeReminder,
		Message: fmt.Sprintf("Step %q of %s request #%d is overdue (due %s)",
			step.Name, instance.RequestType, instance.ID, step.DueDate.Format(time.RFC3339)),
		Status: entity.NotificationStatusPending,
	}

	return p.notifications.Create(ctx, notification)
}
