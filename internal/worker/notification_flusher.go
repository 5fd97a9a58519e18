package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/application/service"
)

// NotificationFlusher periodically drains pending notification records
// through the dispatcher.
type NotificationFlusher struct {
	service service.NotificationService
	logger  *zap.Logger

	flushInterval time.Duration
	batchSize     int

	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewNotificationFlusher creates a new flusher
func NewNotificationFlusher(svc service.NotificationService, logger *zap.Logger) *NotificationFlusher {
	return &NotificationFlusher{
		service:       svc,
		logger:        logger,
		flushInterval: 30 * time.Second,
		batchSize:     50,
	}
}

// Start starts the flushing worker
func (f *NotificationFlusher) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.isRunning {
		return fmt.Errorf("notification flusher is already running")
	}

	f.ctx, f.cancel = context.WithCancel(ctx)
	f.isRunning = true

	f.logger.Info("NotificationFlusher started",
		zap.Duration("flush_interval", f.flushInterval),
		zap.Int("batch_size", f.batchSize))

	go f.flushLoop()

	return nil
}

// Stop stops the flushing worker
func (f *NotificationFlusher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.isRunning {
		return
	}

	f.isRunning = false
	if f.cancel != nil {
		f.cancel()
	}

	f.logger.Info("NotificationFlusher stopped")
}

// Name returns the worker name for identification
func (f *NotificationFlusher) Name() string {
	return "NotificationFlusher"
}

func (f *NotificationFlusher) flushLoop() {
	ticker := time.NewTicker(f.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.WithoutCancel(f.ctx), 30*time.Second)
			sent, err := f.service.FlushPending(ctx, f.batchSize)
			cancel()
			if err != nil {
				f.logger.Error("Failed to flush notifications", zap.Error(err))
				continue
			}
			if sent > 0 {
				f.logger.Info("Flushed notifications", zap.Int("sent", sent))
			}
		}
	}
}
