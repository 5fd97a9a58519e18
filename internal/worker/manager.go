package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Worker is a long-running background task with a managed lifecycle. Start
// must not block; Stop must be safe to call on a worker that never started.
type Worker interface {
	Start(ctx context.Context) error
	Stop()
	Name() string
}

// Manager owns the set of background workers and starts and stops them as a
// unit. Workers stop in reverse registration order so consumers shut down
// after their producers.
type Manager struct {
	mu      sync.RWMutex
	workers []Worker
	logger  *zap.Logger
}

// NewManager creates an empty worker manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register adds a worker. Registration order determines start order.
func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = append(m.workers, w)
}

// StartAll starts every registered worker in registration order. If one
// fails to start, the workers already running are stopped again and the
// error is returned.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, w := range m.workers {
		if err := w.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				m.workers[j].Stop()
			}
			return fmt.Errorf("start worker %s: %w", w.Name(), err)
		}
		m.logger.Info("Worker started", zap.String("worker", w.Name()))
	}
	return nil
}

// StopAll stops every registered worker, last registered first
func (m *Manager) StopAll() {
	m.mu.RLock()
	workers := make([]Worker, len(m.workers))
	copy(workers, m.workers)
	m.mu.RUnlock()

	for i := len(workers) - 1; i >= 0; i-- {
		workers[i].Stop()
		m.logger.Info("Worker stopped", zap.String("worker", workers[i].Name()))
	}
}

// Count reports how many workers are registered
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workers)
}
