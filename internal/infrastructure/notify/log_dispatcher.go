// Package notify provides delivery adapters for enqueued notifications.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/application/port"
	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
)

// LogDispatcher delivers notifications by writing them to the structured
// log. It stands in for a real transport (mail, push) behind the same port.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a new log-backed dispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch delivers a single notification
func (d *LogDispatcher) Dispatch(ctx context.Context, n *entity.Notification) error {
	d.logger.Info("Notification delivered",
		zap.Int64("id", n.ID),
		zap.Int64("instance_id", n.InstanceID),
		zap.String("recipient", n.Recipient),
		zap.String("type", n.Type),
		zap.String("message", n.Message),
	)
	return nil
}

// Verify interface compliance
var _ port.NotificationDispatcher = (*LogDispatcher)(nil)
