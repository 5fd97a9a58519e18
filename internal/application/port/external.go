package port

import (
	"context"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
)

// NotificationDispatcher hands enqueued notification obligations to the
// external delivery mechanism. Delivery is fire-and-forget from the engine's
// perspective and never part of an atomic commit.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n *entity.Notification) error
}
