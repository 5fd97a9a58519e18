package dispatcher

import (
	"context"

	"github.com/plazholdr/job-finder-sub006/internal/domain/event"
)

// Handler processes a dispatched domain event
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo pairs a handler with its registration name for debugging
type HandlerInfo struct {
	Name    string
	Handler Handler
}
