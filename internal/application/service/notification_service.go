package service

import (
	"context"
	"fmt"

	"github.com/plazholdr/job-finder-sub006/internal/application/dispatcher"
	"github.com/plazholdr/job-finder-sub006/internal/application/port"
	"github.com/plazholdr/job-finder-sub006/internal/domain/event"
)

// eventFlushBatch bounds how many obligations an event-triggered flush moves;
// the rest wait for the periodic flusher.
const eventFlushBatch = 50

// NotificationService pushes enqueued notification obligations to the
// external dispatcher. Delivery is best effort: a failed dispatch marks the
// record failed and moves on, it never blocks or unwinds engine commits.
type NotificationService interface {
	// FlushPending dispatches up to limit pending notifications, returning
	// how many were handed off successfully
	FlushPending(ctx context.Context, limit int) (int, error)

	// SubscribeTo registers the service on decision and overdue events so
	// freshly enqueued obligations flush without waiting for the ticker
	SubscribeTo(events dispatcher.Dispatcher)
}

type notificationServiceImpl struct {
	notifications port.NotificationRepository
	dispatcher    port.NotificationDispatcher
	logger        Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notifications port.NotificationRepository,
	d port.NotificationDispatcher,
	logger Logger,
) NotificationService {
	return &notificationServiceImpl{
		notifications: notifications,
		dispatcher:    d,
		logger:        logger,
	}
}

func (s *notificationServiceImpl) FlushPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.notifications.ListPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list pending notifications: %w", err)
	}

	sent := 0
	for _, n := range pending {
		if err := s.dispatcher.Dispatch(ctx, n); err != nil {
			s.logger.Error("Notification dispatch failed", "id", n.ID, "recipient", n.Recipient, "error", err)
			if markErr := s.notifications.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
				s.logger.Error("Failed to mark notification failed", "id", n.ID, "error", markErr)
			}
			continue
		}
		if err := s.notifications.MarkSent(ctx, n.ID); err != nil {
			s.logger.Error("Failed to mark notification sent", "id", n.ID, "error", err)
			continue
		}
		sent++
	}

	s.logger.Info("Flushed notifications", "pending", len(pending), "sent", sent)
	return sent, nil
}

func (s *notificationServiceImpl) SubscribeTo(events dispatcher.Dispatcher) {
	flush := func(ctx context.Context, _ *event.Event) error {
		_, err := s.FlushPending(ctx, eventFlushBatch)
		return err
	}
	events.SubscribeNamed(event.TypeDecisionMade, "notification-flush", flush)
	events.SubscribeNamed(event.TypeStepOverdue, "notification-flush", flush)
}
