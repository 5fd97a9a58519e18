package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/application/port"
	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/infrastructure/persistence/sqlite"
)

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlite.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create enqueues a notification record
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (instance_id, recipient, type, message, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		n.InstanceID,
		n.Recipient,
		n.Type,
		n.Message,
		n.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	n.ID = id
	return nil
}

// ListByInstance retrieves notifications enqueued for a workflow instance
func (r *NotificationRepository) ListByInstance(ctx context.Context, instanceID int64) ([]*entity.Notification, error) {
	query := `
		SELECT id, instance_id, recipient, type, message, status, sent_at, created_at
		FROM notifications
		WHERE instance_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, instanceID)
	if err != nil {
		r.logger.Error("Failed to list notifications by instance", zap.Int64("instance_id", instanceID), zap.Error(err))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return r.collect(rows)
}

// ListPending retrieves undelivered notifications, oldest first
func (r *NotificationRepository) ListPending(ctx context.Context, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, instance_id, recipient, type, message, status, sent_at, created_at
		FROM notifications
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, entity.NotificationStatusPending, limit)
	if err != nil {
		r.logger.Error("Failed to list pending notifications", zap.Error(err))
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	return r.collect(rows)
}

func (r *NotificationRepository) collect(rows *sql.Rows) ([]*entity.Notification, error) {
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var sentAt sql.NullTime

		err := rows.Scan(
			&n.ID,
			&n.InstanceID,
			&n.Recipient,
			&n.Type,
			&n.Message,
			&n.Status,
			&sentAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkSent marks a notification as delivered
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET status = ?, sent_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, entity.NotificationStatusSent, id)
	if err != nil {
		r.logger.Error("Failed to mark notification sent", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	return nil
}

// MarkFailed marks a notification as failed with the delivery error
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	query := `UPDATE notifications SET status = ?, error = ? WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, entity.NotificationStatusFailed, errorMsg, id)
	if err != nil {
		r.logger.Error("Failed to mark notification failed", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	return nil
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
