package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/application/port"
	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
	"github.com/plazholdr/job-finder-sub006/internal/infrastructure/persistence/sqlite"
)

// HistoryRepository implements port.HistoryRepository. The table is
// append-only; no update or delete statements exist here.
type HistoryRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sqlite.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a history entry
func (r *HistoryRepository) Create(ctx context.Context, h *entity.HistoryEntry) error {
	query := `
		INSERT INTO history_entries (
			instance_id, entity_kind, entity_id, previous_status, new_status,
			action, actor_id, actor_role, reason, notes, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		h.InstanceID,
		h.EntityKind.String(),
		h.EntityID,
		h.PreviousStatus,
		h.NewStatus,
		h.Action,
		h.ActorID,
		string(h.ActorRole),
		h.Reason,
		h.Notes,
		h.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create history entry", zap.Error(err))
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	h.ID = id
	return nil
}

// ListByInstance retrieves history entries for a workflow instance in
// chronological order
func (r *HistoryRepository) ListByInstance(ctx context.Context, instanceID int64) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, instance_id, entity_kind, entity_id, previous_status, new_status,
			action, actor_id, actor_role, reason, notes, timestamp
		FROM history_entries
		WHERE instance_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, instanceID)
	if err != nil {
		r.logger.Error("Failed to list history by instance", zap.Int64("instance_id", instanceID), zap.Error(err))
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return r.collect(rows)
}

// ListByEntity retrieves history entries for an entity in chronological order
func (r *HistoryRepository) ListByEntity(ctx context.Context, kind status.Kind, entityID int64) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, instance_id, entity_kind, entity_id, previous_status, new_status,
			action, actor_id, actor_role, reason, notes, timestamp
		FROM history_entries
		WHERE entity_kind = ? AND entity_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, kind.String(), entityID)
	if err != nil {
		r.logger.Error("Failed to list history by entity",
			zap.String("entity_kind", kind.String()), zap.Int64("entity_id", entityID), zap.Error(err))
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return r.collect(rows)
}

func (r *HistoryRepository) collect(rows *sql.Rows) ([]*entity.HistoryEntry, error) {
	defer rows.Close()

	var entries []*entity.HistoryEntry
	for rows.Next() {
		var h entity.HistoryEntry
		var kind, role string

		err := rows.Scan(
			&h.ID,
			&h.InstanceID,
			&kind,
			&h.EntityID,
			&h.PreviousStatus,
			&h.NewStatus,
			&h.Action,
			&h.ActorID,
			&role,
			&h.Reason,
			&h.Notes,
			&h.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		h.EntityKind = status.Kind(kind)
		h.ActorRole = entity.Role(role)
		entries = append(entries, &h)
	}

	return entries, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
