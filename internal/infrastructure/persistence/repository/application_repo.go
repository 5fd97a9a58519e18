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

// ApplicationRepository implements port.ApplicationRepository
type ApplicationRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *sqlite.DB, logger *zap.Logger) port.ApplicationRepository {
	return &ApplicationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *entity.Application) error {
	query := `
		INSERT INTO applications (listing_id, student_id, status, submitted_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		app.ListingID,
		app.StudentID,
		int(app.Status),
		app.SubmittedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create application", zap.Error(err))
		return fmt.Errorf("failed to create application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	app.ID = id
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	query := `
		SELECT id, listing_id, student_id, status, submitted_at, created_at, updated_at
		FROM applications
		WHERE id = ?
	`

	var app entity.Application
	var code int

	err := r.db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&app.ID,
		&app.ListingID,
		&app.StudentID,
		&code,
		&app.SubmittedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get application by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	app.Status = status.Code(code)
	return &app, nil
}

// GetByListingID retrieves all applications submitted to a listing
func (r *ApplicationRepository) GetByListingID(ctx context.Context, listingID int64) ([]*entity.Application, error) {
	query := `
		SELECT id, listing_id, student_id, status, submitted_at, created_at, updated_at
		FROM applications
		WHERE listing_id = ?
		ORDER BY submitted_at ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, listingID)
	if err != nil {
		r.logger.Error("Failed to get applications by listing", zap.Int64("listing_id", listingID), zap.Error(err))
		return nil, fmt.Errorf("failed to get applications: %w", err)
	}
	defer rows.Close()

	var apps []*entity.Application
	for rows.Next() {
		var app entity.Application
		var code int

		err := rows.Scan(
			&app.ID,
			&app.ListingID,
			&app.StudentID,
			&code,
			&app.SubmittedAt,
			&app.CreatedAt,
			&app.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}

		app.Status = status.Code(code)
		apps = append(apps, &app)
	}

	return apps, rows.Err()
}

// UpdateStatus updates the status of an application
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, code status.Code) error {
	query := `UPDATE applications SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, int(code), id)
	if err != nil {
		r.logger.Error("Failed to update application status", zap.Int64("id", id), zap.Int("status", int(code)), zap.Error(err))
		return fmt.Errorf("failed to update application status: %w", err)
	}

	return nil
}

// Verify interface compliance
var _ port.ApplicationRepository = (*ApplicationRepository)(nil)
