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

// ListingRepository implements port.ListingRepository
type ListingRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *sqlite.DB, logger *zap.Logger) port.ListingRepository {
	return &ListingRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new job listing
func (r *ListingRepository) Create(ctx context.Context, listing *entity.JobListing) error {
	query := `
		INSERT INTO job_listings (company_id, title, status)
		VALUES (?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		listing.CompanyID,
		listing.Title,
		int(listing.Status),
	)
	if err != nil {
		r.logger.Error("Failed to create listing", zap.Error(err))
		return fmt.Errorf("failed to create listing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	listing.ID = id
	return nil
}

// GetByID retrieves a job listing by ID
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*entity.JobListing, error) {
	query := `
		SELECT id, company_id, title, status, created_at, updated_at
		FROM job_listings
		WHERE id = ?
	`

	var listing entity.JobListing
	var code int

	err := r.db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&listing.ID,
		&listing.CompanyID,
		&listing.Title,
		&code,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get listing by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	listing.Status = status.Code(code)
	return &listing, nil
}

// UpdateStatus updates the status of a job listing
func (r *ListingRepository) UpdateStatus(ctx context.Context, id int64, code status.Code) error {
	query := `UPDATE job_listings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, int(code), id)
	if err != nil {
		r.logger.Error("Failed to update listing status", zap.Int64("id", id), zap.Int("status", int(code)), zap.Error(err))
		return fmt.Errorf("failed to update listing status: %w", err)
	}

	return nil
}

// List retrieves job listings with pagination
func (r *ListingRepository) List(ctx context.Context, limit, offset int) ([]*entity.JobListing, error) {
	query := `
		SELECT id, company_id, title, status, created_at, updated_at
		FROM job_listings
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list listings", zap.Error(err))
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var listings []*entity.JobListing
	for rows.Next() {
		var listing entity.JobListing
		var code int

		err := rows.Scan(
			&listing.ID,
			&listing.CompanyID,
			&listing.Title,
			&code,
			&listing.CreatedAt,
			&listing.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}

		listing.Status = status.Code(code)
		listings = append(listings, &listing)
	}

	return listings, rows.Err()
}

// Verify interface compliance
var _ port.ListingRepository = (*ListingRepository)(nil)
