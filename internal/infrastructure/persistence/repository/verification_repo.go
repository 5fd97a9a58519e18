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

// VerificationRepository implements port.VerificationRepository
type VerificationRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *sqlite.DB, logger *zap.Logger) port.VerificationRepository {
	return &VerificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new company verification record
func (r *VerificationRepository) Create(ctx context.Context, ver *entity.CompanyVerification) error {
	query := `
		INSERT INTO company_verifications (company_id, status, submitted_at)
		VALUES (?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		ver.CompanyID,
		int(ver.Status),
		ver.SubmittedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create verification", zap.Error(err))
		return fmt.Errorf("failed to create verification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	ver.ID = id
	return nil
}

// GetByID retrieves a verification record by ID
func (r *VerificationRepository) GetByID(ctx context.Context, id int64) (*entity.CompanyVerification, error) {
	query := `
		SELECT id, company_id, status, submitted_at, created_at, updated_at
		FROM company_verifications
		WHERE id = ?
	`
	return r.scanOne(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
}

// GetByCompanyID retrieves the verification record for a company
func (r *VerificationRepository) GetByCompanyID(ctx context.Context, companyID string) (*entity.CompanyVerification, error) {
	query := `
		SELECT id, company_id, status, submitted_at, created_at, updated_at
		FROM company_verifications
		WHERE company_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.db.Executor(ctx).QueryRowContext(ctx, query, companyID))
}

func (r *VerificationRepository) scanOne(row *sql.Row) (*entity.CompanyVerification, error) {
	var ver entity.CompanyVerification
	var code int
	var submittedAt sql.NullTime

	err := row.Scan(
		&ver.ID,
		&ver.CompanyID,
		&code,
		&submittedAt,
		&ver.CreatedAt,
		&ver.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get verification", zap.Error(err))
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}

	ver.Status = status.Code(code)
	if submittedAt.Valid {
		ver.SubmittedAt = &submittedAt.Time
	}

	return &ver, nil
}

// UpdateStatus updates the status of a verification record
func (r *VerificationRepository) UpdateStatus(ctx context.Context, id int64, code status.Code) error {
	query := `UPDATE company_verifications SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, int(code), id)
	if err != nil {
		r.logger.Error("Failed to update verification status", zap.Int64("id", id), zap.Int("status", int(code)), zap.Error(err))
		return fmt.Errorf("failed to update verification status: %w", err)
	}

	return nil
}

// Verify interface compliance
var _ port.VerificationRepository = (*VerificationRepository)(nil)
