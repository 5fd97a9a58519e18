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

// EmploymentRepository implements port.EmploymentRepository
type EmploymentRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewEmploymentRepository creates a new employment repository
func NewEmploymentRepository(db *sqlite.DB, logger *zap.Logger) port.EmploymentRepository {
	return &EmploymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new employment record
func (r *EmploymentRepository) Create(ctx context.Context, rec *entity.EmploymentRecord) error {
	query := `
		INSERT INTO employment_records (
			application_id, student_id, company_id, supervisor_id,
			status, start_date, end_date
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		rec.ApplicationID,
		rec.StudentID,
		rec.CompanyID,
		rec.SupervisorID,
		int(rec.Status),
		rec.StartDate,
		rec.EndDate,
	)
	if err != nil {
		r.logger.Error("Failed to create employment record", zap.Error(err))
		return fmt.Errorf("failed to create employment record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rec.ID = id
	return nil
}

// GetByID retrieves an employment record by ID
func (r *EmploymentRepository) GetByID(ctx context.Context, id int64) (*entity.EmploymentRecord, error) {
	query := `
		SELECT id, application_id, student_id, company_id, supervisor_id,
			status, start_date, end_date, created_at, updated_at
		FROM employment_records
		WHERE id = ?
	`

	var rec entity.EmploymentRecord
	var code int
	var endDate sql.NullTime

	err := r.db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.ApplicationID,
		&rec.StudentID,
		&rec.CompanyID,
		&rec.SupervisorID,
		&code,
		&rec.StartDate,
		&endDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get employment record by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get employment record: %w", err)
	}

	rec.Status = status.Code(code)
	if endDate.Valid {
		rec.EndDate = &endDate.Time
	}

	return &rec, nil
}

// UpdateStatus updates the status of an employment record
func (r *EmploymentRepository) UpdateStatus(ctx context.Context, id int64, code status.Code) error {
	query := `UPDATE employment_records SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, int(code), id)
	if err != nil {
		r.logger.Error("Failed to update employment status", zap.Int64("id", id), zap.Int("status", int(code)), zap.Error(err))
		return fmt.Errorf("failed to update employment status: %w", err)
	}

	return nil
}

// Verify interface compliance
var _ port.EmploymentRepository = (*EmploymentRepository)(nil)
