package port

import (
	"context"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
)

// ListingRepository defines persistence operations for JobListing
type ListingRepository interface {
	Create(ctx context.Context, listing *entity.JobListing) error
	GetByID(ctx context.Context, id int64) (*entity.JobListing, error)
	UpdateStatus(ctx context.Context, id int64, code status.Code) error
	List(ctx context.Context, limit, offset int) ([]*entity.JobListing, error)
}

// ApplicationRepository defines persistence operations for Application
type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.Application) error
	GetByID(ctx context.Context, id int64) (*entity.Application, error)
	GetByListingID(ctx context.Context, listingID int64) ([]*entity.Application, error)
	UpdateStatus(ctx context.Context, id int64, code status.Code) error
}

// EmploymentRepository defines persistence operations for EmploymentRecord
type EmploymentRepository interface {
	Create(ctx context.Context, rec *entity.EmploymentRecord) error
	GetByID(ctx context.Context, id int64) (*entity.EmploymentRecord, error)
	UpdateStatus(ctx context.Context, id int64, code status.Code) error
}

// VerificationRepository defines persistence operations for CompanyVerification
type VerificationRepository interface {
	Create(ctx context.Context, ver *entity.CompanyVerification) error
	GetByID(ctx context.Context, id int64) (*entity.CompanyVerification, error)
	GetByCompanyID(ctx context.Context, companyID string) (*entity.CompanyVerification, error)
	UpdateStatus(ctx context.Context, id int64, code status.Code) error
}

// InstanceRepository defines persistence operations for WorkflowInstance.
// GetByID loads the instance together with its ordered steps.
type InstanceRepository interface {
	Create(ctx context.Context, instance *entity.WorkflowInstance) error
	GetByID(ctx context.Context, id int64) (*entity.WorkflowInstance, error)
	GetOpenByEntity(ctx context.Context, kind status.Kind, entityID int64, requestType entity.RequestType) (*entity.WorkflowInstance, error)
	Update(ctx context.Context, instance *entity.WorkflowInstance) error
	UpdateStep(ctx context.Context, step *entity.WorkflowStep) error
	ListOpen(ctx context.Context, limit int) ([]*entity.WorkflowInstance, error)
}

// HistoryRepository defines persistence operations for HistoryEntry.
// The audit trail is append-only: no update or delete operations exist.
type HistoryRepository interface {
	Create(ctx context.Context, h *entity.HistoryEntry) error
	ListByInstance(ctx context.Context, instanceID int64) ([]*entity.HistoryEntry, error)
	ListByEntity(ctx context.Context, kind status.Kind, entityID int64) ([]*entity.HistoryEntry, error)
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByInstance(ctx context.Context, instanceID int64) ([]*entity.Notification, error)
	ListPending(ctx context.Context, limit int) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMsg string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
