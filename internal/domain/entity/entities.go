package entity

import (
	"time"

	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
)

// StatusHolder is implemented by every entity whose status is governed by
// the transition guard. Status is never set directly by callers.
type StatusHolder interface {
	StatusKind() status.Kind
	CurrentStatus() status.Code
	SetStatus(code status.Code)
}

// JobListing represents a published internship or job posting
type JobListing struct {
	ID        int64       `json:"id"`
	CompanyID string      `json:"company_id"`
	Title     string      `json:"title"`
	Status    status.Code `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (l *JobListing) StatusKind() status.Kind { return status.KindJobListing }
func (l *JobListing) CurrentStatus() status.Code { return l.Status }
func (l *JobListing) SetStatus(code status.Code) { l.Status = code }

// Application represents a student's application to a job listing
type Application struct {
	ID          int64       `json:"id"`
	ListingID   int64       `json:"listing_id"`
	StudentID   string      `json:"student_id"`
	Status      status.Code `json:"status"`
	SubmittedAt time.Time   `json:"submitted_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (a *Application) StatusKind() status.Kind { return status.KindApplication }
func (a *Application) CurrentStatus() status.Code { return a.Status }
func (a *Application) SetStatus(code status.Code) { a.Status = code }

// EmploymentRecord tracks an accepted applicant's engagement with a company
type EmploymentRecord struct {
	ID            int64       `json:"id"`
	ApplicationID int64       `json:"application_id"`
	StudentID     string      `json:"student_id"`
	CompanyID     string      `json:"company_id"`
	SupervisorID  string      `json:"supervisor_id"`
	Status        status.Code `json:"status"`
	StartDate     time.Time   `json:"start_date"`
	EndDate       *time.Time  `json:"end_date,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (e *EmploymentRecord) StatusKind() status.Kind { return status.KindEmployment }
func (e *EmploymentRecord) CurrentStatus() status.Code { return e.Status }
func (e *EmploymentRecord) SetStatus(code status.Code) { e.Status = code }

// CompanyVerification tracks a company's identity verification state
type CompanyVerification struct {
	ID          int64       `json:"id"`
	CompanyID   string      `json:"company_id"`
	Status      status.Code `json:"status"`
	SubmittedAt *time.Time  `json:"submitted_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (v *CompanyVerification) StatusKind() status.Kind { return status.KindCompanyVerification }
func (v *CompanyVerification) CurrentStatus() status.Code { return v.Status }
func (v *CompanyVerification) SetStatus(code status.Code) { v.Status = code }
