// Package status defines the closed status-code sets for every workflow
// entity kind and the canonical code/label mapping between them.
package status

// Kind identifies which entity's status space a code belongs to.
type Kind string

const (
	KindJobListing          Kind = "job_listing"
	KindApplication         Kind = "application"
	KindEmployment          Kind = "employment"
	KindCompanyVerification Kind = "company_verification"
)

// Code is an integer status code in a closed, per-kind range.
type Code int

// Status pairs a code with its canonical label.
type Status struct {
	Code  Code   `json:"code"`
	Label string `json:"label"`
}

// JobListing status codes
const (
	JobDraft           Code = 0
	JobPendingApproval Code = 1
	JobActive          Code = 2
	JobClosed          Code = 3
	JobRejected        Code = 4
)

// Application status codes
const (
	AppPending            Code = 0
	AppReviewing          Code = 1
	AppInterviewScheduled Code = 2
	AppInterviewed        Code = 3
	AppOfferExtended      Code = 4
	AppAccepted           Code = 5
	AppRejected           Code = 6
	AppWithdrawn          Code = 7
)

// EmploymentRecord status codes
const (
	EmpActive       Code = 0
	EmpNoticePeriod Code = 1
	EmpSuspended    Code = 2
	EmpTerminated   Code = 3
	EmpCompleted    Code = 4
	EmpOnLeave      Code = 5
)

// CompanyVerification status codes
const (
	VerUnverified    Code = 0
	VerPendingReview Code = 1
	VerVerified      Code = 2
	VerRejected      Code = 3
)

// String returns the kind's string representation.
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the kind has a registered status set.
func (k Kind) IsValid() bool {
	_, ok := registries[k]
	return ok
}
