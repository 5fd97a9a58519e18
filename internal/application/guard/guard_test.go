package guard

import (
	"errors"
	"testing"
	"time"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
	"github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		kind     status.Kind
		from     status.Code
		to       status.Code
		role     entity.Role
		expected bool
	}{
		{"company submits draft", status.KindJobListing, status.JobDraft, status.JobPendingApproval, entity.RoleCompany, true},
		{"student cannot submit draft", status.KindJobListing, status.JobDraft, status.JobPendingApproval, entity.RoleStudent, false},
		{"admin activates listing", status.KindJobListing, status.JobPendingApproval, status.JobActive, entity.RoleAdmin, true},
		{"company cannot activate listing", status.KindJobListing, status.JobPendingApproval, status.JobActive, entity.RoleCompany, false},
		{"no edge draft to active", status.KindJobListing, status.JobDraft, status.JobActive, entity.RoleAdmin, false},
		{"closed is terminal", status.KindJobListing, status.JobClosed, status.JobDraft, entity.RoleAdmin, false},
		{"student withdraws application", status.KindApplication, status.AppPending, status.AppWithdrawn, entity.RoleStudent, true},
		{"student accepts offer", status.KindApplication, status.AppOfferExtended, status.AppAccepted, entity.RoleStudent, true},
		{"company cannot accept offer", status.KindApplication, status.AppOfferExtended, status.AppAccepted, entity.RoleCompany, false},
		{"system completes employment", status.KindEmployment, status.EmpActive, status.EmpCompleted, entity.RoleSystem, true},
		{"student cannot complete employment", status.KindEmployment, status.EmpActive, status.EmpCompleted, entity.RoleStudent, false},
		{"admin verifies company", status.KindCompanyVerification, status.VerPendingReview, status.VerVerified, entity.RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanTransition(tt.kind, tt.from, tt.to, tt.role)
			if got != tt.expected {
				t.Errorf("CanTransition() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// Every code reachable through a transition table must itself have outgoing
// edges or be one of the kind's terminal codes.
func TestTables_Closure(t *testing.T) {
	terminals := map[status.Kind]map[status.Code]bool{
		status.KindJobListing:          {status.JobClosed: true},
		status.KindApplication:         {status.AppAccepted: true, status.AppRejected: true, status.AppWithdrawn: true},
		status.KindEmployment:          {status.EmpTerminated: true, status.EmpCompleted: true},
		status.KindCompanyVerification: {status.VerVerified: true},
	}

	for kind, table := range tables {
		for from, targets := range table {
			if !status.IsRegistered(kind, from) {
				t.Errorf("kind %s: source code %d not registered", kind, from)
			}
			for to := range targets {
				if !status.IsRegistered(kind, to) {
					t.Errorf("kind %s: target code %d not registered", kind, to)
					continue
				}
				if _, hasEdges := table[to]; !hasEdges && !terminals[kind][to] {
					t.Errorf("kind %s: code %d is reachable but has no outgoing edges and is not terminal", kind, to)
				}
			}
		}
	}
}

func TestTransition_Success(t *testing.T) {
	listing := &entity.JobListing{ID: 1, CompanyID: "co-1", Status: status.JobDraft}

	err := Transition(listing, status.JobPendingApproval, entity.Actor{ID: "co-1", Role: entity.RoleCompany})
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if listing.Status != status.JobPendingApproval {
		t.Errorf("listing.Status = %d, want %d", listing.Status, status.JobPendingApproval)
	}
}

func TestTransition_IllegalEdge(t *testing.T) {
	listing := &entity.JobListing{ID: 1, Status: status.JobDraft}

	err := Transition(listing, status.JobActive, entity.Actor{ID: "admin-1", Role: entity.RoleAdmin})
	if !errors.Is(err, workflow.ErrIllegalTransition) {
		t.Errorf("Transition() error = %v, want ErrIllegalTransition", err)
	}
	if listing.Status != status.JobDraft {
		t.Errorf("listing.Status mutated on failed transition: %d", listing.Status)
	}
}

func TestTransition_Unauthorized(t *testing.T) {
	listing := &entity.JobListing{ID: 1, Status: status.JobPendingApproval}

	err := Transition(listing, status.JobActive, entity.Actor{ID: "co-1", Role: entity.RoleCompany})
	if !errors.Is(err, workflow.ErrUnauthorized) {
		t.Errorf("Transition() error = %v, want ErrUnauthorized", err)
	}
	if listing.Status != status.JobPendingApproval {
		t.Errorf("listing.Status mutated on unauthorized transition: %d", listing.Status)
	}
}

func TestTransition_TerminalSource(t *testing.T) {
	rec := &entity.EmploymentRecord{ID: 1, Status: status.EmpCompleted, StartDate: time.Now()}

	err := Transition(rec, status.EmpActive, entity.System)
	if !errors.Is(err, workflow.ErrIllegalTransition) {
		t.Errorf("Transition() error = %v, want ErrIllegalTransition", err)
	}
}

// Mirrors the listing publication path end to end: company submits, company
// may not activate, operator activates.
func TestTransition_ListingLifecycle(t *testing.T) {
	company := entity.Actor{ID: "co-9", Role: entity.RoleCompany}
	operator := entity.Actor{ID: "op-1", Role: entity.RoleAdmin}
	listing := &entity.JobListing{ID: 9, CompanyID: "co-9", Status: status.JobDraft}

	if err := Transition(listing, status.JobPendingApproval, company); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := Transition(listing, status.JobActive, company); !errors.Is(err, workflow.ErrUnauthorized) {
		t.Fatalf("company activation error = %v, want ErrUnauthorized", err)
	}
	if err := Transition(listing, status.JobActive, operator); err != nil {
		t.Fatalf("operator activation: %v", err)
	}
	if listing.Status != status.JobActive {
		t.Errorf("final status = %d, want %d", listing.Status, status.JobActive)
	}
}
