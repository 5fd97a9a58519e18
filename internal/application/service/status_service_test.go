package service

import (
	"context"
	"errors"
	"testing"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
	"github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

// Mock implementations

type mockListingRepo struct {
	listings map[int64]*entity.JobListing
}

func (m *mockListingRepo) Create(ctx context.Context, l *entity.JobListing) error {
	m.listings[l.ID] = l
	return nil
}

func (m *mockListingRepo) GetByID(ctx context.Context, id int64) (*entity.JobListing, error) {
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *mockListingRepo) UpdateStatus(ctx context.Context, id int64, code status.Code) error {
	l, ok := m.listings[id]
	if !ok {
		return errors.New("listing not found")
	}
	l.Status = code
	return nil
}

func (m *mockListingRepo) List(ctx context.Context, limit, offset int) ([]*entity.JobListing, error) {
	return nil, nil
}

type mockApplicationRepo struct {
	apps map[int64]*entity.Application
}

func (m *mockApplicationRepo) Create(ctx context.Context, a *entity.Application) error {
	m.apps[a.ID] = a
	return nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockApplicationRepo) GetByListingID(ctx context.Context, listingID int64) ([]*entity.Application, error) {
	return nil, nil
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, id int64, code status.Code) error {
	a, ok := m.apps[id]
	if !ok {
		return errors.New("application not found")
	}
	a.Status = code
	return nil
}

type mockEmploymentRepo struct {
	records map[int64]*entity.EmploymentRecord
}

func (m *mockEmploymentRepo) Create(ctx context.Context, r *entity.EmploymentRecord) error {
	m.records[r.ID] = r
	return nil
}

func (m *mockEmploymentRepo) GetByID(ctx context.Context, id int64) (*entity.EmploymentRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *mockEmploymentRepo) UpdateStatus(ctx context.Context, id int64, code status.Code) error {
	r, ok := m.records[id]
	if !ok {
		return errors.New("record not found")
	}
	r.Status = code
	return nil
}

type mockVerificationRepo struct {
	vers map[int64]*entity.CompanyVerification
}

func (m *mockVerificationRepo) Create(ctx context.Context, v *entity.CompanyVerification) error {
	m.vers[v.ID] = v
	return nil
}

func (m *mockVerificationRepo) GetByID(ctx context.Context, id int64) (*entity.CompanyVerification, error) {
	v, ok := m.vers[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *mockVerificationRepo) GetByCompanyID(ctx context.Context, companyID string) (*entity.CompanyVerification, error) {
	return nil, nil
}

func (m *mockVerificationRepo) UpdateStatus(ctx context.Context, id int64, code status.Code) error {
	v, ok := m.vers[id]
	if !ok {
		return errors.New("verification not found")
	}
	v.Status = code
	return nil
}

type mockHistoryRepo struct {
	entries []*entity.HistoryEntry
}

func (m *mockHistoryRepo) Create(ctx context.Context, h *entity.HistoryEntry) error {
	h.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, h)
	return nil
}

func (m *mockHistoryRepo) ListByInstance(ctx context.Context, instanceID int64) ([]*entity.HistoryEntry, error) {
	return nil, nil
}

func (m *mockHistoryRepo) ListByEntity(ctx context.Context, kind status.Kind, entityID int64) ([]*entity.HistoryEntry, error) {
	var out []*entity.HistoryEntry
	for _, h := range m.entries {
		if h.EntityKind == kind && h.EntityID == entityID {
			out = append(out, h)
		}
	}
	return out, nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

type statusFixture struct {
	svc      StatusService
	listings *mockListingRepo
	history  *mockHistoryRepo
}

func newStatusFixture() *statusFixture {
	listings := &mockListingRepo{listings: make(map[int64]*entity.JobListing)}
	history := &mockHistoryRepo{}
	svc := NewStatusService(
		listings,
		&mockApplicationRepo{apps: make(map[int64]*entity.Application)},
		&mockEmploymentRepo{records: make(map[int64]*entity.EmploymentRecord)},
		&mockVerificationRepo{vers: make(map[int64]*entity.CompanyVerification)},
		history,
		&mockTxManager{},
		nil,
		noopLogger{},
	)
	return &statusFixture{svc: svc, listings: listings, history: history}
}

// Full listing publication path: company submits, company may not activate,
// operator activates.
func TestStatusService_ListingLifecycle(t *testing.T) {
	f := newStatusFixture()
	f.listings.listings[1] = &entity.JobListing{ID: 1, CompanyID: "co-1", Status: status.JobDraft}
	ctx := context.Background()

	company := entity.Actor{ID: "co-1", Role: entity.RoleCompany}
	operator := entity.Actor{ID: "op-1", Role: entity.RoleAdmin}

	st, err := f.svc.Transition(ctx, status.KindJobListing, 1, status.JobPendingApproval, company, "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if st.Code != status.JobPendingApproval {
		t.Errorf("status = %d, want %d", st.Code, status.JobPendingApproval)
	}

	_, err = f.svc.Transition(ctx, status.KindJobListing, 1, status.JobActive, company, "")
	if !errors.Is(err, workflow.ErrUnauthorized) {
		t.Fatalf("company activation error = %v, want ErrUnauthorized", err)
	}

	st, err = f.svc.Transition(ctx, status.KindJobListing, 1, status.JobActive, operator, "")
	if err != nil {
		t.Fatalf("operator activation: %v", err)
	}
	if st.Code != status.JobActive || st.Label != "Active" {
		t.Errorf("final status = %+v, want Active", st)
	}

	history, _ := f.svc.History(ctx, status.KindJobListing, 1)
	if len(history) != 2 {
		t.Fatalf("history entries = %d, want 2 (failed transitions leave no trace)", len(history))
	}
	if history[0].NewStatus != "Pending Approval" || history[1].NewStatus != "Active" {
		t.Errorf("history statuses = %q, %q", history[0].NewStatus, history[1].NewStatus)
	}
}

func TestStatusService_IllegalTransitionLeavesNoHistory(t *testing.T) {
	f := newStatusFixture()
	f.listings.listings[1] = &entity.JobListing{ID: 1, Status: status.JobDraft}
	ctx := context.Background()

	_, err := f.svc.Transition(ctx, status.KindJobListing, 1, status.JobClosed, entity.Actor{ID: "op", Role: entity.RoleAdmin}, "")
	if !errors.Is(err, workflow.ErrIllegalTransition) {
		t.Fatalf("error = %v, want ErrIllegalTransition", err)
	}

	if len(f.history.entries) != 0 {
		t.Errorf("history entries = %d, want 0", len(f.history.entries))
	}
	l, _ := f.listings.GetByID(ctx, 1)
	if l.Status != status.JobDraft {
		t.Errorf("listing status = %d, want unchanged Draft", l.Status)
	}
}

func TestStatusService_TransitionUnknownEntity(t *testing.T) {
	f := newStatusFixture()

	_, err := f.svc.Transition(context.Background(), status.KindJobListing, 42, status.JobActive, entity.Actor{ID: "op", Role: entity.RoleAdmin}, "")
	if err == nil {
		t.Fatal("Transition() on missing entity should fail")
	}
}

func TestStatusService_NormalizeDelegates(t *testing.T) {
	f := newStatusFixture()

	st := f.svc.Normalize(status.KindApplication, "no idea")
	if st.Code != status.AppRejected {
		t.Errorf("Normalize() = %d, want application fallback Rejected", st.Code)
	}
}
