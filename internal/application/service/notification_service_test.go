package service

import (
	"context"
	"errors"
	"testing"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
)

type mockNotificationRepo struct {
	pending []*entity.Notification
	sent    []int64
	failed  []int64
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	m.pending = append(m.pending, n)
	return nil
}

func (m *mockNotificationRepo) ListByInstance(ctx context.Context, instanceID int64) ([]*entity.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) ListPending(ctx context.Context, limit int) ([]*entity.Notification, error) {
	if limit > len(m.pending) {
		limit = len(m.pending)
	}
	return m.pending[:limit], nil
}

func (m *mockNotificationRepo) MarkSent(ctx context.Context, id int64) error {
	m.sent = append(m.sent, id)
	return nil
}

func (m *mockNotificationRepo) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	m.failed = append(m.failed, id)
	return nil
}

type mockDispatcherPort struct {
	dispatchFunc func(ctx context.Context, n *entity.Notification) error
	dispatched   []*entity.Notification
}

func (m *mockDispatcherPort) Dispatch(ctx context.Context, n *entity.Notification) error {
	if m.dispatchFunc != nil {
		if err := m.dispatchFunc(ctx, n); err != nil {
			return err
		}
	}
	m.dispatched = append(m.dispatched, n)
	return nil
}

func TestNotificationService_FlushPending(t *testing.T) {
	repo := &mockNotificationRepo{pending: []*entity.Notification{
		{ID: 1, Recipient: "student-1", Status: entity.NotificationStatusPending},
		{ID: 2, Recipient: "sup-1", Status: entity.NotificationStatusPending},
	}}
	dp := &mockDispatcherPort{}
	svc := NewNotificationService(repo, dp, noopLogger{})

	sent, err := svc.FlushPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("FlushPending() error = %v", err)
	}
	if sent != 2 {
		t.Errorf("sent = %d, want 2", sent)
	}
	if len(repo.sent) != 2 {
		t.Errorf("marked sent = %d, want 2", len(repo.sent))
	}
}

func TestNotificationService_DispatchFailureMarksFailed(t *testing.T) {
	repo := &mockNotificationRepo{pending: []*entity.Notification{
		{ID: 1, Recipient: "student-1", Status: entity.NotificationStatusPending},
		{ID: 2, Recipient: "sup-1", Status: entity.NotificationStatusPending},
	}}
	dp := &mockDispatcherPort{
		dispatchFunc: func(ctx context.Context, n *entity.Notification) error {
			if n.ID == 1 {
				return errors.New("downstream unavailable")
			}
			return nil
		},
	}
	svc := NewNotificationService(repo, dp, noopLogger{})

	sent, err := svc.FlushPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("FlushPending() error = %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if len(repo.failed) != 1 || repo.failed[0] != 1 {
		t.Errorf("marked failed = %v, want [1]", repo.failed)
	}
}

func TestNotificationService_RespectsLimit(t *testing.T) {
	repo := &mockNotificationRepo{pending: []*entity.Notification{
		{ID: 1}, {ID: 2}, {ID: 3},
	}}
	dp := &mockDispatcherPort{}
	svc := NewNotificationService(repo, dp, noopLogger{})

	sent, err := svc.FlushPending(context.Background(), 2)
	if err != nil {
		t.Fatalf("FlushPending() error = %v", err)
	}
	if sent != 2 {
		t.Errorf("sent = %d, want 2", sent)
	}
}
