package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
	domainwf "github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

type stubInstanceRepo struct {
	open []*entity.WorkflowInstance
}

func (s *stubInstanceRepo) Create(ctx context.Context, instance *entity.WorkflowInstance) error {
	return nil
}

func (s *stubInstanceRepo) GetByID(ctx context.Context, id int64) (*entity.WorkflowInstance, error) {
	return nil, nil
}

func (s *stubInstanceRepo) GetOpenByEntity(ctx context.Context, kind status.Kind, entityID int64, requestType entity.RequestType) (*entity.WorkflowInstance, error) {
	return nil, nil
}

func (s *stubInstanceRepo) Update(ctx context.Context, instance *entity.WorkflowInstance) error {
	return nil
}

func (s *stubInstanceRepo) UpdateStep(ctx context.Context, step *entity.WorkflowStep) error {
	return nil
}

func (s *stubInstanceRepo) ListOpen(ctx context.Context, limit int) ([]*entity.WorkflowInstance, error) {
	return s.open, nil
}

type stubHistoryRepo struct {
	byInstance map[int64][]*entity.HistoryEntry
}

func (s *stubHistoryRepo) Create(ctx context.Context, h *entity.HistoryEntry) error {
	return nil
}

func (s *stubHistoryRepo) ListByInstance(ctx context.Context, instanceID int64) ([]*entity.HistoryEntry, error) {
	return s.byInstance[instanceID], nil
}

func (s *stubHistoryRepo) ListByEntity(ctx context.Context, kind status.Kind, entityID int64) ([]*entity.HistoryEntry, error) {
	return nil, nil
}

func TestExporter_WritesAllSheets(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	overdue := now.Add(-48 * time.Hour)

	instances := &stubInstanceRepo{
		open: []*entity.WorkflowInstance{
			{
				ID:          1,
				RequestType: entity.RequestTermination,
				EntityKind:  status.KindEmployment,
				EntityID:    7,
				Status:      domainwf.StateUnderReview,
				RequesterID: "student-1",
				CreatedAt:   now.Add(-72 * time.Hour),
				Steps: []*entity.WorkflowStep{
					{InstanceID: 1, Order: 0, Name: "Initial Review", Status: domainwf.StepInProgress, Assignee: "admin", DueDate: &overdue},
				},
			},
		},
	}
	history := &stubHistoryRepo{
		byInstance: map[int64][]*entity.HistoryEntry{
			1: {
				{
					InstanceID:     1,
					Action:         entity.ActionCreate,
					PreviousStatus: "",
					NewStatus:      "PENDING",
					ActorID:        "student-1",
					ActorRole:      entity.RoleStudent,
					Timestamp:      now.Add(-72 * time.Hour),
				},
			},
		},
	}

	exporter := NewExporter(instances, history, zap.NewNop(),
		WithExportClock(func() time.Time { return now }))

	outputPath := filepath.Join(t.TempDir(), "workflow.xlsx")
	require.NoError(t, exporter.Export(context.Background(), outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Instances", "Overdue Steps", "History"}, f.GetSheetList())

	requestType, err := f.GetCellValue("Instances", "B2")
	require.NoError(t, err)
	assert.Equal(t, "termination", requestType)

	stepName, err := f.GetCellValue("Overdue Steps", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Initial Review", stepName)

	daysOverdue, err := f.GetCellValue("Overdue Steps", "F2")
	require.NoError(t, err)
	assert.Equal(t, "2", daysOverdue)

	action, err := f.GetCellValue("History", "B2")
	require.NoError(t, err)
	assert.Equal(t, "CREATE", action)
}

func TestExporter_EmptyStateStillProducesWorkbook(t *testing.T) {
	exporter := NewExporter(&stubInstanceRepo{}, &stubHistoryRepo{}, zap.NewNop())

	outputPath := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, exporter.Export(context.Background(), outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Instances", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)
}
