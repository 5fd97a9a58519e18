// Package report exports workflow state as Excel workbooks for offline
// review.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/application/port"
	"github.com/plazholdr/job-finder-sub006/internal/application/sla"
	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
)

const (
	sheetInstances = "Instances"
	sheetOverdue   = "Overdue Steps"
	sheetHistory   = "History"

	exportBatchSize = 500
)

// Exporter writes workflow instances, overdue steps, and audit history into
// a workbook.
type Exporter struct {
	instances port.InstanceRepository
	history   port.HistoryRepository
	logger    *zap.Logger
	clock     func() time.Time
}

// ExporterOption customizes exporter construction
type ExporterOption func(*Exporter)

// WithExportClock overrides the time source, for tests
func WithExportClock(clock func() time.Time) ExporterOption {
	return func(e *Exporter) { e.clock = clock }
}

// NewExporter creates a new workbook exporter
func NewExporter(instances port.InstanceRepository, history port.HistoryRepository, logger *zap.Logger, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		instances: instances,
		history:   history,
		logger:    logger,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes the current open workflow state to an xlsx file
func (e *Exporter) Export(ctx context.Context, outputPath string) error {
	instances, err := e.instances.ListOpen(ctx, exportBatchSize)
	if err != nil {
		return fmt.Errorf("failed to load open instances: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetInstances)
	if _, err := f.NewSheet(sheetOverdue); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetHistory); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	now := e.clock()
	e.fillInstances(f, instances)
	e.fillOverdue(f, instances, now)
	if err := e.fillHistory(ctx, f, instances); err != nil {
		return err
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Workbook exported",
		zap.String("output_path", outputPath),
		zap.Int("instances", len(instances)))

	return nil
}

func (e *Exporter) fillInstances(f *excelize.File, instances []*entity.WorkflowInstance) {
	headers := []interface{}{"ID", "Request Type", "Entity Kind", "Entity ID", "Status", "Requester", "Supervisor", "Created At"}
	e.writeRow(f, sheetInstances, 1, headers)

	for i, instance := range instances {
		e.writeRow(f, sheetInstances, i+2, []interface{}{
			instance.ID,
			instance.RequestType.String(),
			instance.EntityKind.String(),
			instance.EntityID,
			instance.Status.String(),
			instance.RequesterID,
			instance.SupervisorID,
			instance.CreatedAt.Format(time.RFC3339),
		})
	}
}

func (e *Exporter) fillOverdue(f *excelize.File, instances []*entity.WorkflowInstance, now time.Time) {
	headers := []interface{}{"Instance ID", "Request Type", "Step", "Assignee", "Due Date", "Days Overdue"}
	e.writeRow(f, sheetOverdue, 1, headers)

	row := 2
	for _, instance := range instances {
		eval := sla.Evaluate(instance, now)
		for _, step := range eval.OverdueSteps {
			e.writeRow(f, sheetOverdue, row, []interface{}{
				instance.ID,
				instance.RequestType.String(),
				step.Name,
				step.Assignee,
				step.DueDate.Format(time.RFC3339),
				int(now.Sub(*step.DueDate).Hours() / 24),
			})
			row++
		}
	}
}

func (e *Exporter) fillHistory(ctx context.Context, f *excelize.File, instances []*entity.WorkflowInstance) error {
	headers := []interface{}{"Instance ID", "Action", "Previous Status", "New Status", "Actor", "Role", "Reason", "Timestamp"}
	e.writeRow(f, sheetHistory, 1, headers)

	row := 2
	for _, instance := range instances {
		entries, err := e.history.ListByInstance(ctx, instance.ID)
		if err != nil {
			return fmt.Errorf("failed to load history for instance %d: %w", instance.ID, err)
		}
		for _, entry := range entries {
			e.writeRow(f, sheetHistory, row, []interface{}{
				entry.InstanceID,
				entry.Action,
				entry.PreviousStatus,
				entry.NewStatus,
				entry.ActorID,
				entry.ActorRole.String(),
				entry.Reason,
				entry.Timestamp.Format(time.RFC3339),
			})
			row++
		}
	}
	return nil
}

func (e *Exporter) writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			e.logger.Warn("Failed to set cell value",
				zap.String("sheet", sheet),
				zap.String("cell", cell),
				zap.Error(err))
		}
	}
}
