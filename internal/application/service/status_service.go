package service

import (
	"context"
	"fmt"
	"time"

	"github.com/plazholdr/job-finder-sub006/internal/application/dispatcher"
	"github.com/plazholdr/job-finder-sub006/internal/application/guard"
	"github.com/plazholdr/job-finder-sub006/internal/application/port"
	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/event"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// StatusService is the sanctioned way for the CRUD layer to change an
// entity's status: it normalizes untrusted input, runs the transition guard,
// persists the result, and appends the audit record in one transaction.
type StatusService interface {
	// Normalize maps untrusted raw status input to a defined status for the
	// kind. Never fails.
	Normalize(kind status.Kind, raw any) status.Status

	// Transition moves an entity to the target status on behalf of the actor
	Transition(ctx context.Context, kind status.Kind, entityID int64, target status.Code, actor entity.Actor, reason string) (status.Status, error)

	// History returns the entity's audit trail, oldest first
	History(ctx context.Context, kind status.Kind, entityID int64) ([]*entity.HistoryEntry, error)
}

type statusServiceImpl struct {
	listings      port.ListingRepository
	applications  port.ApplicationRepository
	employment    port.EmploymentRepository
	verifications port.VerificationRepository
	history       port.HistoryRepository
	txManager     port.TransactionManager
	dispatcher    dispatcher.Dispatcher
	logger        Logger
}

// NewStatusService creates a new StatusService
func NewStatusService(
	listings port.ListingRepository,
	applications port.ApplicationRepository,
	employment port.EmploymentRepository,
	verifications port.VerificationRepository,
	history port.HistoryRepository,
	txManager port.TransactionManager,
	d dispatcher.Dispatcher,
	logger Logger,
) StatusService {
	return &statusServiceImpl{
		listings:      listings,
		applications:  applications,
		employment:    employment,
		verifications: verifications,
		history:       history,
		txManager:     txManager,
		dispatcher:    d,
		logger:        logger,
	}
}

func (s *statusServiceImpl) Normalize(kind status.Kind, raw any) status.Status {
	return status.Normalize(kind, raw)
}

func (s *statusServiceImpl) Transition(ctx context.Context, kind status.Kind, entityID int64, target status.Code, actor entity.Actor, reason string) (status.Status, error) {
	holder, err := s.load(ctx, kind, entityID)
	if err != nil {
		return status.Status{}, err
	}

	previous := holder.CurrentStatus()
	if err := guard.Transition(holder, target, actor); err != nil {
		return status.Status{}, err
	}

	now := time.Now()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.persist(txCtx, kind, entityID, holder.CurrentStatus()); err != nil {
			return fmt.Errorf("persist status: %w", err)
		}
		h := &entity.HistoryEntry{
			EntityKind:     kind,
			EntityID:       entityID,
			PreviousStatus: status.LabelOf(kind, previous),
			NewStatus:      status.LabelOf(kind, holder.CurrentStatus()),
			Action:         entity.ActionTransition,
			ActorID:        actor.ID,
			ActorRole:      actor.Role,
			Reason:         reason,
			Timestamp:      now,
		}
		if err := s.history.Create(txCtx, h); err != nil {
			return fmt.Errorf("create history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Transition failed to persist", "error", err, "kind", kind, "entity_id", entityID)
		return status.Status{}, err
	}

	s.logger.Info("Status transition", "kind", kind, "entity_id", entityID,
		"from", previous, "to", holder.CurrentStatus(), "actor", actor.ID)

	if s.dispatcher != nil {
		evt := event.NewEntityEvent(event.TypeStatusChanged, kind.String(), entityID, map[string]interface{}{
			"previous_status": status.LabelOf(kind, previous),
			"new_status":      status.LabelOf(kind, holder.CurrentStatus()),
			"actor":           actor.ID,
		})
		s.dispatcher.DispatchAsync(ctx, evt)
	}

	return status.Status{Code: holder.CurrentStatus(), Label: status.LabelOf(kind, holder.CurrentStatus())}, nil
}

func (s *statusServiceImpl) History(ctx context.Context, kind status.Kind, entityID int64) ([]*entity.HistoryEntry, error) {
	return s.history.ListByEntity(ctx, kind, entityID)
}

func (s *statusServiceImpl) load(ctx context.Context, kind status.Kind, entityID int64) (entity.StatusHolder, error) {
	switch kind {
	case status.KindJobListing:
		listing, err := s.listings.GetByID(ctx, entityID)
		if err != nil {
			return nil, fmt.Errorf("load listing %d: %w", entityID, err)
		}
		if listing == nil {
			return nil, fmt.Errorf("listing %d not found", entityID)
		}
		return listing, nil
	case status.KindApplication:
		app, err := s.applications.GetByID(ctx, entityID)
		if err != nil {
			return nil, fmt.Errorf("load application %d: %w", entityID, err)
		}
		if app == nil {
			return nil, fmt.Errorf("application %d not found", entityID)
		}
		return app, nil
	case status.KindEmployment:
		rec, err := s.employment.GetByID(ctx, entityID)
		if err != nil {
			return nil, fmt.Errorf("load employment record %d: %w", entityID, err)
		}
		if rec == nil {
			return nil, fmt.Errorf("employment record %d not found", entityID)
		}
		return rec, nil
	case status.KindCompanyVerification:
		ver, err := s.verifications.GetByID(ctx, entityID)
		if err != nil {
			return nil, fmt.Errorf("load verification %d: %w", entityID, err)
		}
		if ver == nil {
			return nil, fmt.Errorf("verification %d not found", entityID)
		}
		return ver, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func (s *statusServiceImpl) persist(ctx context.Context, kind status.Kind, entityID int64, code status.Code) error {
	switch kind {
	case status.KindJobListing:
		return s.listings.UpdateStatus(ctx, entityID, code)
	case status.KindApplication:
		return s.applications.UpdateStatus(ctx, entityID, code)
	case status.KindEmployment:
		return s.employment.UpdateStatus(ctx, entityID, code)
	case status.KindCompanyVerification:
		return s.verifications.UpdateStatus(ctx, entityID, code)
	default:
		return fmt.Errorf("unknown entity kind %q", kind)
	}
}
