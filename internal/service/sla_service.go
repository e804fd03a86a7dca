package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/events"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/observability"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/persistence"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/repository"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/businesstime"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/calendar"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/tracker"
)

// versionConflictRetries bounds the re-read-and-retry loop when a sweep and
// a request-triggered update race on the same tracking row.
const versionConflictRetries = 3

// SLAService orchestrates the SLA engine: it resolves contract
// configuration, drives the tracker state machine, persists trackings and
// pause events, and publishes notification intents.
type SLAService struct {
	engine      *tracker.Engine
	contracts   repository.ContractRepository
	trackings   repository.SLATrackingRepository
	pauseEvents repository.PauseEventRepository
	tickets     repository.TicketRepository
	cache       *persistence.ScheduleCache
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// SLADependencies bundles collaborators for the SLA service.
type SLADependencies struct {
	Engine       *tracker.Engine
	ContractRepo repository.ContractRepository
	TrackingRepo repository.SLATrackingRepository
	PauseRepo    repository.PauseEventRepository
	TicketRepo   repository.TicketRepository
	Cache        *persistence.ScheduleCache
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Metrics      *observability.Metrics
}

// NewSLAService constructs the service.
func NewSLAService(deps SLADependencies) *SLAService {
	return &SLAService{
		engine:      deps.Engine,
		contracts:   deps.ContractRepo,
		trackings:   deps.TrackingRepo,
		pauseEvents: deps.PauseRepo,
		tickets:     deps.TicketRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
	}
}

// TrackTicket creates the SLA tracking row for a freshly created ticket.
// Missing or inconsistent contract configuration skips tracking with a
// warning; it never fails ticket creation. Returns nil when SLA is
// disabled for the ticket's priority.
func (s *SLAService) TrackTicket(ctx context.Context, ticket *domain.Ticket) (*domain.SLATracking, error) {
	cfg, err := s.contracts.GetConfig(ctx, ticket.ContractID)
	if err != nil {
		s.logger.Warn("sla tracking skipped: contract configuration unavailable",
			zap.String("ticket_id", ticket.ID),
			zap.String("contract_id", ticket.ContractID),
			zap.Error(err))
		return nil, nil
	}

	src := s.scheduleSource(ticket.ContractID, cfg)
	tracking, enabled, err := s.engine.Create(ctx, ticket, cfg, src)
	if err != nil {
		if errors.Is(err, businesstime.ErrUnreachableDeadline) {
			s.logger.Error("sla tracking skipped: deadline unreachable",
				zap.String("ticket_id", ticket.ID),
				zap.String("contract_id", ticket.ContractID),
				zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	if !enabled {
		return nil, nil
	}

	if err := s.trackings.Create(ctx, tracking); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventSLATrackingCreated,
		TicketID: ticket.ID,
		Payload: events.TrackingCreatedPayload{
			TrackingID:         tracking.ID,
			Priority:           tracking.Priority,
			ResponseDeadline:   tracking.ResponseDeadline,
			ResolutionDeadline: tracking.ResolutionDeadline,
		},
	})
	return tracking, nil
}

// RecordFirstResponse marks the first agent response on the tracking.
func (s *SLAService) RecordFirstResponse(ctx context.Context, ticket *domain.Ticket, now time.Time) error {
	return s.mutate(ctx, ticket, now, func(tr *domain.SLATracking, _ *domain.ContractConfig, _ businesstime.ScheduleSource) (tracker.Evaluation, error) {
		return s.engine.OnFirstResponse(tr, now), nil
	})
}

// ResolveTicket freezes resolution evaluation at the resolve instant.
func (s *SLAService) ResolveTicket(ctx context.Context, ticket *domain.Ticket, now time.Time) error {
	return s.mutate(ctx, ticket, now, func(tr *domain.SLATracking, _ *domain.ContractConfig, _ businesstime.ScheduleSource) (tracker.Evaluation, error) {
		return s.engine.OnResolve(tr, now), nil
	})
}

// EvaluateTicket re-runs pause and breach logic for one ticket, e.g. after
// a status change flips a waiting condition.
func (s *SLAService) EvaluateTicket(ctx context.Context, ticket *domain.Ticket, now time.Time) error {
	return s.mutate(ctx, ticket, now, func(tr *domain.SLATracking, cfg *domain.ContractConfig, src businesstime.ScheduleSource) (tracker.Evaluation, error) {
		return s.engine.Evaluate(ctx, tr, ticket, cfg, src, now)
	})
}

// Reprioritize rebases budgets and deadlines after a priority change.
func (s *SLAService) Reprioritize(ctx context.Context, ticket *domain.Ticket, now time.Time) error {
	return s.mutate(ctx, ticket, now, func(tr *domain.SLATracking, cfg *domain.ContractConfig, src businesstime.ScheduleSource) (tracker.Evaluation, error) {
		return s.engine.Reprioritize(ctx, tr, cfg, ticket.Priority, src, now)
	})
}

// GetTracking returns the tracking row for a ticket, nil when SLA is
// disabled for it.
func (s *SLAService) GetTracking(ctx context.Context, ticketID string) (*domain.SLATracking, error) {
	tracking, err := s.trackings.GetByTicket(ctx, ticketID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return tracking, nil
}

// PauseHistory returns the append-only pause log for a tracking.
func (s *SLAService) PauseHistory(ctx context.Context, trackingID string) ([]domain.SLAPauseEvent, error) {
	return s.pauseEvents.ListByTracking(ctx, trackingID)
}

// RemainingMinutes computes the business-minute remainders of both
// budgets at the given instant. Negative values mean overdue. The response
// remainder freezes once the first response is recorded.
func (s *SLAService) RemainingMinutes(ctx context.Context, tracking *domain.SLATracking, asOf time.Time) (response, resolution int, err error) {
	cfg, err := s.contracts.GetConfig(ctx, tracking.ContractID)
	if err != nil {
		return 0, 0, err
	}
	src := s.scheduleSource(tracking.ContractID, cfg)

	end := asOf
	if tracking.PausedAt != nil && tracking.PausedAt.Before(end) {
		end = *tracking.PausedAt
	}
	consumed, err := s.consumedBetween(ctx, tracking, end, src)
	if err != nil {
		return 0, 0, err
	}

	// The response sub-SLA freezes at the first response; its remainder
	// must not keep counting down afterwards.
	consumedResponse := consumed
	if tracking.RespondedAt != nil && tracking.RespondedAt.Before(end) {
		consumedResponse, err = s.consumedBetween(ctx, tracking, *tracking.RespondedAt, src)
		if err != nil {
			return 0, 0, err
		}
	}
	return tracking.ResponseMinutes - consumedResponse, tracking.ResolutionMinutes - consumed, nil
}

func (s *SLAService) consumedBetween(ctx context.Context, tracking *domain.SLATracking, end time.Time, src businesstime.ScheduleSource) (int, error) {
	elapsed, err := businesstime.ElapsedMinutesSource(ctx, tracking.CreatedAt, end, src, tracking.OnCallEligible)
	if err != nil {
		return 0, err
	}
	consumed := elapsed - tracking.PausedMinutes
	if consumed < 0 {
		consumed = 0
	}
	return consumed, nil
}

// mutation applies one engine operation to a loaded tracking row.
type mutation func(tr *domain.SLATracking, cfg *domain.ContractConfig, src businesstime.ScheduleSource) (tracker.Evaluation, error)

// mutate loads the ticket's tracking row, applies the operation and
// persists the result under optimistic concurrency, re-reading and
// retrying on version conflicts. Pause events are appended and intents
// published only after the row update sticks; a failed publish is logged
// and never rolls back the flags.
func (s *SLAService) mutate(ctx context.Context, ticket *domain.Ticket, now time.Time, op mutation) error {
	tracking, err := s.GetTracking(ctx, ticket.ID)
	if err != nil {
		return err
	}
	if tracking == nil {
		return nil
	}

	cfg, err := s.contracts.GetConfig(ctx, tracking.ContractID)
	if err != nil {
		return err
	}
	src := s.scheduleSource(tracking.ContractID, cfg)

	for attempt := 0; ; attempt++ {
		eval, err := op(tracking, cfg, src)
		if err != nil {
			return err
		}
		if !eval.Changed {
			return nil
		}

		err = s.trackings.Update(ctx, tracking)
		if err == nil {
			s.recordOutcome(ctx, tracking, ticket.ID, eval, now)
			return nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) || attempt >= versionConflictRetries {
			return err
		}

		fresh, err := s.trackings.GetByID(ctx, tracking.ID)
		if err != nil {
			return err
		}
		tracking = fresh
	}
}

func (s *SLAService) recordOutcome(ctx context.Context, tracking *domain.SLATracking, ticketID string, eval tracker.Evaluation, now time.Time) {
	for i := range eval.PauseEvents {
		event := eval.PauseEvents[i]
		event.TrackingID = tracking.ID
		if err := s.pauseEvents.Append(ctx, &event); err != nil {
			s.logger.Error("appending pause event failed",
				zap.String("tracking_id", tracking.ID),
				zap.String("kind", string(event.Kind)),
				zap.Error(err))
			continue
		}
		eventType := events.EventSLAPaused
		if event.Kind == domain.PauseEventResumed {
			eventType = events.EventSLAResumed
		}
		s.publish(ctx, events.Event{
			Type:     eventType,
			TicketID: ticketID,
			Payload: events.PauseStatePayload{
				TrackingID:    tracking.ID,
				Reason:        event.Reason,
				OccurredAt:    event.OccurredAt,
				PausedMinutes: tracking.PausedMinutes,
			},
		})
	}

	for _, kind := range eval.Intents {
		s.metrics.RecordIntent(string(kind))
		s.publish(ctx, events.Event{
			Type:     events.EventSLANotification,
			TicketID: ticketID,
			Payload: events.Intent{
				TrackingID: tracking.ID,
				TicketID:   ticketID,
				Kind:       kind,
				Snapshot:   *tracking,
				EmittedAt:  now,
			},
		})
	}
}

func (s *SLAService) scheduleSource(contractID string, cfg *domain.ContractConfig) businesstime.ScheduleSource {
	return s.cache.Wrap(contractID, calendar.NewSource(cfg))
}

func (s *SLAService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
