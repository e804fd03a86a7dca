package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/repository"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/businesstime"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/tracker"
)

// sweepPageSize bounds a single page of trackings read per sweep iteration.
const sweepPageSize = 200

// Sweep re-evaluates every open tracking at the given instant: pause
// transitions, breach flags and warning intents. Each row is processed
// independently; one row's failure is logged and retried next cycle, never
// aborting the batch.
func (s *SLAService) Sweep(ctx context.Context, now time.Time) error {
	processed, failed := 0, 0
	var cursor repository.SweepCursor
	for {
		page, err := s.trackings.ListOpen(ctx, cursor, sweepPageSize)
		if err != nil {
			s.metrics.RecordSweep(processed, failed)
			return err
		}
		if len(page) == 0 {
			break
		}
		for i := range page {
			processed++
			if err := s.sweepRow(ctx, &page[i], now); err != nil {
				failed++
				s.logger.Error("sweep row failed",
					zap.String("tracking_id", page[i].ID),
					zap.String("ticket_id", page[i].TicketID),
					zap.Error(err))
			}
		}
		last := page[len(page)-1]
		cursor = repository.SweepCursor{CreatedAt: last.CreatedAt, ID: last.ID}
		if len(page) < sweepPageSize {
			break
		}
	}

	s.metrics.RecordSweep(processed, failed)
	s.logger.Info("sla sweep completed",
		zap.Int("processed", processed),
		zap.Int("failed", failed),
		zap.Time("as_of", now))
	return nil
}

func (s *SLAService) sweepRow(ctx context.Context, tracking *domain.SLATracking, now time.Time) error {
	ticket, err := s.tickets.GetByID(ctx, tracking.TicketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("tracking without ticket", zap.String("tracking_id", tracking.ID))
			return nil
		}
		return err
	}

	if err := s.reconcilePausedMinutes(ctx, tracking); err != nil {
		return err
	}

	// A terminal ticket whose tracking never froze (e.g. a missed status
	// event) is frozen here instead of evaluated further.
	if ticket.Status.Terminal() && tracking.ResolvedAt == nil {
		return s.mutate(ctx, ticket, now, func(tr *domain.SLATracking, _ *domain.ContractConfig, _ businesstime.ScheduleSource) (tracker.Evaluation, error) {
			return s.engine.OnResolve(tr, terminalInstant(ticket, now)), nil
		})
	}

	return s.EvaluateTicket(ctx, ticket, now)
}

// reconcilePausedMinutes rebuilds paused_minutes from the append-only
// pause log when the denormalized counter has drifted, e.g. after a crash
// between the event append and the row update. Only closed intervals are
// compared, so a currently paused row is left alone. A version conflict is
// ignored; the next cycle reconciles again.
func (s *SLAService) reconcilePausedMinutes(ctx context.Context, tracking *domain.SLATracking) error {
	if tracking.Paused() {
		return nil
	}
	total, err := s.pauseEvents.PausedMinutesTotal(ctx, tracking.ID)
	if err != nil {
		return err
	}
	if total == tracking.PausedMinutes {
		return nil
	}
	s.logger.Warn("paused minutes drifted from pause log",
		zap.String("tracking_id", tracking.ID),
		zap.Int("row", tracking.PausedMinutes),
		zap.Int("log", total))
	tracking.PausedMinutes = total
	if err := s.trackings.Update(ctx, tracking); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil
		}
		return err
	}
	return nil
}

func terminalInstant(ticket *domain.Ticket, fallback time.Time) time.Time {
	if ticket.ResolvedAt != nil {
		return *ticket.ResolvedAt
	}
	if ticket.ClosedAt != nil {
		return *ticket.ClosedAt
	}
	return fallback
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
