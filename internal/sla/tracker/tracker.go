package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/events"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/businesstime"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/calendar"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/target"
)

// ErrOutOfOrderResume is returned when a resume instant precedes the
// recorded pause instant, e.g. a replayed event arriving late. The
// transition is rejected instead of corrupting PausedMinutes.
var ErrOutOfOrderResume = errors.New("resume instant precedes pause instant")

// Engine owns SLA tracking state transitions. Every operation takes the
// evaluation instant explicitly; the engine never reads the wall clock, so
// behavior is a pure function of (tracking, ticket, schedule, now).
type Engine struct {
	lookaheadDays int
}

// NewEngine builds an engine with the given deadline lookahead cap in days.
func NewEngine(lookaheadDays int) *Engine {
	return &Engine{lookaheadDays: lookaheadDays}
}

// Evaluation collects the outcome of one engine operation: the pause
// events to append and the notification intents to emit. The tracking row
// itself is mutated in place; Changed reports whether it needs persisting.
type Evaluation struct {
	Changed     bool
	PauseEvents []domain.SLAPauseEvent
	Intents     []events.NotificationKind
}

func (e *Evaluation) emit(kind events.NotificationKind) {
	e.Intents = append(e.Intents, kind)
	e.Changed = true
}

// Create resolves targets for the ticket and, when SLA tracking is enabled
// for its priority, computes the initial deadlines and returns a new
// tracking row. The second return value is false when no tracking applies.
func (e *Engine) Create(ctx context.Context, ticket *domain.Ticket, cfg *domain.ContractConfig, src businesstime.ScheduleSource) (*domain.SLATracking, bool, error) {
	targets, enabled := target.Resolve(cfg, ticket.Priority)
	if !enabled {
		return nil, false, nil
	}

	responseDeadline, err := businesstime.AddMinutes(ctx, ticket.CreatedAt, targets.ResponseMinutes, src, targets.OnCallEligible, e.lookaheadDays)
	if err != nil {
		return nil, false, fmt.Errorf("response deadline: %w", err)
	}
	resolutionDeadline, err := businesstime.AddMinutes(ctx, ticket.CreatedAt, targets.ResolutionMinutes, src, targets.OnCallEligible, e.lookaheadDays)
	if err != nil {
		return nil, false, fmt.Errorf("resolution deadline: %w", err)
	}
	if responseDeadline.After(resolutionDeadline) {
		// Response is the tighter budget; a policy configured otherwise
		// is clamped so the invariant holds.
		responseDeadline = resolutionDeadline
	}

	tracking := &domain.SLATracking{
		TicketID:                   ticket.ID,
		ContractID:                 ticket.ContractID,
		Priority:                   ticket.Priority,
		ResponseMinutes:            targets.ResponseMinutes,
		ResolutionMinutes:          targets.ResolutionMinutes,
		WarningThreshold:           targets.WarningThreshold,
		OnCallEligible:             targets.OnCallEligible,
		ResponseDeadline:           responseDeadline,
		ResolutionDeadline:         resolutionDeadline,
		OriginalResponseDeadline:   responseDeadline,
		OriginalResolutionDeadline: resolutionDeadline,
		CreatedAt:                  ticket.CreatedAt,
	}
	return tracking, true, nil
}

// OnFirstResponse records the first agent response. Set-once: repeated
// calls are no-ops. A response after the deadline flags the response breach.
func (e *Engine) OnFirstResponse(tracking *domain.SLATracking, now time.Time) Evaluation {
	var eval Evaluation
	if tracking.RespondedAt != nil {
		return eval
	}
	respondedAt := now
	tracking.RespondedAt = &respondedAt
	eval.Changed = true
	if clockInstant(tracking, now).After(tracking.ResponseDeadline) && !tracking.BreachResponse {
		tracking.BreachResponse = true
		eval.emit(events.KindBreachResponse)
	}
	return eval
}

// OnResolve freezes resolution evaluation at the resolve instant. A
// resolution after the deadline flags the resolution breach.
func (e *Engine) OnResolve(tracking *domain.SLATracking, now time.Time) Evaluation {
	var eval Evaluation
	if tracking.ResolvedAt != nil {
		return eval
	}
	resolvedAt := now
	tracking.ResolvedAt = &resolvedAt
	eval.Changed = true
	if clockInstant(tracking, now).After(tracking.ResolutionDeadline) && !tracking.BreachResolution {
		tracking.BreachResolution = true
		eval.emit(events.KindBreachResolution)
	}
	return eval
}

// Evaluate runs pause/resume logic and then breach and warning checks at
// the given instant. It is idempotent: re-evaluating an already breached or
// warned row changes nothing. Terminal ticket statuses freeze evaluation.
func (e *Engine) Evaluate(ctx context.Context, tracking *domain.SLATracking, ticket *domain.Ticket, cfg *domain.ContractConfig, src businesstime.ScheduleSource, now time.Time) (Evaluation, error) {
	var eval Evaluation
	if ticket.Status.Terminal() && tracking.ResolvedAt != nil {
		return eval, nil
	}

	reason, paused, err := e.pauseReason(ctx, tracking, ticket, cfg, src, now)
	if err != nil {
		return eval, err
	}

	switch {
	case paused && !tracking.Paused():
		e.pause(tracking, reason, now, &eval)
	case !paused && tracking.Paused():
		if err := e.resume(ctx, tracking, src, now, &eval); err != nil {
			return eval, err
		}
	}

	// The clock is stopped while paused; deadline comparisons wait for
	// the shift applied on resume.
	if tracking.Paused() {
		return eval, nil
	}

	if err := e.checkWarning(ctx, tracking, src, now, &eval); err != nil {
		return eval, err
	}
	if tracking.ResponseOpen() && now.After(tracking.ResponseDeadline) {
		tracking.BreachResponse = true
		eval.emit(events.KindBreachResponse)
	}
	if tracking.ResolutionOpen() && now.After(tracking.ResolutionDeadline) {
		tracking.BreachResolution = true
		eval.emit(events.KindBreachResolution)
	}
	return eval, nil
}

// Reprioritize re-resolves targets after a priority change, preserving the
// business minutes already consumed. When the new priority has SLA
// disabled the existing snapshot is kept untouched.
func (e *Engine) Reprioritize(ctx context.Context, tracking *domain.SLATracking, cfg *domain.ContractConfig, priority domain.Priority, src businesstime.ScheduleSource, now time.Time) (Evaluation, error) {
	var eval Evaluation
	targets, enabled := target.Resolve(cfg, priority)
	if !enabled {
		return eval, nil
	}

	consumed, err := e.consumedMinutes(ctx, tracking, src, now)
	if err != nil {
		return eval, err
	}

	tracking.Priority = priority
	tracking.ResponseMinutes = targets.ResponseMinutes
	tracking.ResolutionMinutes = targets.ResolutionMinutes
	tracking.WarningThreshold = targets.WarningThreshold
	tracking.OnCallEligible = targets.OnCallEligible
	eval.Changed = true

	if tracking.ResponseOpen() {
		if err := e.rebaseDeadline(ctx, &tracking.ResponseDeadline, targets.ResponseMinutes-consumed, tracking.OnCallEligible, src, now); err != nil {
			return eval, err
		}
	}
	if tracking.ResolutionOpen() {
		if err := e.rebaseDeadline(ctx, &tracking.ResolutionDeadline, targets.ResolutionMinutes-consumed, tracking.OnCallEligible, src, now); err != nil {
			return eval, err
		}
	}
	clampDeadlines(tracking)
	return eval, nil
}

func (e *Engine) pause(tracking *domain.SLATracking, reason domain.PauseCondition, now time.Time, eval *Evaluation) {
	pausedAt := now
	tracking.PausedAt = &pausedAt
	tracking.PauseReason = &reason
	eval.Changed = true
	eval.PauseEvents = append(eval.PauseEvents, domain.SLAPauseEvent{
		TrackingID: tracking.ID,
		Kind:       domain.PauseEventPaused,
		Reason:     reason,
		OccurredAt: now,
	})
}

// resume closes the pause interval: the business minutes that elapsed
// while paused are excluded from the countdown, and the live deadlines are
// recomputed from the remaining budget so it is preserved exactly.
func (e *Engine) resume(ctx context.Context, tracking *domain.SLATracking, src businesstime.ScheduleSource, now time.Time, eval *Evaluation) error {
	pausedAt := *tracking.PausedAt
	if now.Before(pausedAt) {
		return fmt.Errorf("%w: paused %s, resume %s", ErrOutOfOrderResume,
			pausedAt.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	pausedBusiness, err := businesstime.ElapsedMinutesSource(ctx, pausedAt, now, src, tracking.OnCallEligible)
	if err != nil {
		return err
	}
	tracking.PausedMinutes += pausedBusiness

	reason := *tracking.PauseReason
	tracking.PausedAt = nil
	tracking.PauseReason = nil
	eval.Changed = true
	eval.PauseEvents = append(eval.PauseEvents, domain.SLAPauseEvent{
		TrackingID: tracking.ID,
		Kind:       domain.PauseEventResumed,
		Reason:     reason,
		OccurredAt: now,
		Minutes:    pausedBusiness,
	})

	if pausedBusiness == 0 {
		// Nothing was excluded, deadlines stand.
		return nil
	}

	consumed, err := e.consumedMinutes(ctx, tracking, src, now)
	if err != nil {
		return err
	}
	if tracking.ResponseOpen() {
		if err := e.rebaseDeadline(ctx, &tracking.ResponseDeadline, tracking.ResponseMinutes-consumed, tracking.OnCallEligible, src, now); err != nil {
			return err
		}
	}
	if tracking.ResolutionOpen() {
		if err := e.rebaseDeadline(ctx, &tracking.ResolutionDeadline, tracking.ResolutionMinutes-consumed, tracking.OnCallEligible, src, now); err != nil {
			return err
		}
	}
	clampDeadlines(tracking)
	return nil
}

// rebaseDeadline recomputes a deadline from now with the remaining budget.
// A non-positive remainder means the budget is already spent; the deadline
// is left in the past so the breach check trips.
func (e *Engine) rebaseDeadline(ctx context.Context, deadline *time.Time, remaining int, onCall bool, src businesstime.ScheduleSource, now time.Time) error {
	if remaining <= 0 {
		if deadline.After(now) {
			*deadline = now
		}
		return nil
	}
	rebased, err := businesstime.AddMinutes(ctx, now, remaining, src, onCall, e.lookaheadDays)
	if err != nil {
		return err
	}
	*deadline = rebased
	return nil
}

// clockInstant is the instant the countdown has actually reached: now,
// or the pause instant when the clock is stopped. Deadline comparisons on
// a paused tracking must not see wall time that consumed no budget.
func clockInstant(tracking *domain.SLATracking, now time.Time) time.Time {
	if tracking.PausedAt != nil && tracking.PausedAt.Before(now) {
		return *tracking.PausedAt
	}
	return now
}

func clampDeadlines(tracking *domain.SLATracking) {
	if tracking.ResponseDeadline.After(tracking.ResolutionDeadline) {
		tracking.ResponseDeadline = tracking.ResolutionDeadline
	}
}

func (e *Engine) checkWarning(ctx context.Context, tracking *domain.SLATracking, src businesstime.ScheduleSource, now time.Time, eval *Evaluation) error {
	if tracking.WarningSent || !tracking.ResolutionOpen() || tracking.WarningThreshold <= 0 {
		return nil
	}
	consumed, err := e.consumedMinutes(ctx, tracking, src, now)
	if err != nil {
		return err
	}
	thresholdMinutes := int(math.Ceil(tracking.WarningThreshold * float64(tracking.ResolutionMinutes)))
	if consumed >= thresholdMinutes {
		tracking.WarningSent = true
		eval.emit(events.KindWarning)
	}
	return nil
}

// consumedMinutes is the business time burned so far: elapsed covered
// minutes since creation minus everything excluded by pauses. While the
// clock is stopped the open interval has not consumed anything, so the
// evaluation end is clamped to the pause instant.
func (e *Engine) consumedMinutes(ctx context.Context, tracking *domain.SLATracking, src businesstime.ScheduleSource, now time.Time) (int, error) {
	end := now
	if tracking.PausedAt != nil && tracking.PausedAt.Before(end) {
		end = *tracking.PausedAt
	}
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

// pauseReason decides whether the clock should be stopped at the given
// instant, from ticket status and calendar conditions. Status conditions
// win over calendar ones when several apply at once.
func (e *Engine) pauseReason(ctx context.Context, tracking *domain.SLATracking, ticket *domain.Ticket, cfg *domain.ContractConfig, src businesstime.ScheduleSource, now time.Time) (domain.PauseCondition, bool, error) {
	if cond, ok := ticket.Status.PauseCondition(); ok && cfg.SupportType.PausesOn(cond) {
		return cond, true, nil
	}

	date := calendar.DateKey(now)
	if cfg.SupportType.PausesOn(domain.PauseHolidays) {
		if _, ok := cfg.HolidayOn(date); ok {
			return domain.PauseHolidays, true, nil
		}
	}
	if cfg.SupportType.PausesOn(domain.PauseWeekends) {
		if weekday := date.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
			return domain.PauseWeekends, true, nil
		}
	}
	if cfg.SupportType.PausesOn(domain.PauseOutsideBusinessHours) {
		covered, err := e.coveredAt(ctx, tracking, src, now)
		if err != nil {
			return "", false, err
		}
		if !covered {
			return domain.PauseOutsideBusinessHours, true, nil
		}
	}
	return "", false, nil
}

// coveredAt reports whether the instant falls inside a countable window.
func (e *Engine) coveredAt(ctx context.Context, tracking *domain.SLATracking, src businesstime.ScheduleSource, now time.Time) (bool, error) {
	from := calendar.DateKey(now).AddDate(0, 0, -1)
	days, err := src.DaySchedules(ctx, from, calendar.DateKey(now))
	if err != nil {
		return false, err
	}
	for _, day := range days {
		if !day.Countable(tracking.OnCallEligible) {
			continue
		}
		for _, w := range day.Windows {
			if !now.Before(w.Start) && now.Before(w.End) {
				return true, nil
			}
		}
	}
	return false, nil
}
