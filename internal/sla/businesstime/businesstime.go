package businesstime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/calendar"
)

// ErrUnreachableDeadline is returned when the lookahead cap is exhausted
// before the minute budget could be consumed, e.g. a support type with no
// covered time at all. Callers must treat it as a configuration problem,
// never as a nil deadline.
var ErrUnreachableDeadline = errors.New("deadline unreachable within lookahead window")

// ScheduleSource lazily supplies resolved day schedules for a date range.
// Both bounds are inclusive civil dates (see calendar.DateKey).
type ScheduleSource interface {
	DaySchedules(ctx context.Context, from, to time.Time) ([]calendar.DaySchedule, error)
}

// extendStepDays is how far AddMinutes grows the resolved range per
// iteration when the budget is not yet exhausted.
const extendStepDays = 7

// ElapsedMinutes sums the business minutes inside [start, end) that fall
// within covered windows of the supplied schedule. ON_CALL windows count
// only when onCall is true. Sub-minute remainders truncate.
func ElapsedMinutes(start, end time.Time, days []calendar.DaySchedule, onCall bool) int {
	if !end.After(start) {
		return 0
	}
	var total time.Duration
	for _, w := range countableWindows(days, onCall) {
		lo := w.Start
		if start.After(lo) {
			lo = start
		}
		hi := w.End
		if end.Before(hi) {
			hi = end
		}
		if hi.After(lo) {
			total += hi.Sub(lo)
		}
	}
	return int(total / time.Minute)
}

// ElapsedMinutesSource is ElapsedMinutes over a lazily resolved schedule.
// The fetched range starts one day before start so midnight-crossing
// windows attributed to the previous date are included.
func ElapsedMinutesSource(ctx context.Context, start, end time.Time, src ScheduleSource, onCall bool) (int, error) {
	if !end.After(start) {
		return 0, nil
	}
	from := calendar.DateKey(start).AddDate(0, 0, -1)
	to := calendar.DateKey(end)
	days, err := src.DaySchedules(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return ElapsedMinutes(start, end, days, onCall), nil
}

// AddMinutes walks forward from start through covered windows, consuming
// budget business minutes, and returns the instant at which the budget is
// exhausted. The schedule is resolved lazily, extending the range until the
// deadline is found or maxLookaheadDays is reached.
func AddMinutes(ctx context.Context, start time.Time, budget int, src ScheduleSource, onCall bool, maxLookaheadDays int) (time.Time, error) {
	if budget < 0 {
		return time.Time{}, fmt.Errorf("negative minute budget %d", budget)
	}
	if budget == 0 {
		return start, nil
	}
	if maxLookaheadDays <= 0 {
		return time.Time{}, fmt.Errorf("non-positive lookahead %d days", maxLookaheadDays)
	}

	from := calendar.DateKey(start).AddDate(0, 0, -1)
	spanDays := extendStepDays
	for {
		if spanDays > maxLookaheadDays {
			spanDays = maxLookaheadDays
		}
		to := calendar.DateKey(start).AddDate(0, 0, spanDays)
		days, err := src.DaySchedules(ctx, from, to)
		if err != nil {
			return time.Time{}, err
		}

		candidate, ok := consume(start, budget, countableWindows(days, onCall))
		if ok {
			return exactDeadline(ctx, start, budget, src, onCall, from, candidate)
		}
		if spanDays >= maxLookaheadDays {
			return time.Time{}, fmt.Errorf("%w: %d minutes from %s",
				ErrUnreachableDeadline, budget, start.Format(time.RFC3339))
		}
		spanDays += extendStepDays
	}
}

// exactDeadline recomputes the deadline over every day that can contribute
// windows before the candidate. Shifts in different timezones can attribute
// a window starting before the candidate to a date after the range already
// walked; days beyond candidate+1 cannot reach back that far.
func exactDeadline(ctx context.Context, start time.Time, budget int, src ScheduleSource, onCall bool, from, candidate time.Time) (time.Time, error) {
	to := calendar.DateKey(candidate).AddDate(0, 0, 1)
	days, err := src.DaySchedules(ctx, from, to)
	if err != nil {
		return time.Time{}, err
	}
	deadline, ok := consume(start, budget, countableWindows(days, onCall))
	if !ok {
		return candidate, nil
	}
	return deadline, nil
}

// consume walks the merged window list consuming budget minutes after
// start. Returns the exhaustion instant, or false when the windows run out.
func consume(start time.Time, budget int, windows []calendar.Window) (time.Time, bool) {
	remaining := time.Duration(budget) * time.Minute
	cursor := start
	for _, w := range windows {
		lo := w.Start
		if cursor.After(lo) {
			lo = cursor
		}
		if !w.End.After(lo) {
			continue
		}
		avail := w.End.Sub(lo)
		if avail >= remaining {
			return lo.Add(remaining), true
		}
		remaining -= avail
		cursor = w.End
	}
	return time.Time{}, false
}

// countableWindows flattens the countable windows of the schedule and
// merges them globally, so windows attributed to different dates (midnight
// crossers, shifts in different timezones) never double-count a minute.
func countableWindows(days []calendar.DaySchedule, onCall bool) []calendar.Window {
	var windows []calendar.Window
	for _, day := range days {
		if !day.Countable(onCall) {
			continue
		}
		windows = append(windows, day.Windows...)
	}
	return calendar.MergeWindows(windows)
}
