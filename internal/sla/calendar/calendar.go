package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

// Window is a half-open [Start, End) interval of support coverage in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// DaySchedule describes one calendar date: whether it is a work day, the
// effective coverage level, and the merged shift windows active that date.
// Windows of a midnight-crossing shift are attributed to the date the shift
// starts on, split at local midnight into two same-day segments.
type DaySchedule struct {
	Date     time.Time
	WorkDay  bool
	Coverage domain.CoverageLevel
	Windows  []Window
}

// Countable reports whether minutes inside this date's windows accrue
// business time for the given on-call eligibility.
func (d DaySchedule) Countable(onCall bool) bool {
	switch d.Coverage {
	case domain.CoverageFull:
		return true
	case domain.CoverageOnCall:
		return onCall
	default:
		return false
	}
}

// DateKey normalizes an instant to its UTC civil date at midnight.
func DateKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Resolve builds one DaySchedule per calendar date in [from, to], both
// normalized via DateKey. The effective coverage for a date is FULL on a
// normal work day, the support type's weekend/holiday level on weekends and
// holidays, with a HolidayDate's own override taking precedence over the
// support type default.
func Resolve(cfg *domain.ContractConfig, from, to time.Time) ([]DaySchedule, error) {
	from = DateKey(from)
	to = DateKey(to)
	if to.Before(from) {
		return nil, fmt.Errorf("calendar range inverted: %s after %s",
			from.Format(domain.DateKeyLayout), to.Format(domain.DateKeyLayout))
	}

	days := make([]DaySchedule, 0, int(to.Sub(from).Hours()/24)+1)
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		day, err := resolveDay(cfg, date)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func resolveDay(cfg *domain.ContractConfig, date time.Time) (DaySchedule, error) {
	day := DaySchedule{
		Date:    date,
		WorkDay: cfg.SupportType.IsWorkDay(date.Weekday()),
	}
	day.Coverage = coverageFor(cfg, date, day.WorkDay)

	if day.Coverage == domain.CoverageNone {
		// Zero windows and NONE coverage contribute zero business
		// minutes regardless of work-day status.
		return day, nil
	}

	windows := make([]Window, 0, len(cfg.Shifts)*2)
	for i := range cfg.Shifts {
		shift := &cfg.Shifts[i]
		if !shift.IsActive {
			continue
		}
		segments, err := shiftWindows(shift, date)
		if err != nil {
			return DaySchedule{}, err
		}
		windows = append(windows, segments...)
	}
	day.Windows = MergeWindows(windows)
	return day, nil
}

func coverageFor(cfg *domain.ContractConfig, date time.Time, workDay bool) domain.CoverageLevel {
	if holiday, ok := cfg.HolidayOn(date); ok {
		if holiday.SupportLevel != "" {
			return holiday.SupportLevel.Coverage()
		}
		return cfg.SupportType.HolidayCoverage
	}
	if isWeekend(date.Weekday()) {
		return cfg.SupportType.WeekendCoverage
	}
	if !workDay {
		return domain.CoverageNone
	}
	return domain.CoverageFull
}

func isWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

// shiftWindows renders the shift's working window for the given civil date
// in the shift's own timezone, converted to UTC. Break minutes come off the
// tail of the window. Midnight-crossing windows are split at local midnight.
func shiftWindows(shift *domain.Shift, date time.Time) ([]Window, error) {
	loc, err := shift.Location()
	if err != nil {
		return nil, err
	}

	localDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	start := localDay.Add(time.Duration(shift.StartMinute) * time.Minute)
	end := localDay.Add(time.Duration(shift.EndMinute) * time.Minute)
	if shift.CrossesMidnight() {
		end = end.AddDate(0, 0, 1)
	}

	end = end.Add(-time.Duration(shift.BreakMinutes) * time.Minute)
	if !end.After(start) {
		return nil, nil
	}

	midnight := localDay.AddDate(0, 0, 1)
	if end.After(midnight) && start.Before(midnight) {
		return []Window{
			{Start: start.UTC(), End: midnight.UTC()},
			{Start: midnight.UTC(), End: end.UTC()},
		}, nil
	}
	return []Window{{Start: start.UTC(), End: end.UTC()}}, nil
}

// Source adapts a contract configuration into a lazily resolving schedule
// source for the business-time calculator.
type Source struct {
	cfg *domain.ContractConfig
}

// NewSource wraps the configuration.
func NewSource(cfg *domain.ContractConfig) *Source {
	return &Source{cfg: cfg}
}

// DaySchedules resolves the requested date range.
func (s *Source) DaySchedules(ctx context.Context, from, to time.Time) ([]DaySchedule, error) {
	_ = ctx
	return Resolve(s.cfg, from, to)
}

// MergeWindows sorts windows and coalesces overlapping or touching
// intervals so overlapping shifts never double-count business minutes.
func MergeWindows(windows []Window) []Window {
	if len(windows) <= 1 {
		return windows
	}
	sorted := make([]Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := sorted[:1]
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !w.Start.After(last.End) {
			if w.End.After(last.End) {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}
