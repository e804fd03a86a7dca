package businesstime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/calendar"
)

func nineToFiveConfig() *domain.ContractConfig {
	return &domain.ContractConfig{
		SupportType: domain.SupportType{
			WorkDays:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
			WeekendCoverage: domain.CoverageNone,
			HolidayCoverage: domain.CoverageNone,
			IsActive:        true,
		},
		Shifts: []domain.Shift{
			{ID: "day", StartMinute: 9 * 60, EndMinute: 17 * 60, Timezone: "UTC", IsActive: true},
		},
		Holidays: map[string]domain.HolidayDate{},
	}
}

func TestElapsedMinutesWithinDay(t *testing.T) {
	src := calendar.NewSource(nineToFiveConfig())
	ctx := context.Background()

	// Monday 2025-03-03.
	start := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 3, 12, 30, 0, 0, time.UTC)

	got, err := ElapsedMinutesSource(ctx, start, end, src, false)
	if err != nil {
		t.Fatalf("ElapsedMinutesSource: %v", err)
	}
	if got != 150 {
		t.Errorf("elapsed %d, want 150", got)
	}
}

func TestElapsedMinutesSkipsClosedTime(t *testing.T) {
	src := calendar.NewSource(nineToFiveConfig())
	ctx := context.Background()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			"overnight counts only open hours",
			time.Date(2025, 3, 3, 16, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
			120,
		},
		{
			"weekend contributes nothing",
			time.Date(2025, 3, 7, 17, 0, 0, 0, time.UTC), // Friday close
			time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), // Monday open
			0,
		},
		{
			"entirely before opening",
			time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
			0,
		},
		{
			"sub-minute remainder truncates",
			time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 3, 10, 5, 30, 0, time.UTC),
			5,
		},
		{
			"end before start",
			time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
			0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ElapsedMinutesSource(ctx, tc.start, tc.end, src, false)
			if err != nil {
				t.Fatalf("ElapsedMinutesSource: %v", err)
			}
			if got != tc.want {
				t.Errorf("elapsed %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAddMinutesSameDay(t *testing.T) {
	src := calendar.NewSource(nineToFiveConfig())
	ctx := context.Background()

	start := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	got, err := AddMinutes(ctx, start, 120, src, false, 30)
	if err != nil {
		t.Fatalf("AddMinutes: %v", err)
	}
	want := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("deadline %v, want %v", got, want)
	}
}

func TestAddMinutesSpansWeekend(t *testing.T) {
	src := calendar.NewSource(nineToFiveConfig())
	ctx := context.Background()

	// Friday 2025-03-07 16:00, 240 minute budget: 60 left on Friday,
	// the remaining 180 land Monday morning.
	start := time.Date(2025, 3, 7, 16, 0, 0, 0, time.UTC)
	got, err := AddMinutes(ctx, start, 240, src, false, 30)
	if err != nil {
		t.Fatalf("AddMinutes: %v", err)
	}
	want := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("deadline %v, want %v", got, want)
	}
}

func TestAddMinutesStartOutsideCoverage(t *testing.T) {
	src := calendar.NewSource(nineToFiveConfig())
	ctx := context.Background()

	// Saturday start: budget must begin consuming Monday 09:00.
	start := time.Date(2025, 3, 8, 14, 0, 0, 0, time.UTC)
	got, err := AddMinutes(ctx, start, 60, src, false, 30)
	if err != nil {
		t.Fatalf("AddMinutes: %v", err)
	}
	want := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("deadline %v, want %v", got, want)
	}
}

func TestAddMinutesZeroBudget(t *testing.T) {
	src := calendar.NewSource(nineToFiveConfig())
	start := time.Date(2025, 3, 8, 14, 0, 0, 0, time.UTC)

	got, err := AddMinutes(context.Background(), start, 0, src, false, 30)
	if err != nil {
		t.Fatalf("AddMinutes: %v", err)
	}
	if !got.Equal(start) {
		t.Errorf("zero budget must return start unchanged, got %v", got)
	}
}

func TestAddMinutesNegativeBudget(t *testing.T) {
	src := calendar.NewSource(nineToFiveConfig())
	if _, err := AddMinutes(context.Background(), time.Now(), -5, src, false, 30); err == nil {
		t.Fatal("expected error for negative budget")
	}
}

func TestAddMinutesUnreachable(t *testing.T) {
	cfg := nineToFiveConfig()
	cfg.SupportType.WorkDays = nil // no coverage at all
	src := calendar.NewSource(cfg)

	start := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	_, err := AddMinutes(context.Background(), start, 60, src, false, 30)
	if !errors.Is(err, ErrUnreachableDeadline) {
		t.Fatalf("expected ErrUnreachableDeadline, got %v", err)
	}
}

func TestOnCallCoverage(t *testing.T) {
	cfg := nineToFiveConfig()
	cfg.SupportType.WeekendCoverage = domain.CoverageOnCall
	src := calendar.NewSource(cfg)
	ctx := context.Background()

	// Saturday 2025-03-08 inside the shift window.
	start := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)

	onCall, err := ElapsedMinutesSource(ctx, start, end, src, true)
	if err != nil {
		t.Fatalf("ElapsedMinutesSource: %v", err)
	}
	if onCall != 120 {
		t.Errorf("on-call elapsed %d, want 120", onCall)
	}

	standard, err := ElapsedMinutesSource(ctx, start, end, src, false)
	if err != nil {
		t.Fatalf("ElapsedMinutesSource: %v", err)
	}
	if standard != 0 {
		t.Errorf("standard elapsed %d, want 0", standard)
	}
}

func TestAddElapsedRoundTrip(t *testing.T) {
	cfg := nineToFiveConfig()
	cfg.Shifts = append(cfg.Shifts, domain.Shift{
		ID: "ist", StartMinute: 9 * 60, EndMinute: 17 * 60, Timezone: "Asia/Kolkata", IsActive: true,
	})
	src := calendar.NewSource(cfg)
	ctx := context.Background()

	start := time.Date(2025, 3, 6, 15, 0, 0, 0, time.UTC) // Thursday afternoon
	for _, budget := range []int{1, 30, 240, 480, 2000} {
		deadline, err := AddMinutes(ctx, start, budget, src, false, 60)
		if err != nil {
			t.Fatalf("AddMinutes(%d): %v", budget, err)
		}
		elapsed, err := ElapsedMinutesSource(ctx, start, deadline, src, false)
		if err != nil {
			t.Fatalf("ElapsedMinutesSource(%d): %v", budget, err)
		}
		if elapsed != budget {
			t.Errorf("budget %d: round trip elapsed %d", budget, elapsed)
		}
	}
}

func TestAddMinutesMonotonic(t *testing.T) {
	src := calendar.NewSource(nineToFiveConfig())
	ctx := context.Background()

	start := time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)
	var prev time.Time
	for _, budget := range []int{10, 60, 480, 960, 2400} {
		deadline, err := AddMinutes(ctx, start, budget, src, false, 60)
		if err != nil {
			t.Fatalf("AddMinutes(%d): %v", budget, err)
		}
		if !prev.IsZero() && !deadline.After(prev) {
			t.Errorf("budget %d: deadline %v not after previous %v", budget, deadline, prev)
		}
		prev = deadline
	}
}
