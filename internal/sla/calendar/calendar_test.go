package calendar

import (
	"testing"
	"time"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

func weekdayConfig(shifts ...domain.Shift) *domain.ContractConfig {
	return &domain.ContractConfig{
		SupportType: domain.SupportType{
			WorkDays:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
			WeekendCoverage: domain.CoverageNone,
			HolidayCoverage: domain.CoverageNone,
			IsActive:        true,
		},
		Shifts:   shifts,
		Holidays: map[string]domain.HolidayDate{},
	}
}

func utcShift(start, end string) domain.Shift {
	startMin, err := domain.ParseClock(start)
	if err != nil {
		panic(err)
	}
	endMin, err := domain.ParseClock(end)
	if err != nil {
		panic(err)
	}
	return domain.Shift{ID: "shift-utc", StartMinute: startMin, EndMinute: endMin, Timezone: "UTC", IsActive: true}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveWorkWeek(t *testing.T) {
	cfg := weekdayConfig(utcShift("09:00", "17:00"))

	// Mon 2025-03-03 through Sun 2025-03-09.
	days, err := Resolve(cfg, date(2025, 3, 3), date(2025, 3, 9))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}

	for i := 0; i < 5; i++ {
		day := days[i]
		if !day.WorkDay || day.Coverage != domain.CoverageFull {
			t.Errorf("day %s: want work day with FULL coverage, got workDay=%v coverage=%s",
				day.Date.Format(domain.DateKeyLayout), day.WorkDay, day.Coverage)
		}
		if len(day.Windows) != 1 {
			t.Fatalf("day %s: expected 1 window, got %d", day.Date.Format(domain.DateKeyLayout), len(day.Windows))
		}
		if got := day.Windows[0].Duration(); got != 8*time.Hour {
			t.Errorf("day %s: window duration %v, want 8h", day.Date.Format(domain.DateKeyLayout), got)
		}
	}
	for _, day := range days[5:] {
		if day.Coverage != domain.CoverageNone {
			t.Errorf("weekend %s: coverage %s, want NONE", day.Date.Format(domain.DateKeyLayout), day.Coverage)
		}
		if day.Countable(true) || day.Countable(false) {
			t.Errorf("weekend %s must not be countable", day.Date.Format(domain.DateKeyLayout))
		}
	}
}

func TestResolveWeekendOnCall(t *testing.T) {
	cfg := weekdayConfig(utcShift("09:00", "17:00"))
	cfg.SupportType.WeekendCoverage = domain.CoverageOnCall

	days, err := Resolve(cfg, date(2025, 3, 8), date(2025, 3, 8)) // Saturday
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	day := days[0]
	if day.Coverage != domain.CoverageOnCall {
		t.Fatalf("coverage %s, want ON_CALL", day.Coverage)
	}
	if !day.Countable(true) {
		t.Error("on-call day must count for on-call-eligible priorities")
	}
	if day.Countable(false) {
		t.Error("on-call day must not count for standard priorities")
	}
}

func TestResolveHolidayOverride(t *testing.T) {
	holiday := date(2025, 3, 5) // Wednesday
	tests := []struct {
		name         string
		supportLevel domain.HolidaySupportLevel
		typeDefault  domain.CoverageLevel
		want         domain.CoverageLevel
	}{
		{"override full beats type none", domain.HolidaySupportFull, domain.CoverageNone, domain.CoverageFull},
		{"override none beats type full", domain.HolidaySupportNone, domain.CoverageFull, domain.CoverageNone},
		{"emergency only maps to on call", domain.HolidaySupportEmergencyOnly, domain.CoverageNone, domain.CoverageOnCall},
		{"empty override falls back to type default", "", domain.CoverageOnCall, domain.CoverageOnCall},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := weekdayConfig(utcShift("09:00", "17:00"))
			cfg.SupportType.HolidayCoverage = tc.typeDefault
			cfg.Holidays[holiday.Format(domain.DateKeyLayout)] = domain.HolidayDate{
				Date:         holiday,
				SupportLevel: tc.supportLevel,
			}

			days, err := Resolve(cfg, holiday, holiday)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if days[0].Coverage != tc.want {
				t.Errorf("coverage %s, want %s", days[0].Coverage, tc.want)
			}
		})
	}
}

func TestShiftTimezoneConversion(t *testing.T) {
	shift := domain.Shift{ID: "ist", StartMinute: 9 * 60, EndMinute: 17 * 60, Timezone: "Asia/Kolkata", IsActive: true}
	cfg := weekdayConfig(shift)

	days, err := Resolve(cfg, date(2025, 3, 3), date(2025, 3, 3))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(days[0].Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(days[0].Windows))
	}
	w := days[0].Windows[0]
	// 09:00 IST is 03:30 UTC.
	wantStart := time.Date(2025, 3, 3, 3, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 3, 3, 11, 30, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) || !w.End.Equal(wantEnd) {
		t.Errorf("window [%v, %v), want [%v, %v)", w.Start, w.End, wantStart, wantEnd)
	}
}

func TestShiftBreakComesOffTail(t *testing.T) {
	shift := utcShift("09:00", "17:00")
	shift.BreakMinutes = 60
	cfg := weekdayConfig(shift)

	days, err := Resolve(cfg, date(2025, 3, 3), date(2025, 3, 3))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	w := days[0].Windows[0]
	wantEnd := time.Date(2025, 3, 3, 16, 0, 0, 0, time.UTC)
	if !w.End.Equal(wantEnd) {
		t.Errorf("window end %v, want %v", w.End, wantEnd)
	}
}

func TestMidnightCrossingShiftSplits(t *testing.T) {
	// 22:00 to 06:00 next day.
	shift := utcShift("22:00", "06:00")
	cfg := weekdayConfig(shift)
	cfg.SupportType.WorkDays = append(cfg.SupportType.WorkDays, time.Saturday, time.Sunday)
	cfg.SupportType.WeekendCoverage = domain.CoverageFull

	days, err := Resolve(cfg, date(2025, 3, 3), date(2025, 3, 3))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	windows := days[0].Windows
	if len(windows) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(windows))
	}
	midnight := date(2025, 3, 4)
	if !windows[0].End.Equal(midnight) || !windows[1].Start.Equal(midnight) {
		t.Errorf("segments must split at midnight: [%v, %v) and [%v, %v)",
			windows[0].Start, windows[0].End, windows[1].Start, windows[1].End)
	}
	total := windows[0].Duration() + windows[1].Duration()
	if total != 8*time.Hour {
		t.Errorf("total duration %v, want 8h", total)
	}
}

func TestInactiveShiftIgnored(t *testing.T) {
	shift := utcShift("09:00", "17:00")
	shift.IsActive = false
	cfg := weekdayConfig(shift)

	days, err := Resolve(cfg, date(2025, 3, 3), date(2025, 3, 3))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(days[0].Windows) != 0 {
		t.Errorf("inactive shift must contribute no windows, got %d", len(days[0].Windows))
	}
}

func TestMergeWindows(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 3, 3, h, 0, 0, 0, time.UTC) }
	tests := []struct {
		name string
		in   []Window
		want []Window
	}{
		{
			"overlapping coalesce",
			[]Window{{at(9), at(13)}, {at(12), at(17)}},
			[]Window{{at(9), at(17)}},
		},
		{
			"touching coalesce",
			[]Window{{at(9), at(12)}, {at(12), at(17)}},
			[]Window{{at(9), at(17)}},
		},
		{
			"disjoint stay apart",
			[]Window{{at(14), at(17)}, {at(9), at(12)}},
			[]Window{{at(9), at(12)}, {at(14), at(17)}},
		},
		{
			"contained absorbed",
			[]Window{{at(9), at(17)}, {at(10), at(11)}},
			[]Window{{at(9), at(17)}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeWindows(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d windows, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if !got[i].Start.Equal(tc.want[i].Start) || !got[i].End.Equal(tc.want[i].End) {
					t.Errorf("window %d: [%v, %v), want [%v, %v)",
						i, got[i].Start, got[i].End, tc.want[i].Start, tc.want[i].End)
				}
			}
		})
	}
}

func TestResolveRejectsInvertedRange(t *testing.T) {
	cfg := weekdayConfig(utcShift("09:00", "17:00"))
	if _, err := Resolve(cfg, date(2025, 3, 10), date(2025, 3, 3)); err == nil {
		t.Fatal("expected error for inverted range")
	}
}
