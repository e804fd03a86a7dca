package domain

import (
	"time"
)

// SupportType is the coverage model a contract subscribes to: which weekdays
// are worked, how weekends and holidays are covered, which priorities get
// on-call treatment outside normal coverage, and which conditions pause the
// SLA clock. Once referenced by an active contract it is treated as
// immutable; trackings snapshot the resolved targets at creation.
type SupportType struct {
	ID               string
	Name             string
	WorkDays         []time.Weekday
	DailyWorkHours   int
	WeekendCoverage  CoverageLevel
	HolidayCoverage  CoverageLevel
	OnCallPriorities []Priority
	PauseConditions  []PauseCondition
	PriorityScope    PriorityScope
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsWorkDay reports whether the weekday belongs to the work-day set.
func (s *SupportType) IsWorkDay(day time.Weekday) bool {
	for _, d := range s.WorkDays {
		if d == day {
			return true
		}
	}
	return false
}

// OnCallEligible reports whether the priority receives on-call coverage.
func (s *SupportType) OnCallEligible(p Priority) bool {
	for _, prio := range s.OnCallPriorities {
		if prio == p {
			return true
		}
	}
	return false
}

// PausesOn reports whether the given condition is configured to stop the clock.
func (s *SupportType) PausesOn(c PauseCondition) bool {
	for _, cond := range s.PauseConditions {
		if cond == c {
			return true
		}
	}
	return false
}
