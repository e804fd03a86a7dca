package domain

// CoverageLevel describes how much support is available in a time window.
type CoverageLevel string

const (
	CoverageNone   CoverageLevel = "NONE"
	CoverageOnCall CoverageLevel = "ON_CALL"
	CoverageFull   CoverageLevel = "FULL"
)

// Valid reports whether the level is a known coverage level.
func (l CoverageLevel) Valid() bool {
	switch l {
	case CoverageNone, CoverageOnCall, CoverageFull:
		return true
	}
	return false
}

// HolidaySupportLevel is the per-date support override on a holiday.
type HolidaySupportLevel string

const (
	HolidaySupportNone          HolidaySupportLevel = "NONE"
	HolidaySupportEmergencyOnly HolidaySupportLevel = "EMERGENCY_ONLY"
	HolidaySupportFull          HolidaySupportLevel = "FULL"
)

// Coverage maps the holiday support level onto a coverage level.
// EMERGENCY_ONLY grants on-call coverage: only on-call-eligible
// priorities accrue business time during such a date.
func (l HolidaySupportLevel) Coverage() CoverageLevel {
	switch l {
	case HolidaySupportFull:
		return CoverageFull
	case HolidaySupportEmergencyOnly:
		return CoverageOnCall
	default:
		return CoverageNone
	}
}

// PauseCondition enumerates circumstances under which the SLA clock stops.
type PauseCondition string

const (
	PauseOutsideBusinessHours PauseCondition = "OUTSIDE_BUSINESS_HOURS"
	PauseWeekends             PauseCondition = "WEEKENDS"
	PauseHolidays             PauseCondition = "HOLIDAYS"
	PauseWaitingCustomer      PauseCondition = "WAITING_CUSTOMER"
	PauseCustomerHold         PauseCondition = "CUSTOMER_HOLD"
)

// Valid reports whether the condition is a known pause condition.
func (c PauseCondition) Valid() bool {
	switch c {
	case PauseOutsideBusinessHours, PauseWeekends, PauseHolidays,
		PauseWaitingCustomer, PauseCustomerHold:
		return true
	}
	return false
}
