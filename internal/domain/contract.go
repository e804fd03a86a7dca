package domain

import "time"

// Contract binds a customer to one SupportType, one SLAPolicy, one or more
// Shifts and zero-or-more HolidayCalendars. The multipliers are retained for
// billing only and never enter SLA math. Contracts are immutable after
// creation, so a ticket's configuration is fixed for its lifetime.
type Contract struct {
	ID                   string
	CustomerID           string
	Name                 string
	SupportTypeID        string
	SLAPolicyID          string
	ShiftIDs             []string
	HolidayCalendarIDs   []string
	AfterHoursMultiplier float64
	WeekendMultiplier    float64
	IsActive             bool
	CreatedAt            time.Time
}

// ContractConfig is the fully resolved read model the SLA engine works with:
// the contract plus its referenced support type, policy, active shifts and
// the union of holiday dates from all attached calendars keyed by
// YYYY-MM-DD.
type ContractConfig struct {
	Contract    Contract
	SupportType SupportType
	Policy      SLAPolicy
	Shifts      []Shift
	Holidays    map[string]HolidayDate
}

// HolidayOn returns the holiday entry for the given date, if any.
func (c *ContractConfig) HolidayOn(date time.Time) (HolidayDate, bool) {
	holiday, ok := c.Holidays[date.Format(DateKeyLayout)]
	return holiday, ok
}
