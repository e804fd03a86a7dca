package domain

import "time"

// DateKeyLayout is the canonical YYYY-MM-DD key for calendar dates.
const DateKeyLayout = "2006-01-02"

// HolidayCalendar is a named set of dates, scoped to a country and year,
// attachable to a contract.
type HolidayCalendar struct {
	ID        string
	Name      string
	Country   string
	Year      int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HolidayDate is one calendar date with its own support level override.
type HolidayDate struct {
	ID           string
	CalendarID   string
	Name         string
	Date         time.Time
	SupportLevel HolidaySupportLevel
}

// Key returns the date's YYYY-MM-DD key.
func (h *HolidayDate) Key() string {
	return h.Date.Format(DateKeyLayout)
}
