package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Shift is a daily working window in a specific timezone. EndMinute less
// than or equal to StartMinute means the window crosses local midnight.
// BreakMinutes are subtracted from the gross window when counting business
// minutes.
type Shift struct {
	ID           string
	Name         string
	StartMinute  int
	EndMinute    int
	Timezone     string
	BreakMinutes int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CrossesMidnight reports whether the window spills into the next local day.
func (s *Shift) CrossesMidnight() bool {
	return s.EndMinute <= s.StartMinute
}

// Location resolves the shift's IANA timezone.
func (s *Shift) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("shift %s: invalid timezone %q: %w", s.ID, s.Timezone, err)
	}
	return loc, nil
}

// ParseClock converts an "HH:MM" string into minutes from local midnight.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", value)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
