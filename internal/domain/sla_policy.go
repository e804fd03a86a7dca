package domain

import "time"

// PolicyTarget holds the minute budgets for one priority level.
type PolicyTarget struct {
	ResponseMinutes   int
	ResolutionMinutes int
	Enabled           bool
}

// SLAPolicy defines per-priority response/resolution budgets plus the
// warning threshold fraction at which an early-warning notification fires.
type SLAPolicy struct {
	ID               string
	Name             string
	Targets          map[Priority]PolicyTarget
	WarningThreshold float64
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Target returns the budgets for a priority and whether the policy defines it.
func (p *SLAPolicy) Target(priority Priority) (PolicyTarget, bool) {
	target, ok := p.Targets[priority]
	return target, ok
}
