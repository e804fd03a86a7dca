package domain

import "time"

// TrackingState is the derived SLA state for a tracking row.
type TrackingState string

const (
	TrackingStateActive             TrackingState = "ACTIVE"
	TrackingStateResponseBreached   TrackingState = "RESPONSE_BREACHED"
	TrackingStateResolutionBreached TrackingState = "RESOLUTION_BREACHED"
)

// SLATracking owns the per-ticket SLA record: snapshotted targets, live and
// original deadlines, breach flags and pause accounting. Targets are
// snapshotted from the governing policy at ticket creation, so later edits
// to referenced configuration never change an open ticket's deadlines.
//
// Invariants: ResponseDeadline <= ResolutionDeadline; breach flags are
// one-way (never unset); PausedMinutes only grows.
type SLATracking struct {
	ID         string
	TicketID   string
	ContractID string
	Priority   Priority

	ResponseMinutes   int
	ResolutionMinutes int
	WarningThreshold  float64
	OnCallEligible    bool

	ResponseDeadline           time.Time
	ResolutionDeadline         time.Time
	OriginalResponseDeadline   time.Time
	OriginalResolutionDeadline time.Time

	RespondedAt *time.Time
	ResolvedAt  *time.Time

	BreachResponse   bool
	BreachResolution bool
	WarningSent      bool

	PausedAt      *time.Time
	PauseReason   *PauseCondition
	PausedMinutes int

	RowVersion int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Paused reports whether the SLA clock is currently stopped.
func (t *SLATracking) Paused() bool {
	return t.PausedAt != nil
}

// State derives the coarse tracking state from the breach flags.
func (t *SLATracking) State() TrackingState {
	switch {
	case t.BreachResolution:
		return TrackingStateResolutionBreached
	case t.BreachResponse:
		return TrackingStateResponseBreached
	default:
		return TrackingStateActive
	}
}

// ResolutionOpen reports whether the resolution SLA is still being tracked.
func (t *SLATracking) ResolutionOpen() bool {
	return t.ResolvedAt == nil && !t.BreachResolution
}

// ResponseOpen reports whether the response SLA is still being tracked.
func (t *SLATracking) ResponseOpen() bool {
	return t.RespondedAt == nil && !t.BreachResponse
}
