package domain

import "time"

// PauseEventKind distinguishes clock-stop from clock-start entries.
type PauseEventKind string

const (
	PauseEventPaused  PauseEventKind = "PAUSED"
	PauseEventResumed PauseEventKind = "RESUMED"
)

// SLAPauseEvent is an immutable audit trail entry, one row per clock
// transition. RESUMED rows carry the business-minute total excluded by the
// interval they close, so PausedMinutes on the tracking can be rebuilt as a
// fold over the log.
type SLAPauseEvent struct {
	ID         string
	TrackingID string
	Kind       PauseEventKind
	Reason     PauseCondition
	OccurredAt time.Time
	Minutes    int
	CreatedAt  time.Time
}
