package events

import (
	"time"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

// NotificationKind enumerates SLA notification intents.
type NotificationKind string

const (
	KindWarning          NotificationKind = "WARNING"
	KindBreachResponse   NotificationKind = "BREACH_RESPONSE"
	KindBreachResolution NotificationKind = "BREACH_RESOLUTION"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSLATrackingCreated EventType = "sla_tracking_created"
	EventSLAPaused          EventType = "sla_paused"
	EventSLAResumed         EventType = "sla_resumed"
	EventSLANotification    EventType = "sla_notification"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Intent is a notification request handed to the mail subsystem. The engine
// only emits intents; delivery is best-effort and retried externally, so a
// failed dispatch never rolls back the flag that triggered it.
type Intent struct {
	TrackingID string             `json:"tracking_id"`
	TicketID   string             `json:"ticket_id"`
	Kind       NotificationKind   `json:"kind"`
	Snapshot   domain.SLATracking `json:"snapshot"`
	EmittedAt  time.Time          `json:"emitted_at"`
}

// TrackingCreatedPayload payload.
type TrackingCreatedPayload struct {
	TrackingID         string          `json:"tracking_id"`
	Priority           domain.Priority `json:"priority"`
	ResponseDeadline   time.Time       `json:"response_deadline"`
	ResolutionDeadline time.Time       `json:"resolution_deadline"`
}

// PauseStatePayload payload for pause/resume events.
type PauseStatePayload struct {
	TrackingID    string                `json:"tracking_id"`
	Reason        domain.PauseCondition `json:"reason"`
	OccurredAt    time.Time             `json:"occurred_at"`
	PausedMinutes int                   `json:"paused_minutes"`
}
