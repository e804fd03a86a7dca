package dto

import (
	"time"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

// SLAStatusResponse reports the SLA position of a ticket, optionally
// projected to an explicit instant.
type SLAStatusResponse struct {
	TrackingID string               `json:"tracking_id"`
	TicketID   string               `json:"ticket_id"`
	ContractID string               `json:"contract_id"`
	Priority   domain.Priority      `json:"priority"`
	State      domain.TrackingState `json:"state"`

	ResponseMinutes   int     `json:"response_minutes"`
	ResolutionMinutes int     `json:"resolution_minutes"`
	WarningThreshold  float64 `json:"warning_threshold"`
	OnCallEligible    bool    `json:"on_call_eligible"`

	ResponseDeadline           time.Time `json:"response_deadline"`
	ResolutionDeadline         time.Time `json:"resolution_deadline"`
	OriginalResponseDeadline   time.Time `json:"original_response_deadline"`
	OriginalResolutionDeadline time.Time `json:"original_resolution_deadline"`

	RespondedAt *time.Time `json:"responded_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`

	BreachResponse   bool `json:"breach_response"`
	BreachResolution bool `json:"breach_resolution"`
	WarningSent      bool `json:"warning_sent"`

	Paused        bool                   `json:"paused"`
	PausedAt      *time.Time             `json:"paused_at,omitempty"`
	PauseReason   *domain.PauseCondition `json:"pause_reason,omitempty"`
	PausedMinutes int                    `json:"paused_minutes"`

	AsOf                       time.Time `json:"as_of"`
	RemainingResponseMinutes   int       `json:"remaining_response_minutes"`
	RemainingResolutionMinutes int       `json:"remaining_resolution_minutes"`
}

// PauseEventResponse is one entry of the pause audit trail.
type PauseEventResponse struct {
	ID         string                `json:"id"`
	Kind       domain.PauseEventKind `json:"kind"`
	Reason     domain.PauseCondition `json:"reason"`
	OccurredAt time.Time             `json:"occurred_at"`
	Minutes    int                   `json:"minutes"`
}
