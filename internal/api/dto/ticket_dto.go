package dto

import (
	"time"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	ContractID  string          `json:"contract_id"`
	RequesterID string          `json:"requester_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.Priority `json:"priority"`
}

// TicketResponse is the ticket representation returned by all endpoints.
type TicketResponse struct {
	ID              string              `json:"id"`
	ExternalKey     string              `json:"external_key"`
	ContractID      string              `json:"contract_id"`
	RequesterID     string              `json:"requester_id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Status          domain.TicketStatus `json:"status"`
	Priority        domain.Priority     `json:"priority"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	FirstResponseAt *time.Time          `json:"first_response_at,omitempty"`
	ResolvedAt      *time.Time          `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time          `json:"closed_at,omitempty"`
}
