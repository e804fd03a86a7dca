package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "OPEN"
	TicketStatusInProgress      TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingCustomer TicketStatus = "WAITING_CUSTOMER"
	TicketStatusOnHold          TicketStatus = "ON_HOLD"
	TicketStatusResolved        TicketStatus = "RESOLVED"
	TicketStatusClosed          TicketStatus = "CLOSED"
	TicketStatusCancelled       TicketStatus = "CANCELLED"
)

// Terminal reports whether the status ends SLA evaluation.
func (s TicketStatus) Terminal() bool {
	switch s {
	case TicketStatusResolved, TicketStatusClosed, TicketStatusCancelled:
		return true
	}
	return false
}

// PauseCondition maps a waiting status onto its SLA pause condition, if any.
func (s TicketStatus) PauseCondition() (PauseCondition, bool) {
	switch s {
	case TicketStatusWaitingCustomer:
		return PauseWaitingCustomer, true
	case TicketStatusOnHold:
		return PauseCustomerHold, true
	}
	return "", false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID              string
	ExternalKey     string
	ContractID      string
	RequesterID     string
	Title           string
	Description     string
	Status          TicketStatus
	Priority        Priority
	CreatedAt       time.Time
	UpdatedAt       time.Time
	FirstResponseAt *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
}
