package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/repository"
	apperrors "github.com/vamsrich/sap-itsm-platform-sub000/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows and drives the SLA engine on
// every lifecycle transition.
type TicketService struct {
	tickets   repository.TicketRepository
	contracts repository.ContractRepository
	sla       *SLAService
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	ContractRepo repository.ContractRepository
	SLA          *SLAService
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	ContractID  string
	RequesterID string
	Title       string
	Description string
	Priority    domain.Priority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:   deps.TicketRepo,
		contracts: deps.ContractRepo,
		sla:       deps.SLA,
	}
}

// CreateTicket creates a ticket under a contract and synchronously creates
// its SLA tracking when the governing policy enables the priority. The
// creation instant is passed explicitly and anchors all deadline math.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput, now time.Time) (*domain.Ticket, *domain.SLATracking, error) {
	contract, err := s.contracts.GetByID(ctx, input.ContractID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, apperrors.NewNotFound("contract", map[string]any{"contract_id": input.ContractID})
		}
		return nil, nil, err
	}
	if !contract.IsActive {
		return nil, nil, apperrors.NewValidationError("contract inactive", map[string]any{"contract_id": contract.ID})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityP3
	}
	if !priority.Valid() {
		return nil, nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		ContractID:  contract.ID,
		RequesterID: input.RequesterID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		CreatedAt:   now.UTC(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, nil, err
	}

	tracking, err := s.sla.TrackTicket(ctx, ticket)
	if err != nil {
		return nil, nil, err
	}
	return ticket, tracking, nil
}

// RecordFirstResponse stamps the first agent response. Set-once.
func (s *TicketService) RecordFirstResponse(ctx context.Context, ticketID string, now time.Time) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.FirstResponseAt == nil {
		respondedAt := now.UTC()
		ticket.FirstResponseAt = &respondedAt
		if ticket.Status == domain.TicketStatusOpen {
			ticket.Status = domain.TicketStatusInProgress
		}
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, err
		}
	}
	if err := s.sla.RecordFirstResponse(ctx, ticket, now); err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateStatus applies a status transition and re-evaluates the SLA clock.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, newStatus domain.TicketStatus, now time.Time) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	instant := now.UTC()
	ticket.Status = newStatus
	switch newStatus {
	case domain.TicketStatusResolved:
		ticket.ResolvedAt = &instant
	case domain.TicketStatusClosed, domain.TicketStatusCancelled:
		if ticket.ResolvedAt == nil {
			ticket.ResolvedAt = &instant
		}
		ticket.ClosedAt = &instant
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if newStatus.Terminal() {
		err = s.sla.ResolveTicket(ctx, ticket, now)
	} else {
		err = s.sla.EvaluateTicket(ctx, ticket, now)
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdatePriority changes ticket priority, rebasing the SLA budgets while
// preserving the business time already consumed.
func (s *TicketService) UpdatePriority(ctx context.Context, ticketID string, newPriority domain.Priority, now time.Time) (*domain.Ticket, error) {
	if !newPriority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": newPriority})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.Terminal() {
		return nil, apperrors.NewValidationError("ticket is terminal", map[string]any{"status": ticket.Status})
	}
	if ticket.Priority == newPriority {
		return ticket, nil
	}

	ticket.Priority = newPriority
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.sla.Reprioritize(ctx, ticket, now); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getTicket(ctx, ticketID)
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, filter)
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	return ticket, nil
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:            {domain.TicketStatusInProgress, domain.TicketStatusWaitingCustomer, domain.TicketStatusOnHold, domain.TicketStatusCancelled},
	domain.TicketStatusInProgress:      {domain.TicketStatusWaitingCustomer, domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusWaitingCustomer: {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusOnHold:          {domain.TicketStatusInProgress, domain.TicketStatusCancelled},
	domain.TicketStatusResolved:        {domain.TicketStatusClosed, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:          {},
	domain.TicketStatusCancelled:       {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
