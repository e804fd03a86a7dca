package service

import (
	"context"
	"testing"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

func newTicketFixture() (*TicketService, *serviceFixture) {
	f := newFixture()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		ContractRepo: f.contracts,
		SLA:          f.svc,
	})
	return svc, f
}

func TestCreateTicketTracksSLA(t *testing.T) {
	svc, _ := newTicketFixture()

	ticket, tracking, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		ContractID:  "con-1",
		RequesterID: "req-1",
		Title:       "  database down  ",
		Priority:    domain.PriorityP2,
	}, mondayAt(10, 0))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Title != "database down" {
		t.Errorf("title %q not trimmed", ticket.Title)
	}
	if ticket.ExternalKey == "" {
		t.Error("external key must be generated")
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status %s, want OPEN", ticket.Status)
	}
	if tracking == nil {
		t.Fatal("expected SLA tracking alongside the ticket")
	}
	if !tracking.ResponseDeadline.Equal(mondayAt(11, 0)) {
		t.Errorf("response deadline %v, want %v", tracking.ResponseDeadline, mondayAt(11, 0))
	}
}

func TestCreateTicketDefaultsPriority(t *testing.T) {
	svc, _ := newTicketFixture()

	ticket, _, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		ContractID:  "con-1",
		RequesterID: "req-1",
		Title:       "slow reports",
	}, mondayAt(10, 0))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Priority != domain.PriorityP3 {
		t.Errorf("priority %s, want P3 default", ticket.Priority)
	}
}

func TestCreateTicketRejectsUnknownContract(t *testing.T) {
	svc, _ := newTicketFixture()

	_, _, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		ContractID:  "nope",
		RequesterID: "req-1",
		Title:       "x",
	}, mondayAt(10, 0))
	if err == nil {
		t.Fatal("expected error for unknown contract")
	}
}

func TestCreateTicketRejectsInactiveContract(t *testing.T) {
	svc, f := newTicketFixture()
	f.contracts.contract.IsActive = false

	_, _, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		ContractID:  "con-1",
		RequesterID: "req-1",
		Title:       "x",
	}, mondayAt(10, 0))
	if err == nil {
		t.Fatal("expected error for inactive contract")
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.TicketStatus
		to      domain.TicketStatus
		allowed bool
	}{
		{"open to in progress", domain.TicketStatusOpen, domain.TicketStatusInProgress, true},
		{"open to waiting customer", domain.TicketStatusOpen, domain.TicketStatusWaitingCustomer, true},
		{"in progress to resolved", domain.TicketStatusInProgress, domain.TicketStatusResolved, true},
		{"resolved to closed", domain.TicketStatusResolved, domain.TicketStatusClosed, true},
		{"resolved reopened", domain.TicketStatusResolved, domain.TicketStatusInProgress, true},
		{"open straight to resolved", domain.TicketStatusOpen, domain.TicketStatusResolved, false},
		{"closed is final", domain.TicketStatusClosed, domain.TicketStatusInProgress, false},
		{"cancelled is final", domain.TicketStatusCancelled, domain.TicketStatusOpen, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isValidTransition(tc.from, tc.to); got != tc.allowed {
				t.Errorf("isValidTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestUpdateStatusResolveStampsAndFreezes(t *testing.T) {
	svc, f := newTicketFixture()
	ctx := context.Background()

	ticket, _, err := svc.CreateTicket(ctx, TicketCreateInput{
		ContractID:  "con-1",
		RequesterID: "req-1",
		Title:       "x",
		Priority:    domain.PriorityP2,
	}, mondayAt(9, 0))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, ticket.ID, domain.TicketStatusInProgress, mondayAt(9, 10)); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	resolveAt := mondayAt(12, 0)
	updated, err := svc.UpdateStatus(ctx, ticket.ID, domain.TicketStatusResolved, resolveAt)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.ResolvedAt == nil || !updated.ResolvedAt.Equal(resolveAt) {
		t.Errorf("ResolvedAt %v, want %v", updated.ResolvedAt, resolveAt)
	}

	tracking, err := f.svc.GetTracking(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetTracking: %v", err)
	}
	if tracking.ResolvedAt == nil {
		t.Fatal("tracking must freeze on resolve")
	}
	if tracking.BreachResolution {
		t.Error("resolution inside the budget must not breach")
	}
}

func TestUpdateStatusCloseWithoutResolveSetsBoth(t *testing.T) {
	svc, _ := newTicketFixture()
	ctx := context.Background()

	ticket, _, err := svc.CreateTicket(ctx, TicketCreateInput{
		ContractID:  "con-1",
		RequesterID: "req-1",
		Title:       "x",
		Priority:    domain.PriorityP2,
	}, mondayAt(9, 0))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	cancelAt := mondayAt(10, 0)
	updated, err := svc.UpdateStatus(ctx, ticket.ID, domain.TicketStatusCancelled, cancelAt)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.ClosedAt == nil || updated.ResolvedAt == nil {
		t.Error("cancel must stamp both ClosedAt and ResolvedAt")
	}
}

func TestUpdatePriorityRebasesTracking(t *testing.T) {
	svc, f := newTicketFixture()
	ctx := context.Background()
	f.contracts.cfg.Policy.Targets[domain.PriorityP1] = domain.PolicyTarget{
		ResponseMinutes: 30, ResolutionMinutes: 240, Enabled: true,
	}

	ticket, _, err := svc.CreateTicket(ctx, TicketCreateInput{
		ContractID:  "con-1",
		RequesterID: "req-1",
		Title:       "x",
		Priority:    domain.PriorityP2,
	}, mondayAt(9, 0))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	updated, err := svc.UpdatePriority(ctx, ticket.ID, domain.PriorityP1, mondayAt(10, 0))
	if err != nil {
		t.Fatalf("UpdatePriority: %v", err)
	}
	if updated.Priority != domain.PriorityP1 {
		t.Errorf("priority %s, want P1", updated.Priority)
	}

	tracking, err := f.svc.GetTracking(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetTracking: %v", err)
	}
	if tracking.Priority != domain.PriorityP1 || tracking.ResolutionMinutes != 240 {
		t.Errorf("tracking not re-snapshotted: %+v", tracking)
	}
	// 60 consumed of 240: resolution rebases to 13:00.
	if !tracking.ResolutionDeadline.Equal(mondayAt(13, 0)) {
		t.Errorf("resolution deadline %v, want %v", tracking.ResolutionDeadline, mondayAt(13, 0))
	}
}

func TestUpdatePriorityRejectsTerminalTicket(t *testing.T) {
	svc, _ := newTicketFixture()
	ctx := context.Background()

	ticket, _, err := svc.CreateTicket(ctx, TicketCreateInput{
		ContractID:  "con-1",
		RequesterID: "req-1",
		Title:       "x",
		Priority:    domain.PriorityP2,
	}, mondayAt(9, 0))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, ticket.ID, domain.TicketStatusCancelled, mondayAt(10, 0)); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if _, err := svc.UpdatePriority(ctx, ticket.ID, domain.PriorityP1, mondayAt(11, 0)); err == nil {
		t.Fatal("expected error for terminal ticket")
	}
}

func TestRecordFirstResponseSetOnce(t *testing.T) {
	svc, _ := newTicketFixture()
	ctx := context.Background()

	ticket, _, err := svc.CreateTicket(ctx, TicketCreateInput{
		ContractID:  "con-1",
		RequesterID: "req-1",
		Title:       "x",
		Priority:    domain.PriorityP2,
	}, mondayAt(9, 0))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	first := mondayAt(9, 20)
	updated, err := svc.RecordFirstResponse(ctx, ticket.ID, first)
	if err != nil {
		t.Fatalf("RecordFirstResponse: %v", err)
	}
	if updated.FirstResponseAt == nil || !updated.FirstResponseAt.Equal(first) {
		t.Fatalf("FirstResponseAt %v, want %v", updated.FirstResponseAt, first)
	}
	if updated.Status != domain.TicketStatusInProgress {
		t.Errorf("status %s, want IN_PROGRESS", updated.Status)
	}

	again, err := svc.RecordFirstResponse(ctx, ticket.ID, mondayAt(11, 0))
	if err != nil {
		t.Fatalf("RecordFirstResponse: %v", err)
	}
	if !again.FirstResponseAt.Equal(first) {
		t.Errorf("FirstResponseAt overwritten to %v", again.FirstResponseAt)
	}
}
