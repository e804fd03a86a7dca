package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/api/dto"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/service"
	apperrors "github.com/vamsrich/sap-itsm-platform-sub000/pkg/util/errorutil"
)

// SLAHandler exposes SLA status and pause history for tickets.
type SLAHandler struct {
	sla *service.SLAService
}

// NewSLAHandler constructs handler.
func NewSLAHandler(slaService *service.SLAService) *SLAHandler {
	return &SLAHandler{sla: slaService}
}

// GetStatus GET /tickets/:id/sla. An optional as_of query parameter
// projects remaining budgets to that instant instead of now.
func (h *SLAHandler) GetStatus(c *fiber.Ctx) error {
	tracking, err := h.loadTracking(c)
	if err != nil {
		return err
	}

	asOf := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperrors.NewValidationError("as_of must be RFC3339", map[string]any{"as_of": raw})
		}
		asOf = parsed.UTC()
	}

	remainingResponse, remainingResolution, err := h.sla.RemainingMinutes(c.UserContext(), tracking, asOf)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": slaStatusResponse(tracking, asOf, remainingResponse, remainingResolution)})
}

// GetPauseHistory GET /tickets/:id/sla/pauses.
func (h *SLAHandler) GetPauseHistory(c *fiber.Ctx) error {
	tracking, err := h.loadTracking(c)
	if err != nil {
		return err
	}
	events, err := h.sla.PauseHistory(c.UserContext(), tracking.ID)
	if err != nil {
		return err
	}
	items := make([]dto.PauseEventResponse, 0, len(events))
	for _, ev := range events {
		items = append(items, dto.PauseEventResponse{
			ID:         ev.ID,
			Kind:       ev.Kind,
			Reason:     ev.Reason,
			OccurredAt: ev.OccurredAt,
			Minutes:    ev.Minutes,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *SLAHandler) loadTracking(c *fiber.Ctx) (*domain.SLATracking, error) {
	ticketID := c.Params("id")
	tracking, err := h.sla.GetTracking(c.UserContext(), ticketID)
	if err != nil {
		return nil, err
	}
	if tracking == nil {
		return nil, apperrors.NewNotFound("sla tracking", map[string]any{"ticket_id": ticketID})
	}
	return tracking, nil
}

func slaStatusResponse(t *domain.SLATracking, asOf time.Time, remainingResponse, remainingResolution int) dto.SLAStatusResponse {
	return dto.SLAStatusResponse{
		TrackingID: t.ID,
		TicketID:   t.TicketID,
		ContractID: t.ContractID,
		Priority:   t.Priority,
		State:      t.State(),

		ResponseMinutes:   t.ResponseMinutes,
		ResolutionMinutes: t.ResolutionMinutes,
		WarningThreshold:  t.WarningThreshold,
		OnCallEligible:    t.OnCallEligible,

		ResponseDeadline:           t.ResponseDeadline,
		ResolutionDeadline:         t.ResolutionDeadline,
		OriginalResponseDeadline:   t.OriginalResponseDeadline,
		OriginalResolutionDeadline: t.OriginalResolutionDeadline,

		RespondedAt: t.RespondedAt,
		ResolvedAt:  t.ResolvedAt,

		BreachResponse:   t.BreachResponse,
		BreachResolution: t.BreachResolution,
		WarningSent:      t.WarningSent,

		Paused:        t.Paused(),
		PausedAt:      t.PausedAt,
		PauseReason:   t.PauseReason,
		PausedMinutes: t.PausedMinutes,

		AsOf:                       asOf,
		RemainingResponseMinutes:   remainingResponse,
		RemainingResolutionMinutes: remainingResolution,
	}
}
