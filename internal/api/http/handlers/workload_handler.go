package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/ticket-assistant/internal/api/dto"
	"github.com/deskflow/ticket-assistant/internal/service"
	apperrors "github.com/deskflow/ticket-assistant/pkg/util/errorutil"
)

// WorkloadHandler serves the ranked workload.
type WorkloadHandler struct {
	tickets  *service.TicketService
	workload *service.WorkloadService
	now      func() time.Time
}

// NewWorkloadHandler constructs handler.
func NewWorkloadHandler(tickets *service.TicketService, workload *service.WorkloadService) *WorkloadHandler {
	return &WorkloadHandler{tickets: tickets, workload: workload, now: time.Now}
}

// GetWorkload GET /api/workload.
func (h *WorkloadHandler) GetWorkload(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return apperrors.NewValidationError("limit must be a non-negative integer", map[string]any{"limit": raw})
		}
		limit = parsed
	}

	tickets, err := h.tickets.ListActive(c.UserContext(), c.Query("ticket"))
	if err != nil {
		return err
	}
	asOf := h.now().UTC()
	analysis := h.workload.AnalyzeWorkload(c.UserContext(), tickets, asOf)
	return c.JSON(fiber.Map{"data": dto.NewWorkloadResponse(analysis, asOf, limit)})
}

// SuggestActions POST /api/suggestions.
func (h *WorkloadHandler) SuggestActions(c *fiber.Ctx) error {
	var req dto.SuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return c.JSON(fiber.Map{"data": h.workload.SuggestNextAction(req.Context)})
}
