package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/ticket-assistant/internal/api/dto"
	"github.com/deskflow/ticket-assistant/internal/service"
	apperrors "github.com/deskflow/ticket-assistant/pkg/util/errorutil"
)

// TicketsHandler manages single-ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	actions *service.ActionService
	now     func() time.Time
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, actions *service.ActionService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, actions: actions, now: time.Now}
}

// GetTicket GET /api/tickets/:key.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	detail, err := h.tickets.GetDetail(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	score, reasons := service.ScoreTicket(detail.Ticket, h.now().UTC())
	return c.JSON(fiber.Map{"data": dto.TicketDetailResponse{
		TicketDetail: *detail,
		Score:        score,
		Reasons:      reasons,
	}})
}

// AddComment POST /api/tickets/:key/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	detail, err := h.tickets.GetDetail(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = h.actions.DraftComment(c.UserContext(), detail.Ticket, detail.Summary)
	}

	result := h.actions.PostComment(c.UserContext(), detail.Key, text)
	status := fiber.StatusCreated
	if !result.Success {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{"data": dto.ActionResultResponse{
		Success: result.Success,
		Message: result.Message,
		Text:    text,
		Data:    result.Data,
	}})
}
