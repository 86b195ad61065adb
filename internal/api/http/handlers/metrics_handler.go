package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/ticket-assistant/internal/api/dto"
	"github.com/deskflow/ticket-assistant/internal/observability"
	"github.com/deskflow/ticket-assistant/internal/repository"
	apperrors "github.com/deskflow/ticket-assistant/pkg/util/errorutil"
)

// MetricsHandler exposes counters and the action history.
type MetricsHandler struct {
	metrics *observability.Metrics
	history repository.ActionHistoryRepository
}

// NewMetricsHandler constructs handler. history may be nil.
func NewMetricsHandler(metrics *observability.Metrics, history repository.ActionHistoryRepository) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, history: history}
}

// GetMetrics GET /metrics.
func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}

// ListHistory GET /api/history.
func (h *MetricsHandler) ListHistory(c *fiber.Ctx) error {
	if h.history == nil {
		return apperrors.NewDomainError("HISTORY_DISABLED", "action history requires POSTGRES_DSN", fiber.StatusServiceUnavailable, nil)
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 {
		return apperrors.NewValidationError("limit must be a positive integer", nil)
	}
	records, err := h.history.ListRecent(c.UserContext(), limit)
	if err != nil {
		return err
	}
	items := make([]dto.ActionRecordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, dto.ActionRecordResponse{
			ID:        r.ID,
			SessionID: r.SessionID,
			TicketKey: r.TicketKey,
			Action:    r.Action,
			Success:   r.Success,
			Detail:    r.Detail,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
