package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/deskflow/ticket-assistant/internal/domain"
	"github.com/deskflow/ticket-assistant/internal/repository"
	apperrors "github.com/deskflow/ticket-assistant/pkg/util/errorutil"
)

// TicketService reads tickets from the configured source.
type TicketService struct {
	source repository.TicketSource
	logger *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(source repository.TicketSource, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{source: source, logger: logger}
}

// ListActive returns the operator's active tickets. When focusKey is set and
// present, only that ticket is returned; otherwise the full batch is kept.
func (s *TicketService) ListActive(ctx context.Context, focusKey string) ([]domain.Ticket, error) {
	tickets, err := s.source.FetchActiveTickets(ctx)
	if err != nil {
		return nil, err
	}
	focusKey = strings.TrimSpace(focusKey)
	if focusKey == "" {
		return tickets, nil
	}
	focused := FocusTickets(tickets, focusKey)
	if len(focused) == len(tickets) && len(tickets) != 1 {
		s.logger.Debug("focus ticket not found; keeping full batch", zap.String("ticket_key", focusKey))
	}
	return focused, nil
}

// GetDetail looks up a single ticket.
func (s *TicketService) GetDetail(ctx context.Context, key string) (*domain.TicketDetail, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperrors.NewValidationError("ticket key is required", nil)
	}
	return s.source.FetchTicketDetail(ctx, key)
}

// FocusTickets keeps the tickets matching key, or all tickets when none match.
func FocusTickets(tickets []domain.Ticket, key string) []domain.Ticket {
	var focused []domain.Ticket
	for _, t := range tickets {
		if t.Key == key {
			focused = append(focused, t)
		}
	}
	if len(focused) == 0 {
		return tickets
	}
	return focused
}
