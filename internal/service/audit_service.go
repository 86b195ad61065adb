package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/deskflow/ticket-assistant/internal/domain"
	"github.com/deskflow/ticket-assistant/internal/events"
	"github.com/deskflow/ticket-assistant/internal/repository"
)

// AuditService records published events in the log and, when configured,
// in the action history table.
type AuditService struct {
	dispatcher events.Dispatcher
	history    repository.ActionHistoryRepository
	logger     *zap.Logger
}

// NewAuditService creates the service. history may be nil.
func NewAuditService(dispatcher events.Dispatcher, history repository.ActionHistoryRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		history:    history,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventWorkloadAnalyzed, a.handleWorkloadAnalyzed)
	a.dispatcher.Subscribe(events.EventActionPerformed, a.handleActionPerformed)
}

func (a *AuditService) handleWorkloadAnalyzed(ctx context.Context, event events.Event) error {
	a.logger.Info("WorkloadAnalyzed", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleActionPerformed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ActionPerformedPayload)
	if !ok {
		a.logger.Warn("unexpected action payload", zap.String("event_id", event.ID))
		return nil
	}
	a.logger.Info("ActionPerformed",
		zap.String("ticket_key", event.TicketKey),
		zap.String("action", string(payload.Action)),
		zap.Bool("success", payload.Success))

	if a.history == nil {
		return nil
	}
	record := &domain.ActionRecord{
		SessionID: optional(event.SessionID),
		TicketKey: optional(event.TicketKey),
		Action:    payload.Action,
		Success:   payload.Success,
		Detail:    map[string]any{"message": payload.Message},
		CreatedAt: event.Timestamp,
	}
	for k, v := range payload.Data {
		record.Detail[k] = v
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if err := a.history.Create(ctx, record); err != nil {
		a.logger.Warn("failed to persist action history", zap.Error(err))
		return err
	}
	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
