package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deskflow/ticket-assistant/internal/domain"
	"github.com/deskflow/ticket-assistant/internal/events"
)

type memoryHistory struct {
	records []domain.ActionRecord
	err     error
}

func (m *memoryHistory) Create(ctx context.Context, record *domain.ActionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryHistory) ListRecent(ctx context.Context, limit int) ([]domain.ActionRecord, error) {
	return m.records, nil
}

func TestAuditServicePersistsActions(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	history := &memoryHistory{}
	NewAuditService(dispatcher, history, nil).RegisterHandlers()

	ts := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	err := dispatcher.Publish(context.Background(), events.Event{
		ID:        "e-1",
		Type:      events.EventActionPerformed,
		SessionID: "s-1",
		TicketKey: "ABC-1",
		Timestamp: ts,
		Payload: events.ActionPerformedPayload{
			Action:  domain.ActionPostComment,
			Success: true,
			Message: CommentPostedMessage,
			Data:    map[string]any{"dry_run": true},
		},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(history.records) != 1 {
		t.Fatalf("records = %+v", history.records)
	}
	record := history.records[0]
	if *record.SessionID != "s-1" || *record.TicketKey != "ABC-1" || record.Action != domain.ActionPostComment {
		t.Fatalf("record = %+v", record)
	}
	if record.Detail["dry_run"] != true || record.Detail["message"] != CommentPostedMessage {
		t.Fatalf("detail = %v", record.Detail)
	}
	if !record.CreatedAt.Equal(ts) {
		t.Fatalf("created = %v", record.CreatedAt)
	}
}

func TestAuditServiceWithoutHistory(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, nil, nil).RegisterHandlers()
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventActionPerformed,
		Payload: events.ActionPerformedPayload{Action: domain.ActionCreateFile},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestAuditServiceSurfacesStoreErrors(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, &memoryHistory{err: errors.New("db down")}, nil).RegisterHandlers()
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventActionPerformed,
		Payload: events.ActionPerformedPayload{Action: domain.ActionCreateFile},
	})
	if err == nil {
		t.Fatalf("expected store error to reach the publisher")
	}
}
