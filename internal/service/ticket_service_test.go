package service

import (
	"context"
	"testing"

	"github.com/deskflow/ticket-assistant/internal/domain"
	apperrors "github.com/deskflow/ticket-assistant/pkg/util/errorutil"
)

type stubSource struct {
	tickets []domain.Ticket
}

func (s stubSource) FetchActiveTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets, nil
}

func (s stubSource) FetchTicketDetail(ctx context.Context, key string) (*domain.TicketDetail, error) {
	for _, t := range s.tickets {
		if t.Key == key {
			return &domain.TicketDetail{Ticket: t}, nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", map[string]any{"key": key})
}

func TestListActiveFocus(t *testing.T) {
	svc := NewTicketService(stubSource{tickets: sampleTickets()}, nil)
	ctx := context.Background()

	focused, err := svc.ListActive(ctx, "SEV-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(focused) != 1 || focused[0].Key != "SEV-1" {
		t.Fatalf("focused = %+v", focused)
	}

	all, err := svc.ListActive(ctx, "MISSING-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(sampleTickets()) {
		t.Fatalf("unknown focus key must keep the batch, got %d", len(all))
	}
}

func TestGetDetail(t *testing.T) {
	svc := NewTicketService(stubSource{tickets: sampleTickets()}, nil)
	if _, err := svc.GetDetail(context.Background(), " "); err == nil {
		t.Fatalf("blank key must fail validation")
	}
	if _, err := svc.GetDetail(context.Background(), "NOPE"); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	detail, err := svc.GetDetail(context.Background(), "SEC-1")
	if err != nil || detail.Key != "SEC-1" {
		t.Fatalf("detail = %+v err = %v", detail, err)
	}
}
