package events

import (
	"time"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventWorkloadAnalyzed EventType = "workload_analyzed"
	EventActionPerformed  EventType = "action_performed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	TicketKey string      `json:"ticket_key,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// WorkloadAnalyzedPayload payload.
type WorkloadAnalyzedPayload struct {
	TicketCount int      `json:"ticket_count"`
	TopKeys     []string `json:"top_keys"`
	TopScore    float64  `json:"top_score"`
}

// ActionPerformedPayload payload.
type ActionPerformedPayload struct {
	Action  domain.ActionName `json:"action"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    map[string]any    `json:"data,omitempty"`
}
