package dto

import (
	"github.com/deskflow/ticket-assistant/internal/domain"
)

// TicketDetailResponse provides full ticket info plus its current score.
type TicketDetailResponse struct {
	domain.TicketDetail
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// CommentRequest payload. An empty text asks the server to draft one.
type CommentRequest struct {
	Text string `json:"text"`
}

// ActionResultResponse reports a performed action.
type ActionResultResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Text    string         `json:"text,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// SuggestionRequest carries free-text context for follow-up suggestions.
type SuggestionRequest struct {
	Context string `json:"context"`
}

// ActionRecordResponse is one audit history entry.
type ActionRecordResponse struct {
	ID        string            `json:"id"`
	SessionID *string           `json:"session_id,omitempty"`
	TicketKey *string           `json:"ticket_key,omitempty"`
	Action    domain.ActionName `json:"action"`
	Success   bool              `json:"success"`
	Detail    map[string]any    `json:"detail"`
	CreatedAt string            `json:"created_at"`
}
