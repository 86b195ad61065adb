package dto

import (
	"time"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

// WorkloadItem is one ranked ticket in API responses.
type WorkloadItem struct {
	Key      string                 `json:"key"`
	Summary  string                 `json:"summary"`
	Priority *domain.TicketPriority `json:"priority,omitempty"`
	Severity *int                   `json:"severity,omitempty"`
	Score    float64                `json:"score"`
	Reasons  []string               `json:"reasons"`
}

// WorkloadResponse is the ranked workload with its synopsis.
type WorkloadResponse struct {
	AsOf    time.Time      `json:"as_of"`
	Summary string         `json:"summary"`
	Items   []WorkloadItem `json:"items"`
}

// NewWorkloadResponse converts an analysis, keeping at most limit items when limit > 0.
func NewWorkloadResponse(analysis domain.WorkloadAnalysis, asOf time.Time, limit int) WorkloadResponse {
	ordered := analysis.Ordered
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	items := make([]WorkloadItem, 0, len(ordered))
	for _, item := range ordered {
		items = append(items, WorkloadItem{
			Key:      item.Ticket.Key,
			Summary:  item.Ticket.Summary,
			Priority: item.Ticket.Priority,
			Severity: item.Ticket.Severity,
			Score:    item.Score,
			Reasons:  item.Reasons,
		})
	}
	return WorkloadResponse{AsOf: asOf, Summary: analysis.Summary, Items: items}
}
