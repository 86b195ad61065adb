package domain

import "time"

// TicketPriority is the tracker's free-text priority label.
type TicketPriority string

const (
	TicketPriorityHighest TicketPriority = "Highest"
	TicketPriorityHigh    TicketPriority = "High"
	TicketPriorityMedium  TicketPriority = "Medium"
	TicketPriorityLow     TicketPriority = "Low"
	TicketPriorityLowest  TicketPriority = "Lowest"
)

// Severity bounds for the sevN label convention.
const (
	MinSeverity = 1
	MaxSeverity = 5
)

// Ticket is one tracked issue as seen by the assistant.
type Ticket struct {
	ID            string          `json:"id" yaml:"id"`
	Key           string          `json:"key" yaml:"key"`
	Summary       string          `json:"summary" yaml:"summary"`
	Priority      *TicketPriority `json:"priority,omitempty" yaml:"priority,omitempty"`
	Severity      *int            `json:"severity,omitempty" yaml:"severity,omitempty"`
	Status        *string         `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt     *time.Time      `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	CommentsCount int             `json:"comments_count" yaml:"comments_count"`
	Labels        []string        `json:"labels" yaml:"labels"`
	IssueType     *string         `json:"issue_type,omitempty" yaml:"issue_type,omitempty"`
	BlockingCount int             `json:"blocking_count" yaml:"blocking_count"`
	Reporter      *string         `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	Assignee      *string         `json:"assignee,omitempty" yaml:"assignee,omitempty"`
}

// TicketDetail extends Ticket with fields only fetched on single lookups.
type TicketDetail struct {
	Ticket       `yaml:",inline"`
	Description  string   `json:"description" yaml:"description"`
	Links        []string `json:"links" yaml:"links"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
}

// HasSeverity reports whether the ticket carries a valid severity.
func (t Ticket) HasSeverity() bool {
	return t.Severity != nil && *t.Severity >= MinSeverity && *t.Severity <= MaxSeverity
}
