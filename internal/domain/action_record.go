package domain

import "time"

// ActionRecord is an immutable audit trail entry for a performed action.
type ActionRecord struct {
	ID        string
	SessionID *string
	TicketKey *string
	Action    ActionName
	Success   bool
	Detail    map[string]any
	CreatedAt time.Time
}
