package domain

import "time"

// ExchangeRole indicates who authored an exchange.
type ExchangeRole string

const (
	RoleUser      ExchangeRole = "user"
	RoleAssistant ExchangeRole = "assistant"
)

// Exchange is one entry of the conversation log.
type Exchange struct {
	Role ExchangeRole `json:"role"`
	Text string       `json:"text"`
	TS   time.Time    `json:"ts"`
}

// Session is the persisted, append-only conversation.
type Session struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	Exchanges []Exchange `json:"exchanges"`
}
