package domain

import "time"

// SubjectType differentiates human operators from automation tokens.
type SubjectType string

const (
	SubjectTypeOperator   SubjectType = "OPERATOR"
	SubjectTypeAutomation SubjectType = "AUTOMATION"
)

// Token represents issued API token metadata.
type Token struct {
	Value     string
	SubjectID string
	Subject   SubjectType
	ExpiresAt time.Time
	IssuedAt  time.Time
}
