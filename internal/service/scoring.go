package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

const (
	severityWeight   = 2.5
	unknownPriority  = 4.0
	ageWeight        = 0.6
	maxAgeDays       = 10.0
	noCommentsBonus  = 3.0
	blockingWeight   = 1.5
	maxBlocking      = 5
	securityBonus    = 5.0
	escalationBonus  = 4.0
	securityMarker   = "cve"
	hoursPerDay      = 24.0
	noCommentsReason = "no comments: +3.0"
	securityReason   = "security/CVE: +5.0"
	escalationReason = "exec mention: +4.0"
)

var priorityWeights = map[domain.TicketPriority]float64{
	domain.TicketPriorityHighest: 12,
	domain.TicketPriorityHigh:    9,
	domain.TicketPriorityMedium:  6,
	domain.TicketPriorityLow:     3,
	domain.TicketPriorityLowest:  1,
}

var escalationLabels = map[string]struct{}{
	"vip":  {},
	"ceo":  {},
	"exec": {},
}

// ScoreTicket computes the urgency score of a ticket as of the given instant.
// Reasons are appended in rule order; only rules that fire contribute one.
func ScoreTicket(t domain.Ticket, asOf time.Time) (float64, []string) {
	score := 0.0
	reasons := make([]string, 0, 6)

	if t.HasSeverity() {
		sev := *t.Severity
		contribution := float64(6-sev) * severityWeight
		score += contribution
		reasons = append(reasons, fmt.Sprintf("sev%d: +%.1f", sev, contribution))
	} else if t.Priority != nil {
		contribution, ok := priorityWeights[*t.Priority]
		if !ok {
			contribution = unknownPriority
		}
		score += contribution
		reasons = append(reasons, fmt.Sprintf("priority %s: +%g", *t.Priority, contribution))
	}

	age := AgeDays(t.CreatedAt, asOf)
	ageScore := math.Min(age, maxAgeDays) * ageWeight
	score += ageScore
	reasons = append(reasons, fmt.Sprintf("age %.1fd: +%.1f", age, ageScore))

	if t.CommentsCount == 0 {
		score += noCommentsBonus
		reasons = append(reasons, noCommentsReason)
	}

	if t.BlockingCount > 0 {
		contribution := float64(min(t.BlockingCount, maxBlocking)) * blockingWeight
		score += contribution
		reasons = append(reasons, fmt.Sprintf("blocks %d: +%.1f", t.BlockingCount, contribution))
	}

	if mentionsSecurity(t) {
		score += securityBonus
		reasons = append(reasons, securityReason)
	}

	if hasEscalationLabel(t.Labels) {
		score += escalationBonus
		reasons = append(reasons, escalationReason)
	}

	return score, reasons
}

// AgeDays returns the fractional days between created and asOf.
// Missing or future creation timestamps count as zero.
func AgeDays(created *time.Time, asOf time.Time) float64 {
	if created == nil || created.IsZero() {
		return 0
	}
	days := asOf.Sub(*created).Hours() / hoursPerDay
	if days < 0 {
		return 0
	}
	return days
}

func mentionsSecurity(t domain.Ticket) bool {
	if strings.Contains(strings.ToLower(t.Summary), securityMarker) {
		return true
	}
	for _, label := range t.Labels {
		if strings.Contains(strings.ToLower(label), securityMarker) {
			return true
		}
	}
	return false
}

func hasEscalationLabel(labels []string) bool {
	for _, label := range labels {
		if _, ok := escalationLabels[strings.ToLower(label)]; ok {
			return true
		}
	}
	return false
}
