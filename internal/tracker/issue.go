package tracker

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

const (
	jiraTimeLayout  = "2006-01-02T15:04:05.000-0700"
	naiveTimeLayout = "2006-01-02T15:04:05.999999999"
)

// SearchResult is the search endpoint envelope.
type SearchResult struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}

// User is the subset of account fields the assistant reads.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Issue is the raw tracker representation of a ticket.
type Issue struct {
	ID             string         `json:"id"`
	Key            string         `json:"key"`
	Fields         IssueFields    `json:"fields"`
	RenderedFields RenderedFields `json:"renderedFields"`
}

// IssueFields holds the requested issue fields.
type IssueFields struct {
	Summary     string          `json:"summary"`
	Priority    *namedField     `json:"priority"`
	Status      *namedField     `json:"status"`
	IssueType   *namedField     `json:"issuetype"`
	Labels      []string        `json:"labels"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	Comment     *commentField   `json:"comment"`
	Reporter    *User           `json:"reporter"`
	Assignee    *User           `json:"assignee"`
	IssueLinks  []IssueLink     `json:"issuelinks"`
	Description json.RawMessage `json:"description"`
}

// RenderedFields holds HTML renderings requested via expand.
type RenderedFields struct {
	Description string `json:"description"`
}

// IssueLink relates two issues.
type IssueLink struct {
	Type         linkType    `json:"type"`
	InwardIssue  *linkedItem `json:"inwardIssue"`
	OutwardIssue *linkedItem `json:"outwardIssue"`
}

type namedField struct {
	Name string `json:"name"`
}

type commentField struct {
	Total int `json:"total"`
}

type linkType struct {
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

type linkedItem struct {
	Key string `json:"key"`
}

// MapIssue converts a raw issue into a Ticket. Missing or malformed optional
// fields map to their zero value.
func MapIssue(issue Issue) domain.Ticket {
	f := issue.Fields
	ticket := domain.Ticket{
		ID:            issue.ID,
		Key:           issue.Key,
		Summary:       f.Summary,
		Severity:      SeverityFromLabels(f.Labels),
		CreatedAt:     ParseTime(f.Created),
		UpdatedAt:     ParseTime(f.Updated),
		Labels:        append([]string{}, f.Labels...),
		BlockingCount: countBlocking(f.IssueLinks),
	}
	if f.Priority != nil && f.Priority.Name != "" {
		p := domain.TicketPriority(f.Priority.Name)
		ticket.Priority = &p
	}
	ticket.Status = nameOf(f.Status)
	ticket.IssueType = nameOf(f.IssueType)
	if f.Comment != nil && f.Comment.Total > 0 {
		ticket.CommentsCount = f.Comment.Total
	}
	if f.Reporter != nil && f.Reporter.DisplayName != "" {
		ticket.Reporter = &f.Reporter.DisplayName
	}
	if f.Assignee != nil && f.Assignee.DisplayName != "" {
		ticket.Assignee = &f.Assignee.DisplayName
	}
	return ticket
}

// MapIssueDetail converts a raw issue into a TicketDetail.
func MapIssueDetail(issue Issue) domain.TicketDetail {
	detail := domain.TicketDetail{
		Ticket:       MapIssue(issue),
		Description:  description(issue),
		Links:        []string{},
		Dependencies: []string{},
	}
	for _, link := range issue.Fields.IssueLinks {
		if link.OutwardIssue != nil {
			detail.Links = append(detail.Links, link.OutwardIssue.Key)
		}
		if link.InwardIssue != nil {
			detail.Links = append(detail.Links, link.InwardIssue.Key)
			if strings.EqualFold(link.Type.Inward, "is blocked by") {
				detail.Dependencies = append(detail.Dependencies, link.InwardIssue.Key)
			}
		}
	}
	return detail
}

// SeverityFromLabels reads the first sevN label with N in [1,5].
func SeverityFromLabels(labels []string) *int {
	for _, label := range labels {
		lower := strings.ToLower(strings.TrimSpace(label))
		if !strings.HasPrefix(lower, "sev") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(lower, "sev"))
		if err != nil || n < domain.MinSeverity || n > domain.MaxSeverity {
			continue
		}
		return &n
	}
	return nil
}

func countBlocking(links []IssueLink) int {
	count := 0
	for _, link := range links {
		if link.OutwardIssue != nil && strings.EqualFold(link.Type.Outward, "blocks") {
			count++
		}
	}
	return count
}

func description(issue Issue) string {
	var plain string
	if err := json.Unmarshal(issue.Fields.Description, &plain); err == nil && plain != "" {
		return plain
	}
	return issue.RenderedFields.Description
}

func nameOf(f *namedField) *string {
	if f == nil || f.Name == "" {
		return nil
	}
	name := f.Name
	return &name
}

// ParseTime reads an RFC3339, tracker-style or zone-less timestamp. Zone-less
// values are taken as UTC. Empty or unparseable input yields nil.
func ParseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, jiraTimeLayout, naiveTimeLayout} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}
