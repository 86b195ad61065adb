package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/deskflow/ticket-assistant/internal/domain"
)

// TableRows is how many ranked tickets the priorities table shows.
const TableRows = 6

var (
	accent    = lipgloss.Color("#5B8DEF")
	muted     = lipgloss.Color("#888888")
	border    = lipgloss.Color("#444444")
	okColor   = lipgloss.Color("#3FB950")
	warnColor = lipgloss.Color("#D29922")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle  = lipgloss.NewStyle().Foreground(muted)
	okStyle    = lipgloss.NewStyle().Foreground(okColor)
	warnStyle  = lipgloss.NewStyle().Foreground(warnColor)
)

func panel(title, body string) string {
	head := titleStyle.Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(head + "\n" + body)
}

// RenderHeader greets the operator with the ticket count.
func RenderHeader(count int) string {
	return panel("Personal Ticket Assistant", fmt.Sprintf("Good morning! I pulled your %d open tickets.", count))
}

// RenderPriorities renders the top of the ranked workload as a table.
func RenderPriorities(items []domain.ScoredWorkItem) string {
	return RenderRanking(items, TableRows)
}

// RenderRanking renders up to limit ranked tickets; limit <= 0 renders all.
func RenderRanking(items []domain.ScoredWorkItem, limit int) string {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(border)).
		Headers("Key", "Summary", "Score", "Why").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			if col == 0 {
				return style.Bold(true).Foreground(accent)
			}
			return style
		})
	for _, item := range items[:limit] {
		t.Row(item.Ticket.Key, item.Ticket.Summary, fmt.Sprintf("%.1f", item.Score), strings.Join(item.Reasons, "; "))
	}
	return titleStyle.Render("Prioritized Tickets") + "\n" + t.Render()
}

// RenderAnalysis presents the top ticket, the synopsis and the follow-up menu.
func RenderAnalysis(top domain.Ticket, summary string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Top Priority: %s: %s\n\n", top.Key, top.Summary)
	sb.WriteString("My take:\n")
	sb.WriteString("- Impact: inferred from priority/labels\n")
	sb.WriteString("- Complexity: estimated medium unless marked otherwise\n")
	sb.WriteString("- Next step: If this involves a CVE or auth issue, start with a configuration audit.\n\n")
	if strings.TrimSpace(summary) != "" {
		sb.WriteString("Synopsis:\n" + summary + "\n\n")
	}
	sb.WriteString("Shall I:\n")
	sb.WriteString("1. Research the CVE and create a remediation checklist\n")
	sb.WriteString("2. Draft a technical investigation plan\n")
	sb.WriteString("3. Prepare a status comment for the ticket\n\n")
	sb.WriteString(hintStyle.Render(`Type 1/2/3 or "skip".`))
	return panel("Assistant Analysis", sb.String())
}

// RenderResult formats one action outcome.
func RenderResult(result domain.Result) string {
	if result.Success {
		return okStyle.Render(result.Message)
	}
	return warnStyle.Render("Warning: " + result.Message)
}

// RenderClosing is printed once the run is finished.
func RenderClosing(followUps []string) string {
	var sb strings.Builder
	sb.WriteString("Great work! Ready for the next one when you are.")
	for _, f := range followUps {
		sb.WriteString("\n" + hintStyle.Render("- "+f))
	}
	return panel("Progress", sb.String())
}

// RenderResume prints the tail of the previous conversation.
func RenderResume(session *domain.Session, exchanges []domain.Exchange) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Resuming session %s (started %s)\n", session.ID, session.StartedAt.Format("2006-01-02 15:04"))
	if len(exchanges) == 0 {
		sb.WriteString(hintStyle.Render("No previous exchanges."))
		return panel("Previous conversation", sb.String())
	}
	for _, ex := range exchanges {
		fmt.Fprintf(&sb, "%s: %s\n", ex.Role, ex.Text)
	}
	return panel("Previous conversation", strings.TrimRight(sb.String(), "\n"))
}
