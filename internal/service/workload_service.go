package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deskflow/ticket-assistant/internal/domain"
	"github.com/deskflow/ticket-assistant/internal/events"
	"github.com/deskflow/ticket-assistant/internal/observability"
)

const (
	// SummaryTopN is how many ranked tickets the synopsis collaborator sees.
	SummaryTopN = 5
	// FallbackTopN is how many tickets the deterministic synopsis lists.
	FallbackTopN = 3
	// EmptyWorkloadSummary is reported when there is nothing to rank.
	EmptyWorkloadSummary = "No tickets to analyze."
)

// Summarizer produces a short natural-language synopsis of ranked tickets.
type Summarizer interface {
	Summarize(ctx context.Context, tickets []domain.Ticket) (string, error)
}

// WorkloadService ranks tickets and packages the result.
type WorkloadService struct {
	summarizer Summarizer
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// WorkloadDependencies bundles collaborators for the workload service.
type WorkloadDependencies struct {
	Summarizer Summarizer
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewWorkloadService constructs the service.
func NewWorkloadService(deps WorkloadDependencies) *WorkloadService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadService{
		summarizer: deps.Summarizer,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// AnalyzeWorkload scores every ticket as of asOf and returns them ordered by
// descending score. Equal scores keep their input order.
func (s *WorkloadService) AnalyzeWorkload(ctx context.Context, tickets []domain.Ticket, asOf time.Time) domain.WorkloadAnalysis {
	items := RankTickets(tickets, asOf)

	ranked := make([]domain.Ticket, len(items))
	for i, item := range items {
		ranked[i] = item.Ticket
	}

	analysis := domain.WorkloadAnalysis{
		Ordered: items,
		Summary: s.summarize(ctx, ranked),
	}
	s.metrics.RecordRanked(len(items))
	s.publishAnalyzed(ctx, analysis)
	return analysis
}

// RankTickets scores and stably sorts tickets without any collaborators.
func RankTickets(tickets []domain.Ticket, asOf time.Time) []domain.ScoredWorkItem {
	items := make([]domain.ScoredWorkItem, 0, len(tickets))
	for _, t := range tickets {
		score, reasons := ScoreTicket(t, asOf)
		items = append(items, domain.ScoredWorkItem{Ticket: t, Score: score, Reasons: reasons})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items
}

// FallbackSummary lists the first few tickets when no synopsis collaborator is available.
func FallbackSummary(tickets []domain.Ticket) string {
	if len(tickets) == 0 {
		return EmptyWorkloadSummary
	}
	lines := make([]string, 0, FallbackTopN)
	for _, t := range tickets[:min(len(tickets), FallbackTopN)] {
		lines = append(lines, "- "+t.Key+": "+t.Summary)
	}
	return strings.Join(lines, "\n")
}

// SuggestNextAction proposes follow-ups for free-text context.
func (s *WorkloadService) SuggestNextAction(note string) domain.ActionSuggestion {
	if strings.Contains(strings.ToLower(note), securityMarker) {
		return domain.ActionSuggestion{
			Message: "I can research the CVE, draft a remediation checklist, and prepare a status comment.",
			Actions: []domain.Action{
				{Name: domain.ActionResearchCVE, Params: map[string]any{"cve_id": strings.TrimSpace(note)}},
				{Name: domain.ActionGenerateScript, Params: map[string]any{"requirements": DefaultAuditRequirements}},
				{Name: domain.ActionDraftComment, Params: map[string]any{"ticket_key": nil}},
			},
		}
	}
	return domain.ActionSuggestion{
		Message: "I can draft a comment and create notes to move this forward.",
		Actions: []domain.Action{
			{Name: domain.ActionDraftComment, Params: map[string]any{"ticket_key": nil}},
			{Name: domain.ActionCreateFile, Params: map[string]any{"filename": DefaultArtifactName, "content": "Session notes"}},
		},
	}
}

func (s *WorkloadService) summarize(ctx context.Context, ranked []domain.Ticket) string {
	if len(ranked) == 0 {
		return EmptyWorkloadSummary
	}
	if s.summarizer == nil {
		return FallbackSummary(ranked)
	}
	top := ranked[:min(len(ranked), SummaryTopN)]
	summary, err := s.summarizer.Summarize(ctx, top)
	if err != nil || strings.TrimSpace(summary) == "" {
		s.logger.Debug("synopsis unavailable; using fallback", zap.Error(err))
		return FallbackSummary(top)
	}
	return summary
}

func (s *WorkloadService) publishAnalyzed(ctx context.Context, analysis domain.WorkloadAnalysis) {
	if s.dispatcher == nil {
		return
	}
	payload := events.WorkloadAnalyzedPayload{TicketCount: len(analysis.Ordered)}
	for _, item := range analysis.Ordered[:min(len(analysis.Ordered), SummaryTopN)] {
		payload.TopKeys = append(payload.TopKeys, item.Ticket.Key)
	}
	if len(analysis.Ordered) > 0 {
		payload.TopScore = analysis.Ordered[0].Score
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventWorkloadAnalyzed,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
