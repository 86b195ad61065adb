package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deskflow/ticket-assistant/internal/domain"
	"github.com/deskflow/ticket-assistant/internal/events"
	"github.com/deskflow/ticket-assistant/internal/observability"
	"github.com/deskflow/ticket-assistant/internal/tracker"
)

const (
	// DefaultArtifactName is used when an artifact is written without a name.
	DefaultArtifactName = "notes.md"
	// DefaultAuditRequirements seeds the generated audit script.
	DefaultAuditRequirements = "Audit current SSO/SAML configuration and enforce strict validation."
	// UnknownCVE is used when a security ticket carries no parseable identifier.
	UnknownCVE = "CVE-UNKNOWN"
	// CommentPostedMessage is reported for successful or simulated comment posts.
	CommentPostedMessage = "Status comment posted (or dry-run simulated)."
)

// CommentPoster adds a comment to a tracker issue.
type CommentPoster interface {
	AddComment(ctx context.Context, key, text string) error
}

// TextGenerator covers the generated content behind follow-up actions.
type TextGenerator interface {
	ResearchCVE(ctx context.Context, cveID string) domain.CVEDetails
	GenerateScript(requirements string) domain.Script
	DraftComment(ticket domain.Ticket, summary string) string
}

// ActionService performs the side-effecting follow-ups.
type ActionService struct {
	comments       CommentPoster
	generator      TextGenerator
	dispatcher     events.Dispatcher
	metrics        *observability.Metrics
	logger         *zap.Logger
	artifactsDir   string
	simulateWrites bool
	sessionID      string
}

// ActionDependencies bundles collaborators for the action service.
type ActionDependencies struct {
	Comments       CommentPoster
	Generator      TextGenerator
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	ArtifactsDir   string
	SimulateWrites bool
	SessionID      string
}

// NewActionService constructs the service.
func NewActionService(deps ActionDependencies) *ActionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := deps.ArtifactsDir
	if dir == "" {
		dir = "artifacts"
	}
	return &ActionService{
		comments:       deps.Comments,
		generator:      deps.Generator,
		dispatcher:     deps.Dispatcher,
		metrics:        deps.Metrics,
		logger:         logger,
		artifactsDir:   dir,
		simulateWrites: deps.SimulateWrites || deps.Comments == nil,
		sessionID:      deps.SessionID,
	}
}

// ForSession returns a copy of the service that tags its events with sessionID.
func (s *ActionService) ForSession(sessionID string) *ActionService {
	scoped := *s
	scoped.sessionID = sessionID
	return &scoped
}

// ArtifactPath returns where an artifact with the given name is written.
func (s *ActionService) ArtifactPath(filename string) string {
	if filename == "" {
		filename = DefaultArtifactName
	}
	return filepath.Join(s.artifactsDir, filename)
}

// WriteArtifact stores content under the artifacts directory.
func (s *ActionService) WriteArtifact(ctx context.Context, content, filename string) domain.Result {
	return s.writeArtifact(ctx, domain.ActionCreateFile, "", content, filename)
}

func (s *ActionService) writeArtifact(ctx context.Context, action domain.ActionName, ticketKey, content, filename string) domain.Result {
	if filename == "" {
		filename = DefaultArtifactName
	}
	if !filepath.IsLocal(filename) {
		result := domain.Result{
			Success: false,
			Message: fmt.Sprintf("Refusing to write outside %s: %s", s.artifactsDir, filename),
		}
		s.finish(ctx, action, ticketKey, result)
		return result
	}

	path := s.ArtifactPath(filename)
	result := domain.Result{Success: true, Message: "Created: " + path, Data: map[string]any{"path": path}}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		result = domain.Result{Success: false, Message: fmt.Sprintf("Failed to create %s: %v", filepath.Dir(path), err)}
	} else if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		result = domain.Result{Success: false, Message: fmt.Sprintf("Failed to write %s: %v", path, err)}
	}
	if !result.Success {
		s.logger.Warn("artifact write failed", zap.String("path", path), zap.String("message", result.Message))
	}
	s.finish(ctx, action, ticketKey, result)
	return result
}

// PostComment adds a comment to the ticket, or only logs it when writes are simulated.
// Failures are reported in the result, never raised.
func (s *ActionService) PostComment(ctx context.Context, key, text string) domain.Result {
	if s.simulateWrites {
		s.logger.Info("dry-run comment", zap.String("ticket_key", key), zap.String("text", text))
		result := domain.Result{Success: true, Message: CommentPostedMessage, Data: map[string]any{"dry_run": true}}
		s.finish(ctx, domain.ActionPostComment, key, result)
		return result
	}

	result := domain.Result{Success: true, Message: CommentPostedMessage, Data: map[string]any{"dry_run": false}}
	if err := s.comments.AddComment(ctx, key, text); err != nil {
		data := map[string]any{"dry_run": false}
		var statusErr *tracker.StatusError
		if errors.As(err, &statusErr) {
			data["status"] = statusErr.StatusCode
		}
		s.logger.Warn("failed to post comment", zap.String("ticket_key", key), zap.Error(err))
		result = domain.Result{Success: false, Message: fmt.Sprintf("Failed to post comment to %s: %v", key, err), Data: data}
	}
	s.finish(ctx, domain.ActionPostComment, key, result)
	return result
}

// ResearchCVE looks up research notes for a CVE.
func (s *ActionService) ResearchCVE(ctx context.Context, cveID string) domain.CVEDetails {
	details := s.generator.ResearchCVE(ctx, cveID)
	s.finish(ctx, domain.ActionResearchCVE, "", domain.Result{
		Success: true,
		Message: "Researched " + cveID,
		Data:    map[string]any{"cve_id": cveID, "title": details.Title},
	})
	return details
}

// GenerateScript produces an audit script for the requirements.
func (s *ActionService) GenerateScript(ctx context.Context, requirements string) domain.Script {
	script := s.generator.GenerateScript(requirements)
	s.finish(ctx, domain.ActionGenerateScript, "", domain.Result{
		Success: true,
		Message: "Generated " + script.Filename,
		Data:    map[string]any{"filename": script.Filename},
	})
	return script
}

// DraftComment renders a status comment without posting it.
func (s *ActionService) DraftComment(ctx context.Context, ticket domain.Ticket, summary string) string {
	text := s.generator.DraftComment(ticket, summary)
	s.finish(ctx, domain.ActionDraftComment, ticket.Key, domain.Result{Success: true, Message: "Drafted comment"})
	return text
}

// IsPlaybookChoice reports whether choice selects one of the follow-ups.
func IsPlaybookChoice(choice string) bool {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "1", "research", "cve", "2", "plan", "3", "comment":
		return true
	}
	return false
}

// RunPlaybook executes the follow-up chosen for the top ticket. An empty result
// means the choice was skipped.
func (s *ActionService) RunPlaybook(ctx context.Context, choice string, top domain.Ticket) []domain.Result {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "1", "research", "cve":
		if !strings.Contains(strings.ToLower(top.Summary), securityMarker) {
			return nil
		}
		return s.securityPlaybook(ctx, top)
	case "2", "plan":
		result := s.writeArtifact(ctx, domain.ActionWritePlan, top.Key, InvestigationPlan(top.Key), strings.ToLower(top.Key)+"-investigation-plan.md")
		return []domain.Result{result}
	case "3", "comment":
		comment := fmt.Sprintf("Initial assessment completed for %s. Drafting plan and starting execution steps.", top.Key)
		return []domain.Result{s.PostComment(ctx, top.Key, comment)}
	default:
		return nil
	}
}

func (s *ActionService) securityPlaybook(ctx context.Context, top domain.Ticket) []domain.Result {
	details := s.ResearchCVE(ctx, ExtractCVEID(top.Summary))

	brief := s.writeArtifact(ctx, domain.ActionCreateFile, top.Key, RenderBrief(details), strings.ToLower(details.CVEID)+"-brief.md")
	if brief.Success {
		brief.Message = "Created technical brief: " + brief.Data["path"].(string)
	}

	script := s.GenerateScript(ctx, DefaultAuditRequirements)
	generated := s.writeArtifact(ctx, domain.ActionCreateFile, top.Key, script.Content, script.Filename)
	if generated.Success {
		generated.Message = "Generated script: " + generated.Data["path"].(string)
	}

	comment := fmt.Sprintf("Prepared %s brief and generated audit script. Starting with configuration audit and adding negative tests for malformed SAML responses.", details.CVEID)
	return []domain.Result{brief, generated, s.PostComment(ctx, top.Key, comment)}
}

// ExtractCVEID returns the first whitespace-separated word starting with CVE-.
func ExtractCVEID(summary string) string {
	for _, word := range strings.Fields(summary) {
		word = strings.Trim(word, ".,;:()[]{}")
		if strings.HasPrefix(strings.ToUpper(word), "CVE-") {
			return word
		}
	}
	return UnknownCVE
}

// RenderBrief formats CVE research as a markdown brief.
func RenderBrief(d domain.CVEDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s: %s\n\n", d.CVEID, d.Title)
	fmt.Fprintf(&sb, "**Severity:** %s\n", d.Severity)
	fmt.Fprintf(&sb, "**Affected components:** %s\n", joinOr(d.AffectedComponents, "N/A"))
	fmt.Fprintf(&sb, "**Affected versions:** %s\n\n", joinOr(d.AffectedVersions, "N/A"))
	fmt.Fprintf(&sb, "## Description\n%s\n\n", d.Description)
	fmt.Fprintf(&sb, "## Mitigation\n%s\n\n", orDefault(d.Mitigation, "TBD"))
	fmt.Fprintf(&sb, "## Remediation\n%s\n\n", orDefault(d.Remediation, "TBD"))
	sb.WriteString("## Test steps\n")
	writeBullets(&sb, d.TestSteps)
	sb.WriteString("\n## References\n")
	writeBullets(&sb, d.References)
	return sb.String()
}

// InvestigationPlan is the checklist written for the plan follow-up.
func InvestigationPlan(key string) string {
	return fmt.Sprintf(`# Investigation Plan for %s
- Scope and reproduce issue
- Gather logs and affected components
- Formulate hypotheses and design tests
- Implement fix, add regression tests
- Communicate status updates in Jira
`, key)
}

func (s *ActionService) finish(ctx context.Context, action domain.ActionName, ticketKey string, result domain.Result) {
	s.metrics.RecordAction(string(action), result.Success)
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventActionPerformed,
		SessionID: s.sessionID,
		TicketKey: ticketKey,
		Timestamp: time.Now(),
		Payload: events.ActionPerformedPayload{
			Action:  action,
			Success: result.Success,
			Message: result.Message,
			Data:    result.Data,
		},
	})
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func writeBullets(sb *strings.Builder, items []string) {
	if len(items) == 0 {
		sb.WriteString("- N/A\n")
		return
	}
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
}
