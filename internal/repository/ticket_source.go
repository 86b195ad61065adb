package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/deskflow/ticket-assistant/internal/config"
	"github.com/deskflow/ticket-assistant/internal/domain"
	"github.com/deskflow/ticket-assistant/internal/tracker"
	apperrors "github.com/deskflow/ticket-assistant/pkg/util/errorutil"
)

// DemoDescription is the detail text reported for fixture tickets.
const DemoDescription = "Demo ticket details."

const defaultMaxResults = 50

// TicketSource yields the operator's active tickets.
type TicketSource interface {
	FetchActiveTickets(ctx context.Context) ([]domain.Ticket, error)
	FetchTicketDetail(ctx context.Context, key string) (*domain.TicketDetail, error)
}

// fixtureTicket is one fixture row. Timestamps stay raw so a malformed value
// drops only that field.
type fixtureTicket struct {
	domain.Ticket
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FixtureSource reads tickets from a local JSON file.
type FixtureSource struct {
	path string
}

// NewFixtureSource builds a source over the JSON array at path.
func NewFixtureSource(path string) *FixtureSource {
	return &FixtureSource{path: path}
}

func (s *FixtureSource) FetchActiveTickets(ctx context.Context) ([]domain.Ticket, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFound("fixture", map[string]any{"path": s.path})
		}
		return nil, fmt.Errorf("fixture: read: %w", err)
	}
	var rows []fixtureTicket
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, apperrors.NewValidationError("fixture is not a ticket list", map[string]any{
			"path":  s.path,
			"error": err.Error(),
		})
	}
	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		t := row.Ticket
		t.CreatedAt = tracker.ParseTime(row.CreatedAt)
		t.UpdatedAt = tracker.ParseTime(row.UpdatedAt)
		if t.Labels == nil {
			t.Labels = []string{}
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (s *FixtureSource) FetchTicketDetail(ctx context.Context, key string) (*domain.TicketDetail, error) {
	tickets, err := s.FetchActiveTickets(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if t.Key == key {
			return &domain.TicketDetail{
				Ticket:       t,
				Description:  DemoDescription,
				Links:        []string{},
				Dependencies: []string{},
			}, nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", map[string]any{"key": key})
}

// RemoteSource queries the tracker for the operator's tickets.
type RemoteSource struct {
	client     *tracker.Client
	cache      TicketCache
	jql        string
	maxResults int
	logger     *zap.Logger
}

// NewRemoteSource wraps a tracker client. cache may be nil.
func NewRemoteSource(client *tracker.Client, cfg config.JiraConfig, cache TicketCache, logger *zap.Logger) *RemoteSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &RemoteSource{
		client:     client,
		cache:      cache,
		jql:        cfg.JQL(),
		maxResults: maxResults,
		logger:     logger,
	}
}

func (s *RemoteSource) FetchActiveTickets(ctx context.Context) ([]domain.Ticket, error) {
	issues, err := s.client.Search(ctx, s.jql, s.maxResults, tracker.SearchFields)
	if err != nil {
		return nil, upstreamError("search tickets", err)
	}
	tickets := make([]domain.Ticket, 0, len(issues))
	for _, issue := range issues {
		tickets = append(tickets, tracker.MapIssue(issue))
	}
	if s.cache != nil {
		snapshot := TicketSnapshot{Tickets: tickets, TS: time.Now().UTC()}
		if err := s.cache.Store(ctx, snapshot); err != nil {
			s.logger.Warn("ticket cache write failed", zap.Error(err))
		}
	}
	return tickets, nil
}

func (s *RemoteSource) FetchTicketDetail(ctx context.Context, key string) (*domain.TicketDetail, error) {
	issue, err := s.client.GetIssue(ctx, key)
	if err != nil {
		var statusErr *tracker.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"key": key})
		}
		return nil, upstreamError("fetch ticket", err)
	}
	detail := tracker.MapIssueDetail(*issue)
	return &detail, nil
}

// NewTicketSource selects the fixture in demo mode or when no tracker is configured.
func NewTicketSource(cfg *config.Config, client *tracker.Client, cache TicketCache, logger *zap.Logger) TicketSource {
	if cfg.UseFixture() || client == nil {
		return NewFixtureSource(cfg.Storage.FixturePath)
	}
	return NewRemoteSource(client, cfg.Jira, cache, logger)
}

func upstreamError(op string, err error) error {
	details := map[string]any{"operation": op}
	var statusErr *tracker.StatusError
	if errors.As(err, &statusErr) {
		details["status"] = statusErr.StatusCode
	}
	return apperrors.NewUpstreamError("issue tracker request failed", details, err)
}
