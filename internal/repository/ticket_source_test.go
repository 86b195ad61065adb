package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/deskflow/ticket-assistant/internal/config"
	"github.com/deskflow/ticket-assistant/internal/tracker"
	apperrors "github.com/deskflow/ticket-assistant/pkg/util/errorutil"
)

const fixtureJSON = `[
  {"id": "1", "key": "ABC-1", "summary": "CVE-2024-1984 auth bypass", "priority": "High", "created_at": "2026-03-07T09:00:00Z", "comments_count": 0, "labels": ["security"]},
  {"id": "2", "key": "ABC-2", "summary": "Dashboard slow", "severity": 1, "comments_count": 2, "labels": ["vip"]}
]`

type recordingCache struct {
	snapshots []TicketSnapshot
	err       error
}

func (c *recordingCache) Store(ctx context.Context, snapshot TicketSnapshot) error {
	c.snapshots = append(c.snapshots, snapshot)
	return c.err
}

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFixtureSourceFetchActiveTickets(t *testing.T) {
	src := NewFixtureSource(writeFixture(t, fixtureJSON))
	tickets, err := src.FetchActiveTickets(context.Background())
	if err != nil {
		t.Fatalf("FetchActiveTickets: %v", err)
	}
	if len(tickets) != 2 || tickets[0].Key != "ABC-1" || tickets[1].Key != "ABC-2" {
		t.Fatalf("unexpected tickets %+v", tickets)
	}
	if tickets[0].CreatedAt == nil || tickets[0].Priority == nil {
		t.Fatalf("optional fields not decoded: %+v", tickets[0])
	}
	if tickets[1].Severity == nil || *tickets[1].Severity != 1 {
		t.Fatalf("severity = %v", tickets[1].Severity)
	}
}

func TestFixtureSourceFetchTicketDetail(t *testing.T) {
	src := NewFixtureSource(writeFixture(t, fixtureJSON))
	detail, err := src.FetchTicketDetail(context.Background(), "ABC-2")
	if err != nil {
		t.Fatalf("FetchTicketDetail: %v", err)
	}
	if detail.Description != DemoDescription || detail.Summary != "Dashboard slow" {
		t.Fatalf("unexpected detail %+v", detail)
	}

	_, err = src.FetchTicketDetail(context.Background(), "NOPE-1")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFixtureSourceToleratesOddTimestamps(t *testing.T) {
	body := `[
  {"key": "A-1", "created_at": "2024-05-01T10:00:00"},
  {"key": "A-2", "updated_at": "not-a-date"},
  {"key": "A-3", "created_at": "2024-05-02T08:30:00.000+0000"}
]`
	tickets, err := NewFixtureSource(writeFixture(t, body)).FetchActiveTickets(context.Background())
	if err != nil {
		t.Fatalf("FetchActiveTickets: %v", err)
	}
	if len(tickets) != 3 {
		t.Fatalf("len(tickets) = %d, want 3", len(tickets))
	}
	if tickets[0].CreatedAt == nil || tickets[0].CreatedAt.Day() != 1 || tickets[0].CreatedAt.Hour() != 10 {
		t.Fatalf("zone-less created_at = %v", tickets[0].CreatedAt)
	}
	if tickets[1].UpdatedAt != nil || tickets[1].CreatedAt != nil {
		t.Fatalf("malformed timestamps should be absent: %+v", tickets[1])
	}
	if tickets[2].CreatedAt == nil || tickets[2].CreatedAt.Day() != 2 {
		t.Fatalf("tracker-style created_at = %v", tickets[2].CreatedAt)
	}
	if tickets[1].Labels == nil {
		t.Fatalf("labels should default to an empty list")
	}
}

func TestFixtureSourceMissingFile(t *testing.T) {
	src := NewFixtureSource(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := src.FetchActiveTickets(context.Background()); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFixtureSourceMalformed(t *testing.T) {
	src := NewFixtureSource(writeFixture(t, `{"not": "a list"}`))
	_, err := src.FetchActiveTickets(context.Background())
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func newRemote(t *testing.T, handler http.HandlerFunc, cache TicketCache) *RemoteSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.JiraConfig{
		BaseURL:     srv.URL,
		Email:       "me@example.com",
		APIToken:    "token",
		JQLAssignee: "assignee = currentUser()",
		JQLStatus:   "status in (Open)",
	}
	return NewRemoteSource(tracker.NewClientWithHTTP(cfg, srv.Client()), cfg, cache, nil)
}

func TestRemoteSourceMapsAndCaches(t *testing.T) {
	cache := &recordingCache{err: errors.New("disk full")}
	src := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("jql") != "assignee = currentUser() AND status in (Open)" || q.Get("maxResults") != "50" {
			t.Errorf("query = %v", q)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issues": []map[string]any{
				{"id": "9", "key": "SEC-9", "fields": map[string]any{"summary": "patch", "labels": []string{"sev2"}}},
			},
		})
	}, cache)

	tickets, err := src.FetchActiveTickets(context.Background())
	if err != nil {
		t.Fatalf("cache failures must not fail the fetch: %v", err)
	}
	if len(tickets) != 1 || tickets[0].Key != "SEC-9" || *tickets[0].Severity != 2 {
		t.Fatalf("unexpected tickets %+v", tickets)
	}
	if len(cache.snapshots) != 1 || len(cache.snapshots[0].Tickets) != 1 {
		t.Fatalf("snapshot not written: %+v", cache.snapshots)
	}
}

func TestRemoteSourceUpstreamFailure(t *testing.T) {
	cache := &recordingCache{}
	src := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}, cache)

	_, err := src.FetchActiveTickets(context.Background())
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "UPSTREAM_FAILED" {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if domainErr.Details["status"] != http.StatusUnauthorized {
		t.Fatalf("details = %v", domainErr.Details)
	}
	if len(cache.snapshots) != 0 {
		t.Fatalf("failed fetch must not touch the cache")
	}
}

func TestRemoteSourceDetailNotFound(t *testing.T) {
	src := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
	}, nil)
	if _, err := src.FetchTicketDetail(context.Background(), "GONE-1"); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewTicketSourceSelection(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{DemoMode: true}, Jira: config.JiraConfig{BaseURL: "https://example.atlassian.net"}}
	client := tracker.NewClient(cfg.Jira)
	if _, ok := NewTicketSource(cfg, client, nil, nil).(*FixtureSource); !ok {
		t.Fatalf("demo mode must use the fixture")
	}
	cfg.App.DemoMode = false
	if _, ok := NewTicketSource(cfg, client, nil, nil).(*RemoteSource); !ok {
		t.Fatalf("configured tracker must be used outside demo mode")
	}
	cfg.Jira.BaseURL = ""
	if _, ok := NewTicketSource(cfg, client, nil, nil).(*FixtureSource); !ok {
		t.Fatalf("missing base URL must fall back to the fixture")
	}
}
