package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deskflow/ticket-assistant/internal/config"
)

const searchBody = `{
  "total": 2,
  "issues": [
    {
      "id": "10001",
      "key": "SEC-7",
      "fields": {
        "summary": "CVE-2024-1984 auth bypass",
        "priority": {"name": "High"},
        "status": {"name": "In Progress"},
        "issuetype": {"name": "Bug"},
        "labels": ["security", "sev2", "sev1"],
        "created": "2026-03-07T09:00:00.000+0000",
        "updated": "2026-03-09T12:30:00.000+0000",
        "comment": {"total": 0},
        "reporter": {"displayName": "Dana"},
        "assignee": {"displayName": "Sam"},
        "issuelinks": [
          {"type": {"name": "Blocks", "inward": "is blocked by", "outward": "blocks"}, "outwardIssue": {"key": "APP-1"}},
          {"type": {"name": "Blocks", "inward": "is blocked by", "outward": "blocks"}, "outwardIssue": {"key": "APP-2"}},
          {"type": {"name": "Blocks", "inward": "is blocked by", "outward": "blocks"}, "inwardIssue": {"key": "OPS-9"}},
          {"type": {"name": "Relates", "inward": "relates to", "outward": "relates to"}, "outwardIssue": {"key": "DOC-3"}}
        ]
      }
    },
    {
      "id": "10002",
      "key": "APP-3",
      "fields": {"summary": "Tidy logs", "labels": ["sevX"], "created": "garbage"}
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.JiraConfig{BaseURL: srv.URL, Email: "me@example.com", APIToken: "token"}
	return NewClientWithHTTP(cfg, srv.Client())
}

func TestSearchSendsQueryAndAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "me@example.com" || pass != "token" {
			t.Errorf("basic auth = %q %q %v", user, pass, ok)
		}
		q := r.URL.Query()
		if q.Get("jql") != "assignee = currentUser() AND status = Open" {
			t.Errorf("jql = %q", q.Get("jql"))
		}
		if q.Get("maxResults") != "50" || q.Get("fields") != SearchFields {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(searchBody))
	})

	issues, err := client.Search(context.Background(), "assignee = currentUser() AND status = Open", 50, SearchFields)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("len(issues) = %d", len(issues))
	}
}

func TestSearchReturnsStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["bad credentials"]}`, http.StatusUnauthorized)
	})
	_, err := client.Search(context.Background(), "x", 1, SearchFields)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}
}

func TestAddCommentPostsDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/api/3/issue/SEC-7/comment" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var payload struct {
			Body struct {
				Type    string `json:"type"`
				Content []struct {
					Content []struct {
						Text string `json:"text"`
					} `json:"content"`
				} `json:"content"`
			} `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		if payload.Body.Type != "doc" || len(payload.Body.Content) != 2 {
			t.Errorf("unexpected document %+v", payload.Body)
		}
		if payload.Body.Content[1].Content[0].Text != "line two" {
			t.Errorf("second paragraph = %+v", payload.Body.Content[1])
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	})
	if err := client.AddComment(context.Background(), "SEC-7", "line one\nline two\n"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
}

func TestMyself(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accountId":"abc","displayName":"Sam"}`))
	})
	user, err := client.Myself(context.Background())
	if err != nil {
		t.Fatalf("Myself: %v", err)
	}
	if user.DisplayName != "Sam" {
		t.Fatalf("display name = %q", user.DisplayName)
	}
}

func TestMapIssue(t *testing.T) {
	var result SearchResult
	if err := json.Unmarshal([]byte(searchBody), &result); err != nil {
		t.Fatal(err)
	}

	ticket := MapIssue(result.Issues[0])
	if ticket.Key != "SEC-7" || ticket.ID != "10001" {
		t.Fatalf("identity = %s/%s", ticket.ID, ticket.Key)
	}
	if ticket.Severity == nil || *ticket.Severity != 2 {
		t.Fatalf("severity = %v, want first valid label sev2", ticket.Severity)
	}
	if ticket.Priority == nil || *ticket.Priority != "High" {
		t.Fatalf("priority = %v", ticket.Priority)
	}
	if ticket.Status == nil || *ticket.Status != "In Progress" {
		t.Fatalf("status = %v", ticket.Status)
	}
	if ticket.CreatedAt == nil || ticket.CreatedAt.Day() != 7 {
		t.Fatalf("created = %v", ticket.CreatedAt)
	}
	if ticket.BlockingCount != 2 {
		t.Fatalf("blocking = %d, want 2", ticket.BlockingCount)
	}
	if ticket.Assignee == nil || *ticket.Assignee != "Sam" {
		t.Fatalf("assignee = %v", ticket.Assignee)
	}

	bare := MapIssue(result.Issues[1])
	if bare.Severity != nil || bare.CreatedAt != nil || bare.Priority != nil || bare.Status != nil {
		t.Fatalf("malformed optional fields should be absent: %+v", bare)
	}
	if bare.CommentsCount != 0 || bare.BlockingCount != 0 {
		t.Fatalf("counts should default to zero: %+v", bare)
	}
}

func TestMapIssueDetail(t *testing.T) {
	var result SearchResult
	if err := json.Unmarshal([]byte(searchBody), &result); err != nil {
		t.Fatal(err)
	}
	issue := result.Issues[0]
	issue.RenderedFields.Description = "<p>rendered</p>"

	detail := MapIssueDetail(issue)
	if detail.Description != "<p>rendered</p>" {
		t.Fatalf("description = %q", detail.Description)
	}
	if len(detail.Links) != 4 {
		t.Fatalf("links = %v", detail.Links)
	}
	if len(detail.Dependencies) != 1 || detail.Dependencies[0] != "OPS-9" {
		t.Fatalf("dependencies = %v", detail.Dependencies)
	}
}

func TestSeverityFromLabels(t *testing.T) {
	cases := []struct {
		labels []string
		want   int
	}{
		{[]string{"SEV3"}, 3},
		{[]string{"sev0", "sev9", "sev4"}, 4},
		{[]string{"severe"}, 0},
		{nil, 0},
	}
	for _, tc := range cases {
		got := SeverityFromLabels(tc.labels)
		if tc.want == 0 {
			if got != nil {
				t.Fatalf("%v: expected no severity, got %d", tc.labels, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Fatalf("%v: severity = %v, want %d", tc.labels, got, tc.want)
		}
	}
}

func TestParseTimeLayouts(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"2026-03-07T09:00:00Z", true},
		{"2026-03-07T09:00:00.000+0000", true},
		{"2026-03-07T09:00:00", true},
		{"2026-03-07T09:00:00.123456", true},
		{"", false},
		{"07/03/2026", false},
	}
	for _, tc := range cases {
		got := ParseTime(tc.raw)
		if (got != nil) != tc.want {
			t.Fatalf("%q: parsed = %v, want ok=%v", tc.raw, got, tc.want)
		}
		if got != nil && (got.Day() != 7 || got.Hour() != 9) {
			t.Fatalf("%q: parsed = %v", tc.raw, got)
		}
	}
}
