package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/deskflow/ticket-assistant/internal/config"
)

// SearchFields is the fixed field list requested on searches.
const SearchFields = "summary,priority,status,labels,issuetype,created,updated,comment,reporter,assignee,issuelinks"

const maxErrorBody = 1024

// StatusError reports a non-2xx tracker response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tracker returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Jira REST v3 API with basic auth.
// Every call is a single request bounded by the configured deadline.
type Client struct {
	cfg    config.JiraConfig
	client *http.Client
}

// NewClient builds a tracker client.
func NewClient(cfg config.JiraConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout()},
	}
}

// NewClientWithHTTP builds a tracker client around an existing http.Client.
func NewClientWithHTTP(cfg config.JiraConfig, httpClient *http.Client) *Client {
	return &Client{cfg: cfg, client: httpClient}
}

// Myself returns the authenticated account; used to verify credentials.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/rest/api/3/myself", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Search runs a JQL search.
func (c *Client) Search(ctx context.Context, jql string, maxResults int, fields string) ([]Issue, error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("maxResults", strconv.Itoa(maxResults))
	query.Set("fields", fields)

	var result SearchResult
	if err := c.do(ctx, http.MethodGet, "/rest/api/3/search", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Issues, nil
}

// GetIssue fetches one issue with rendered fields.
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	query := url.Values{}
	query.Set("expand", "renderedFields")

	var issue Issue
	if err := c.do(ctx, http.MethodGet, "/rest/api/3/issue/"+url.PathEscape(key), query, nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// AddComment posts a plain-text comment, converted to a document body.
func (c *Client) AddComment(ctx context.Context, key, text string) error {
	payload := map[string]any{"body": plainDocument(text)}
	return c.do(ctx, http.MethodPost, "/rest/api/3/issue/"+url.PathEscape(key)+"/comment", nil, payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// plainDocument wraps text in the minimal document format comments require,
// one paragraph per line.
func plainDocument(text string) map[string]any {
	paragraphs := []map[string]any{}
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		paragraph := map[string]any{"type": "paragraph"}
		if line != "" {
			paragraph["content"] = []map[string]any{{"type": "text", "text": line}}
		}
		paragraphs = append(paragraphs, paragraph)
	}
	return map[string]any{"type": "doc", "version": 1, "content": paragraphs}
}
