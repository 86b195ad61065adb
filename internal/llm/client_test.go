package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deskflow/ticket-assistant/internal/config"
	"github.com/deskflow/ticket-assistant/internal/domain"
)

type fakeProvider struct {
	name  string
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestNewProviderSelection(t *testing.T) {
	cases := []struct {
		cfg     config.LLMConfig
		want    string
		wantErr bool
	}{
		{config.LLMConfig{Provider: "stub"}, "stub", false},
		{config.LLMConfig{Provider: ""}, "stub", false},
		{config.LLMConfig{Provider: "ollama", OllamaBaseURL: "http://localhost:11434"}, "ollama", false},
		{config.LLMConfig{Provider: "openai", OpenAIAPIKey: "k"}, "openai", false},
		{config.LLMConfig{Provider: "openai"}, "", true},
		{config.LLMConfig{Provider: "parrot"}, "", true},
	}
	for _, tc := range cases {
		p, err := NewProvider(tc.cfg, nil)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%+v: expected error", tc.cfg)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%+v: unexpected error %v", tc.cfg, err)
		}
		if p.Name() != tc.want {
			t.Fatalf("%+v: provider = %s, want %s", tc.cfg, p.Name(), tc.want)
		}
	}
}

func TestStubSummarizeIsUnavailable(t *testing.T) {
	c := NewClient(Stub{}, nil)
	if _, err := c.Summarize(context.Background(), []domain.Ticket{{Key: "A-1"}}); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Model != "gpt-test" || len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected request %+v", req)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  - A-1 first  "}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(srv.Client(), srv.URL+"/v1/", "gpt-test", "secret")
	got, err := p.Complete(context.Background(), "sys", "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "- A-1 first" {
		t.Fatalf("reply = %q", got)
	}
}

func TestOllamaCompleteReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllama(srv.Client(), srv.URL, "llama3.1")
	_, err := p.Complete(context.Background(), "", "prompt")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestResearchCVEParsesFencedJSON(t *testing.T) {
	reply := "```json\n{\"title\":\"Heap overflow\",\"severity\":\"High\",\"test_steps\":[\"fuzz\"]}\n```"
	c := NewClient(&fakeProvider{name: "openai", reply: reply}, nil)
	details := c.ResearchCVE(context.Background(), "CVE-2025-1111")
	if details.Title != "Heap overflow" || details.Severity != "High" {
		t.Fatalf("unexpected details %+v", details)
	}
	if details.CVEID != "CVE-2025-1111" {
		t.Fatalf("cve id = %q", details.CVEID)
	}
}

func TestResearchCVEFallsBack(t *testing.T) {
	for _, p := range []*fakeProvider{
		{name: "openai", err: errors.New("down")},
		{name: "ollama", reply: "not json"},
	} {
		c := NewClient(p, nil)
		details := c.ResearchCVE(context.Background(), "CVE-2024-1984")
		if !strings.Contains(details.Title, "(stub)") {
			t.Fatalf("expected offline record, got %+v", details)
		}
	}
}

func TestDraftCommentWording(t *testing.T) {
	ticket := domain.Ticket{Key: "ABC-1", Summary: "auth bypass"}
	stub := NewClient(Stub{}, nil).DraftComment(ticket, "ignored")
	if !strings.HasPrefix(stub, "Update on ABC-1:") || !strings.Contains(stub, "Scope: auth bypass") {
		t.Fatalf("stub comment = %q", stub)
	}
	model := NewClient(&fakeProvider{name: "openai"}, nil).DraftComment(ticket, "  fixed it  ")
	if model != "Status update for ABC-1: fixed it" {
		t.Fatalf("model comment = %q", model)
	}
}

func TestGenerateScriptQuotesRequirements(t *testing.T) {
	script := NewClient(Stub{}, nil).GenerateScript("check 'strict' mode")
	if script.Filename != ScriptFilename {
		t.Fatalf("filename = %q", script.Filename)
	}
	if !strings.HasPrefix(script.Content, "#!/usr/bin/env bash\n") {
		t.Fatalf("missing shebang: %q", script.Content)
	}
	if !strings.Contains(script.Content, `echo 'check '\''strict'\'' mode'`) {
		t.Fatalf("requirements not quoted: %q", script.Content)
	}
}
