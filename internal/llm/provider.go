// Package llm wraps the text-generation collaborator used for workload
// synopses and CVE research. Providers are interchangeable; the stub provider
// always reports itself unavailable so callers take their deterministic paths.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/deskflow/ticket-assistant/internal/config"
)

// ErrNoProvider is returned by the stub provider.
var ErrNoProvider = errors.New("llm: no text-generation provider configured")

const (
	requestTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Provider completes a prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// NewProvider selects a provider from configuration.
// A nil httpClient gets a client with a fixed per-request deadline.
func NewProvider(cfg config.LLMConfig, httpClient *http.Client) (Provider, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("llm: OPENAI_API_KEY is required for the openai provider")
		}
		return NewOpenAI(httpClient, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAIAPIKey), nil
	case config.ProviderOllama:
		return NewOllama(httpClient, cfg.OllamaBaseURL, cfg.OllamaModel), nil
	case config.ProviderStub, "":
		return Stub{}, nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// Stub is the offline provider.
type Stub struct{}

// Name implements Provider.
func (Stub) Name() string { return config.ProviderStub }

// Complete implements Provider.
func (Stub) Complete(context.Context, string, string) (string, error) {
	return "", ErrNoProvider
}

// postJSON sends one JSON request and decodes a JSON response.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("llm: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("llm: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("llm: provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(excerpt))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("llm: decode response: %w", err)
	}
	return nil
}
