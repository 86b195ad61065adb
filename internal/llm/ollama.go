package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/deskflow/ticket-assistant/internal/config"
)

// Ollama implements Provider for a local Ollama server.
type Ollama struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewOllama creates an Ollama provider.
func NewOllama(httpClient *http.Client, baseURL, model string) *Ollama {
	return &Ollama{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Name implements Provider.
func (p *Ollama) Name() string { return config.ProviderOllama }

// Complete calls /api/generate with streaming disabled.
func (p *Ollama) Complete(ctx context.Context, system, prompt string) (string, error) {
	var response ollamaResponse
	request := ollamaRequest{Model: p.model, Prompt: prompt, System: system}
	if err := postJSON(ctx, p.httpClient, p.baseURL+"/api/generate", nil, request, &response); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
