package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/deskflow/ticket-assistant/internal/config"
)

// OpenAI implements Provider for the Chat Completions API and compatible servers.
type OpenAI struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// NewOpenAI creates an OpenAI-compatible provider.
func NewOpenAI(httpClient *http.Client, baseURL, model, apiKey string) *OpenAI {
	return &OpenAI{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
	}
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
}

type openaiResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
}

// Name implements Provider.
func (p *OpenAI) Name() string { return config.ProviderOpenAI }

// Complete sends a non-streaming chat completion request.
func (p *OpenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	request := openaiRequest{Model: p.model}
	if system != "" {
		request.Messages = append(request.Messages, openaiMessage{Role: "system", Content: system})
	}
	request.Messages = append(request.Messages, openaiMessage{Role: "user", Content: prompt})

	var response openaiResponse
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if err := postJSON(ctx, p.httpClient, p.baseURL+"/chat/completions", headers, request, &response); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", errors.New("llm/openai: response has no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
