package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaClient calls a local Ollama server. It needs no credential.
type OllamaClient struct {
	client      *api.Client
	model       string
	temperature float64
	maxTokens   int
}

func NewOllamaClient(settings Settings) (*OllamaClient, error) {
	baseURL := strings.TrimSpace(settings.BaseURL)
	if baseURL == "" {
		baseURL = ollamaDefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid ollama base url %q", baseURL)
	}

	httpClient := &http.Client{Timeout: settings.Timeout}
	return &OllamaClient{
		client:      api.NewClient(parsed, httpClient),
		model:       settings.Model,
		temperature: settings.Temperature,
		maxTokens:   settings.MaxTokens,
	}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	options := map[string]any{"temperature": c.temperature}
	if c.maxTokens > 0 {
		options["num_predict"] = c.maxTokens
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: []api.Message{{Role: "user", Content: prompt.User}},
		Stream:   &stream,
		Options:  options,
	}

	var reply strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return reply.String(), nil
}
