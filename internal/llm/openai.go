package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint,
// including Groq.
type OpenAIClient struct {
	client      openai.Client
	provider    string
	model       string
	temperature float64
	maxTokens   int
}

func NewOpenAIClient(settings Settings) (*OpenAIClient, error) {
	apiKey := strings.TrimSpace(settings.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required for provider %q", settings.Provider)
	}
	model := strings.TrimSpace(settings.Model)
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := strings.TrimSpace(settings.BaseURL); baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if settings.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(settings.Timeout))
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		provider:    settings.Provider,
		model:       model,
		temperature: settings.Temperature,
		maxTokens:   settings.MaxTokens,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt.User)},
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s chat completion: empty choices", c.provider)
	}
	return resp.Choices[0].Message.Content, nil
}
