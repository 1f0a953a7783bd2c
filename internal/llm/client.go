// Package llm adapts hosted and local chat models to a single blocking
// completion call.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

const (
	groqBaseURL          = "https://api.groq.com/openai/v1/"
	ollamaDefaultBaseURL = "http://localhost:11434"
)

// Prompt is sent to the model as a single user message.
type Prompt struct {
	User string
}

// Client sends one prompt and returns the model's text reply. Implementations
// are safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

type Settings struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func New(settings Settings) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(settings.Provider))
	if provider == "" {
		provider = ProviderGroq
	}
	settings.Provider = provider
	if strings.TrimSpace(settings.Model) == "" {
		settings.Model = DefaultModel(provider)
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 60 * time.Second
	}

	switch provider {
	case ProviderGroq:
		if strings.TrimSpace(settings.BaseURL) == "" {
			settings.BaseURL = groqBaseURL
		}
		return NewOpenAIClient(settings)
	case ProviderOpenAI:
		return NewOpenAIClient(settings)
	case ProviderAnthropic:
		return NewAnthropicClient(settings)
	case ProviderOllama:
		return NewOllamaClient(settings)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", settings.Provider)
	}
}

func DefaultModel(provider string) string {
	switch provider {
	case ProviderGroq:
		return "llama3-8b-8192"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderOllama:
		return "llama3"
	default:
		return ""
	}
}
