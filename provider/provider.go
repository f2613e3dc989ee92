package provider

import (
	"context"
	"errors"

	"github.com/fawad57/psyplex/config"
	groq_provider "github.com/fawad57/psyplex/provider/groq"
)

// Client represents different LLM providers
type Client string

const (
	Groq Client = "groq"
)

// ErrUnavailable means the provider is unconfigured or unreachable; callers
// degrade to a canned fallback instead of surfacing the failure.
var ErrUnavailable = errors.New("llm provider unavailable")

// Provider is the interface every chat/embedding implementation satisfies
type Provider interface {
	ChatCompletion(ctx context.Context, system, user string) (string, error)
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// NewProvider creates an LLM client from configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case Groq, "":
		if cfg.APIKey == "" {
			return nil, ErrUnavailable
		}
		return groq_provider.NewGroqClient(
			cfg.APIKey,
			cfg.Model,
			cfg.EmbeddingKey,
			cfg.EmbeddingModel,
			cfg.Temperature,
			cfg.MaxTokens,
			cfg.Timeout,
		), nil
	default:
		return nil, errors.New("unsupported LLM provider: " + cfg.Provider)
	}
}
