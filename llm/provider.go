package llm

import (
	"context"
	"fmt"

	"github.com/storechat/ragengine/config"
)

// GenerateOptions selects model and sampling parameters for one call.
type GenerateOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Stream      bool
}

// Generation is the model invocation result.
type Generation struct {
	Response       string
	Model          string
	GenerationTime float64 // seconds
}

// Provider invokes a language model.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, opts GenerateOptions) (*Generation, error)
	GetProviderType() string
}

// NewProvider creates an LLM provider from config.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
