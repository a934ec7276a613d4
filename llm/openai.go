package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/storechat/ragengine/config"
)

const systemInstruction = "You are a helpful storefront shopping assistant. Answer using the store information provided in the prompt and be honest when it does not cover the question."

type openAIProvider struct {
	client       openai.Client
	defaultModel string
}

func newOpenAIProvider(cfg config.LLMConfig) *openAIProvider {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openAIProvider{client: openai.NewClient(opts...), defaultModel: model}
}

func (p *openAIProvider) GetProviderType() string { return "openai" }

func (p *openAIProvider) GenerateResponse(ctx context.Context, prompt string, opts GenerateOptions) (*Generation, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(model),
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	start := time.Now()
	if opts.Stream {
		return p.generateStreaming(ctx, params, start)
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("generate completion failed, err: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("generate completion failed, err: empty choices")
	}
	return &Generation{
		Response:       resp.Choices[0].Message.Content,
		Model:          resp.Model,
		GenerationTime: time.Since(start).Seconds(),
	}, nil
}

// generateStreaming consumes the SSE stream and accumulates the chunks into
// one completion, so callers see the same Generation either way.
func (p *openAIProvider) generateStreaming(ctx context.Context, params openai.ChatCompletionNewParams, start time.Time) (*Generation, error) {
	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		acc.AddChunk(stream.Current())
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("generate completion stream failed, err: %w", err)
	}
	if len(acc.Choices) == 0 {
		return nil, fmt.Errorf("generate completion stream failed, err: empty choices")
	}
	return &Generation{
		Response:       acc.Choices[0].Message.Content,
		Model:          acc.Model,
		GenerationTime: time.Since(start).Seconds(),
	}, nil
}
