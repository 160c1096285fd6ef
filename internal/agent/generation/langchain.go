package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
	errx "github.com/PawsConnect/pawsbot/internal/core/error"
)

// LangchainBackend implements Backend on top of any langchaingo model.
type LangchainBackend struct {
	llm         llms.Model
	maxTokens   int
	temperature float64
}

func NewLangchainBackend(llm llms.Model, config model.GenerationModelConfig) *LangchainBackend {
	return &LangchainBackend{
		llm:         llm,
		maxTokens:   config.MaxTokens,
		temperature: float64(config.Temperature),
	}
}

// NewGoogleAIBackend builds a langchaingo Google AI model for the given key.
func NewGoogleAIBackend(ctx context.Context, apiKey string, config model.GenerationModelConfig) (*LangchainBackend, error) {
	opts := []googleai.Option{
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(config.Model),
	}
	if config.MaxTokens > 0 {
		opts = append(opts, googleai.WithDefaultMaxTokens(config.MaxTokens))
	}
	llm, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create googleai llm: %w", err)
	}
	return NewLangchainBackend(llm, config), nil
}

func (b *LangchainBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	callOpts := []llms.CallOption{llms.WithTemperature(b.temperature)}
	if b.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(b.maxTokens))
	}

	resp, err := b.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}, callOpts...)
	if err != nil {
		return "", errx.WrapGeneration(err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", errx.WrapGeneration(errors.New("no choices in response"))
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

var _ Backend = (*LangchainBackend)(nil)
