package generation

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

// GeminiConfig holds the configuration for Gemini chat model creation.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   model.GenerationModelConfig
}

// NewGeminiChatModel creates the Gemini chat model behind PawsBot's topic handlers.
func NewGeminiChatModel(ctx context.Context, config GeminiConfig) (*gemini.ChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Model.Model,
		Temperature: &config.Model.Temperature,
		MaxTokens:   &config.Model.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(512)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini chat model")
		return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
	}

	return chatModel, nil
}

// NewGeminiBackend wires a Gemini chat model into a Backend.
func NewGeminiBackend(ctx context.Context, config GeminiConfig) (Backend, error) {
	chatModel, err := NewGeminiChatModel(ctx, config)
	if err != nil {
		return nil, err
	}
	return NewChatModelBackend(chatModel, config.Model.Model), nil
}
