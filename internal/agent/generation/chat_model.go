package generation

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
	errx "github.com/PawsConnect/pawsbot/internal/core/error"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

// ChatModelBackend drives any Eino chat model (Gemini in production).
type ChatModelBackend struct {
	chatModel einomodel.BaseChatModel
	modelName string
}

func NewChatModelBackend(chatModel einomodel.BaseChatModel, modelName string) *ChatModelBackend {
	return &ChatModelBackend{chatModel: chatModel, modelName: modelName}
}

func (b *ChatModelBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      b.modelName,
		Type:      "ChatModel",
		Component: components.ComponentOfChatModel,
	})
	out, err := b.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	})
	if err != nil {
		return "", errx.WrapGeneration(err)
	}
	if out == nil {
		return "", errx.WrapGeneration(errors.New("nil model response"))
	}

	if cost := model.UsageCostOf(b.modelName, out); cost != nil {
		logx.Debug().
			Str("model", cost.Model).
			Int("prompt_tokens", cost.PromptTokens).
			Int("completion_tokens", cost.CompletionTokens).
			Int("total_tokens", cost.TotalTokens).
			Float64("input_cost_usd", cost.InputCost).
			Float64("output_cost_usd", cost.OutputCost).
			Float64("total_cost_usd", cost.TotalCost).
			Msg("LLM usage")
	}

	return strings.TrimSpace(out.Content), nil
}

var _ Backend = (*ChatModelBackend)(nil)
