package nodes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PawsConnect/pawsbot/internal/agent/generation"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/conversations"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/fallback"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/prompts"
	"github.com/PawsConnect/pawsbot/internal/agent/model"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

var errEmptyGeneration = errors.New("generation returned no text")

// Emergency answers with the fixed emergency script. It never calls the
// generation backend and never fails.
func Emergency(ctx context.Context, state *model.RunState) (model.NodeResult, error) {
	logx.Warn().
		Str("run_id", state.RunID).
		Str("user_id", state.UserID).
		Strs("keywords", state.Classification.Keywords).
		Msg("Emergency detected, serving emergency script")
	return model.NodeResult{
		Next:     model.NodeEnd,
		Response: fallback.EmergencyScript,
		Updates: model.Updates{
			NeedsFollowup: boolPtr(false),
			Step:          StepHandled,
		},
	}, nil
}

// TopicHandler answers one non-emergency category through the generation
// backend, degrading to the category's static reply when generation fails.
type TopicHandler struct {
	category     model.Category
	backend      generation.Backend
	prompt       model.PromptConfig
	historyTurns int
}

// NewTopicHandler builds the handler for category. historyTurns is how many
// recent exchanges are replayed into the prompt; zero disables it.
func NewTopicHandler(category model.Category, backend generation.Backend, prompt model.PromptConfig, historyTurns int) *TopicHandler {
	return &TopicHandler{
		category:     category,
		backend:      backend,
		prompt:       prompt,
		historyTurns: historyTurns,
	}
}

func (h *TopicHandler) Category() model.Category {
	return h.category
}

// Handle is a Func. Backend failures are absorbed here and never reach the graph.
func (h *TopicHandler) Handle(ctx context.Context, state *model.RunState) (res model.NodeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = h.fallback(state, fmt.Errorf("topic handler panic: %v", r)), nil
		}
	}()

	in := prompts.TopicInput{Message: state.Message}
	if pet, ok := model.PetInfoFromContext(state.Context); ok {
		in.Pet = pet
	}
	if h.historyTurns > 0 {
		in.History = conversations.Recent(state.History, h.historyTurns)
	}

	rendered, err := prompts.RenderTopic(ctx, h.prompt, h.category, in)
	if err != nil {
		return h.fallback(state, err), nil
	}

	text, err := h.backend.Generate(ctx, rendered.System, rendered.User)
	if err != nil {
		return h.fallback(state, err), nil
	}
	if strings.TrimSpace(text) == "" {
		return h.fallback(state, errEmptyGeneration), nil
	}

	return model.NodeResult{
		Next:     model.NodeFollowup,
		Response: wrapTopic(h.category, text),
		Updates: model.Updates{
			NeedsFollowup: boolPtr(true),
			Step:          StepHandled,
		},
	}, nil
}

func (h *TopicHandler) fallback(state *model.RunState, cause error) model.NodeResult {
	logx.Warn().
		Err(cause).
		Str("run_id", state.RunID).
		Str("category", string(h.category)).
		Msg("Generation failed, serving fallback reply")
	return model.NodeResult{
		Next:     model.NodeEnd,
		Response: fallback.ForCategory(h.category, cause.Error()),
		Updates: model.Updates{
			NeedsFollowup: boolPtr(false),
			Step:          StepHandled,
		},
	}
}
