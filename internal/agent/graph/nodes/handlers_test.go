package nodes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PawsConnect/pawsbot/internal/agent/generation"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/fallback"
	"github.com/PawsConnect/pawsbot/internal/agent/model"
)

var testPrompt = model.PromptConfig{AssistantName: "PawsBot", CommunityName: "PawsConnect"}

func staticBackend(text string, err error) generation.Backend {
	return generation.Func(func(context.Context, string, string) (string, error) {
		return text, err
	})
}

func TestEmergencyHandler(t *testing.T) {
	res, err := Emergency(context.Background(), &model.RunState{Message: "my dog is bleeding"})
	require.NoError(t, err)
	assert.Equal(t, model.NodeEnd, res.Next)
	assert.Equal(t, fallback.EmergencyScript, res.Response)
	require.NotNil(t, res.Updates.NeedsFollowup)
	assert.False(t, *res.Updates.NeedsFollowup)
}

func TestTopicHandlerSuccess(t *testing.T) {
	h := NewTopicHandler(model.CategoryNutrition, staticBackend("Feed twice a day.", nil), testPrompt, 0)
	res, err := h.Handle(context.Background(), &model.RunState{Message: "How much food?"})
	require.NoError(t, err)

	assert.Equal(t, model.NodeFollowup, res.Next)
	assert.Contains(t, res.Response, "Pet Nutrition Guidance")
	assert.Contains(t, res.Response, "Feed twice a day.")
	assert.Contains(t, res.Response, "Consult your vet")
	require.NotNil(t, res.Updates.NeedsFollowup)
	assert.True(t, *res.Updates.NeedsFollowup)
}

func TestTopicHandlerFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		backend generation.Backend
	}{
		{"error", staticBackend("", errors.New("quota exceeded"))},
		{"unavailable", generation.Unavailable()},
		{"blank text", staticBackend("   \n", nil)},
		{"panic", generation.Func(func(context.Context, string, string) (string, error) {
			panic("provider blew up")
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTopicHandler(model.CategoryHealth, tt.backend, testPrompt, 0)
			res, err := h.Handle(context.Background(), &model.RunState{Message: "My cat is sick"})
			require.NoError(t, err)

			assert.Equal(t, model.NodeEnd, res.Next)
			assert.Contains(t, res.Response, "call your vet")
			assert.NotContains(t, res.Response, "quota exceeded")
			require.NotNil(t, res.Updates.NeedsFollowup)
			assert.False(t, *res.Updates.NeedsFollowup)
		})
	}
}

func TestTopicHandlerPromptInputs(t *testing.T) {
	var gotUser string
	backend := generation.Func(func(_ context.Context, _, userPrompt string) (string, error) {
		gotUser = userPrompt
		return "ok", nil
	})

	state := &model.RunState{
		Message: "Any tips for cats?",
		Context: map[string]any{model.PetInfoKey: model.PetInfo{Type: "cat"}},
		History: []model.Exchange{
			{UserMessage: "first question", BotResponse: "first answer"},
			{UserMessage: "second question", BotResponse: "second answer"},
			{UserMessage: "third question", BotResponse: "third answer"},
		},
	}

	_, err := NewTopicHandler(model.CategoryGeneral, backend, testPrompt, 2).Handle(context.Background(), state)
	require.NoError(t, err)
	assert.Contains(t, gotUser, "Pet information: cat")
	assert.NotContains(t, gotUser, "first question")
	assert.Contains(t, gotUser, "second question")
	assert.Contains(t, gotUser, "third question")

	_, err = NewTopicHandler(model.CategoryGeneral, backend, testPrompt, 0).Handle(context.Background(), state)
	require.NoError(t, err)
	assert.NotContains(t, gotUser, "Recent conversation context")
}

func TestWrapTopicHasFooter(t *testing.T) {
	for _, c := range []model.Category{
		model.CategoryHealth,
		model.CategoryBehavior,
		model.CategoryNutrition,
		model.CategoryGeneral,
	} {
		out := wrapTopic(c, "  prose  ")
		assert.Contains(t, out, "prose", c)
		assert.Contains(t, strings.ToLower(out), "vet", c)
		assert.True(t, strings.HasSuffix(out, "?"), c)
	}
}
