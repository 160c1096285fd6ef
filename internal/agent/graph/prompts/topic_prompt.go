package prompts

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
)

//go:embed template/*.txt
var templateFS embed.FS

// historySnippetLen caps how much of an earlier bot reply is replayed to the model.
const historySnippetLen = 100

// TopicInput is what a topic handler knows when it builds its prompt.
type TopicInput struct {
	Message string
	Pet     model.PetInfo
	// History is already limited to the turns the topic should see.
	History []model.Exchange
}

// Rendered is a ready-to-send prompt pair.
type Rendered struct {
	System string
	User   string
}

type historyLine struct {
	User string
	Bot  string
}

// RenderTopic renders the system and user prompt for one topic via the Eino
// prompt component, so prompt callbacks fire inside graph runs.
func RenderTopic(ctx context.Context, config model.PromptConfig, category model.Category, in TopicInput) (Rendered, error) {
	systemTpl, err := templateFS.ReadFile(fmt.Sprintf("template/%s.system.txt", category))
	if err != nil {
		return Rendered{}, fmt.Errorf("no prompt template for %q: %w", category, err)
	}
	userTpl, err := templateFS.ReadFile(fmt.Sprintf("template/%s.user.txt", category))
	if err != nil {
		return Rendered{}, fmt.Errorf("no prompt template for %q: %w", category, err)
	}

	lines := make([]historyLine, 0, len(in.History))
	for _, h := range in.History {
		lines = append(lines, historyLine{User: h.UserMessage, Bot: clip(h.BotResponse, historySnippetLen)})
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(strings.TrimSpace(string(systemTpl))),
		schema.UserMessage(strings.TrimSpace(string(userTpl))),
	)
	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      string(category) + "_prompt",
		Type:      "GoTemplate",
		Component: components.ComponentOfPrompt,
	})
	msgs, err := tpl.Format(ctx, map[string]any{
		"AssistantName": config.AssistantName,
		"CommunityName": config.CommunityName,
		"Message":       in.Message,
		"HasPet":        !in.Pet.IsZero(),
		"PetSummary":    PetSummary(in.Pet),
		"History":       lines,
	})
	if err != nil {
		return Rendered{}, fmt.Errorf("%s prompt render: %w", category, err)
	}
	if len(msgs) != 2 || msgs[0] == nil || msgs[1] == nil {
		return Rendered{}, fmt.Errorf("%s prompt render: unexpected result", category)
	}
	return Rendered{System: msgs[0].Content, User: msgs[1].Content}, nil
}

// PetSummary renders "dog, 3 years old, Beagle, 12kg" style descriptions.
func PetSummary(p model.PetInfo) string {
	if p.IsZero() {
		return ""
	}
	parts := make([]string, 0, 4)
	if p.Type != "" {
		parts = append(parts, p.Type)
	}
	if p.Age != "" {
		parts = append(parts, p.Age+" years old")
	}
	if p.Breed != "" {
		parts = append(parts, p.Breed)
	}
	if p.Weight != "" {
		parts = append(parts, p.Weight)
	}
	return strings.Join(parts, ", ")
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
