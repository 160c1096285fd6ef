package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PawsConnect/pawsbot/internal/agent/generation"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/conversations"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/fallback"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/nodes"
	"github.com/PawsConnect/pawsbot/internal/agent/model"
)

var testPrompt = model.PromptConfig{AssistantName: "PawsBot", CommunityName: "PawsConnect"}

func failingBackend() generation.Backend {
	return generation.Func(func(context.Context, string, string) (string, error) {
		return "", errors.New("model overloaded")
	})
}

func echoBackend(text string) generation.Backend {
	return generation.Func(func(context.Context, string, string) (string, error) {
		return text, nil
	})
}

func newTestEngine(t *testing.T, backend generation.Backend) *Engine {
	t.Helper()
	e, err := BuildEngine(context.Background(), Config{
		Backend:      backend,
		Conversation: model.DefaultConversationConfig(),
		Prompt:       testPrompt,
	})
	require.NoError(t, err)
	return e
}

func TestEmergencyPathIgnoresBackend(t *testing.T) {
	for name, backend := range map[string]generation.Backend{
		"failing":     failingBackend(),
		"unavailable": generation.Unavailable(),
		"working":     echoBackend("should never be used"),
	} {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t, backend)
			reply, path := e.Trace(context.Background(), "alice", "My dog is having a seizure!", nil)

			assert.True(t, reply.Success)
			assert.Equal(t, model.CategoryEmergency, reply.Category)
			assert.Equal(t, model.UrgencyCritical, reply.Urgency)
			assert.Equal(t, fallback.EmergencyScript, reply.Response)
			assert.Contains(t, reply.Response, fallback.PoisonControl)
			assert.False(t, reply.NeedsFollowup)
			assert.InDelta(t, 0.95, reply.Confidence, 1e-9)
			assert.Equal(t, []model.NodeID{model.NodeStart, model.NodeClassify, model.NodeEmergency, model.NodeEnd}, path)
		})
	}
}

func TestEmergencyWinsOverDiet(t *testing.T) {
	e := newTestEngine(t, failingBackend())
	reply := e.ProcessMessage(context.Background(), "alice", "I'm worried about my dog's diet, this feels like an emergency", nil)
	assert.Equal(t, model.CategoryEmergency, reply.Category)
}

func TestHealthBackendFailureServesFallback(t *testing.T) {
	e := newTestEngine(t, failingBackend())
	reply, path := e.Trace(context.Background(), "alice", "My cat is vomiting", nil)

	assert.True(t, reply.Success)
	assert.Equal(t, model.CategoryHealth, reply.Category)
	assert.Equal(t, model.UrgencyHigh, reply.Urgency)
	assert.Contains(t, reply.Response, "call your vet")
	assert.False(t, reply.NeedsFollowup)
	assert.NotContains(t, reply.Response, "model overloaded")
	assert.Equal(t, []model.NodeID{model.NodeStart, model.NodeClassify, model.NodeHealth, model.NodeEnd}, path)
}

func TestTopicSuccessGoesThroughFollowup(t *testing.T) {
	e := newTestEngine(t, echoBackend("Rabbits love cardboard tunnels."))
	reply, path := e.Trace(context.Background(), "alice", "Which toys are fun for a rabbit?", nil)

	assert.True(t, reply.Success)
	assert.Equal(t, model.CategoryGeneral, reply.Category)
	assert.True(t, reply.NeedsFollowup)
	assert.Contains(t, reply.Response, "Rabbits love cardboard tunnels.")
	assert.NotEmpty(t, reply.RunID)
	assert.Equal(t, []model.NodeID{
		model.NodeStart, model.NodeClassify, model.NodeGeneral, model.NodeFollowup, model.NodeEnd,
	}, path)
}

func TestEveryRunHasAResponse(t *testing.T) {
	messages := []string{
		"", "   ", "help", "urgent", "my dog is sick", "barking", "treats", "hello",
		"I'm worried about my dog's diet, this feels like an emergency",
		strings.Repeat("long message ", 200),
	}
	for _, backend := range []generation.Backend{failingBackend(), echoBackend("prose"), echoBackend("")} {
		e := newTestEngine(t, backend)
		for _, msg := range messages {
			reply := e.ProcessMessage(context.Background(), "alice", msg, nil)
			assert.NotEmpty(t, strings.TrimSpace(reply.Response), msg)
		}
	}
}

func TestHistoryKeepsLastTen(t *testing.T) {
	e := newTestEngine(t, failingBackend())
	for i := 1; i <= 15; i++ {
		reply := e.ProcessMessage(context.Background(), "alice", fmt.Sprintf("question %d about toys", i), nil)
		require.True(t, reply.Success)
	}

	st := e.Store().Get("alice")
	require.Len(t, st.History, 10)
	for i, h := range st.History {
		assert.Equal(t, fmt.Sprintf("question %d about toys", i+6), h.UserMessage)
		assert.NotEmpty(t, h.BotResponse)
		assert.Equal(t, model.CategoryGeneral, h.Category)
	}
}

func TestGeneralHandlerSeesRecentHistory(t *testing.T) {
	var prompts []string
	backend := generation.Func(func(_ context.Context, _, userPrompt string) (string, error) {
		prompts = append(prompts, userPrompt)
		return "answer", nil
	})
	e := newTestEngine(t, backend)

	e.ProcessMessage(context.Background(), "alice", "Which toys are fun for a rabbit?", nil)
	e.ProcessMessage(context.Background(), "alice", "And for a hamster?", nil)

	require.Len(t, prompts, 2)
	assert.NotContains(t, prompts[0], "Recent conversation context")
	assert.Contains(t, prompts[1], "User: Which toys are fun for a rabbit?")
}

func TestCallerContextIsMerged(t *testing.T) {
	e := newTestEngine(t, failingBackend())
	pet := model.PetInfo{Type: "dog", Breed: "Beagle"}

	reply := e.ProcessMessage(context.Background(), "alice", "What toys?", map[string]any{model.PetInfoKey: pet, "lang": "en"})
	assert.Equal(t, pet, reply.Context[model.PetInfoKey])
	assert.Equal(t, "en", reply.Context["lang"])

	st := e.Store().Get("alice")
	assert.Equal(t, "en", st.Context["lang"])

	reply = e.ProcessMessage(context.Background(), "alice", "Anything else?", map[string]any{"lang": "th"})
	assert.Equal(t, "th", reply.Context["lang"])
	assert.Equal(t, pet, reply.Context[model.PetInfoKey])
}

func TestCallerContextNotPersistedWhenMergeDisabled(t *testing.T) {
	cfg := model.DefaultConversationConfig()
	cfg.MergeCallerContext = false
	e, err := BuildEngine(context.Background(), Config{Backend: failingBackend(), Conversation: cfg, Prompt: testPrompt})
	require.NoError(t, err)

	reply := e.ProcessMessage(context.Background(), "alice", "What toys?", map[string]any{"lang": "en"})
	assert.Equal(t, "en", reply.Context["lang"])
	assert.Empty(t, e.Store().Get("alice").Context)
}

func handlersWith(override map[model.NodeID]nodes.Func) map[model.NodeID]nodes.Func {
	h := DefaultHandlers(failingBackend(), testPrompt, model.DefaultConversationConfig())
	for id, fn := range override {
		h[id] = fn
	}
	return h
}

func TestClassifierPanicYieldsUnsuccessfulReply(t *testing.T) {
	e, err := NewEngine(context.Background(), Config{Conversation: model.DefaultConversationConfig()}, handlersWith(map[model.NodeID]nodes.Func{
		model.NodeClassify: func(context.Context, *model.RunState) (model.NodeResult, error) {
			panic("classifier exploded")
		},
	}))
	require.NoError(t, err)

	reply := e.ProcessMessage(context.Background(), "alice", "This is urgent, my cat is choking", nil)
	assert.False(t, reply.Success)
	assert.Equal(t, model.CategoryEmergency, reply.Category)
	assert.Equal(t, model.UrgencyCritical, reply.Urgency)
	assert.Contains(t, reply.Response, fallback.PoisonControl)

	reply = e.ProcessMessage(context.Background(), "alice", "What toys?", nil)
	assert.False(t, reply.Success)
	assert.Equal(t, model.CategoryGeneral, reply.Category)
	assert.NotEmpty(t, reply.Response)

	assert.Empty(t, e.Store().Get("alice").History)
}

func TestUnknownSuccessorFailsRun(t *testing.T) {
	e, err := NewEngine(context.Background(), Config{Conversation: model.DefaultConversationConfig()}, handlersWith(map[model.NodeID]nodes.Func{
		model.NodeClassify: func(context.Context, *model.RunState) (model.NodeResult, error) {
			return model.NodeResult{Next: "grooming"}, nil
		},
	}))
	require.NoError(t, err)

	reply := e.ProcessMessage(context.Background(), "alice", "What toys?", nil)
	assert.False(t, reply.Success)
	assert.NotEmpty(t, reply.Response)
}

func TestNodeErrorFailsRun(t *testing.T) {
	brokenFollowup := func(context.Context, *model.RunState) (model.NodeResult, error) {
		return model.NodeResult{}, errors.New("broken followup")
	}
	e, err := NewEngine(context.Background(), Config{Conversation: model.DefaultConversationConfig()}, handlersWith(map[model.NodeID]nodes.Func{
		model.NodeGeneral:  nodes.NewTopicHandler(model.CategoryGeneral, echoBackend("prose"), testPrompt, 0).Handle,
		model.NodeFollowup: brokenFollowup,
	}))
	require.NoError(t, err)

	reply := e.ProcessMessage(context.Background(), "alice", "What toys?", nil)
	assert.False(t, reply.Success)
	assert.NotEmpty(t, reply.Response)

	// a topic that falls back ends before followup
	assert.True(t, e.ProcessMessage(context.Background(), "alice", "My cat is vomiting", nil).Success)
}

func TestHandlerTableValidation(t *testing.T) {
	h := handlersWith(nil)
	delete(h, model.NodeNutrition)
	_, err := NewEngine(context.Background(), Config{}, h)
	assert.ErrorContains(t, err, "nutrition")

	h = handlersWith(map[model.NodeID]nodes.Func{"grooming": nodes.Followup})
	_, err = NewEngine(context.Background(), Config{}, h)
	assert.ErrorContains(t, err, "grooming")

	_, err = BuildGraph(context.Background(), nil)
	assert.Error(t, err)
}

func TestRunsAreSerializedPerUser(t *testing.T) {
	var inFlight, maxInFlight int32
	backend := generation.Func(func(context.Context, string, string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		return "answer", nil
	})
	e := newTestEngine(t, backend)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.ProcessMessage(context.Background(), "alice", fmt.Sprintf("toys %d", i), nil)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
	assert.Len(t, e.Store().Get("alice").History, 10)
	assert.Zero(t, e.locks.size())
}

func TestCleanup(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := conversations.NewStore(model.DefaultConversationConfig(), conversations.WithClock(clock))

	e, err := BuildEngine(context.Background(), Config{
		Backend:      failingBackend(),
		Store:        store,
		Conversation: model.DefaultConversationConfig(),
		Prompt:       testPrompt,
	})
	require.NoError(t, err)

	e.ProcessMessage(context.Background(), "old", "What toys?", nil)
	now = now.Add(24 * time.Hour)
	e.ProcessMessage(context.Background(), "recent", "What toys?", nil)
	now = now.Add(time.Hour)

	assert.Equal(t, 1, e.Cleanup())
	assert.False(t, store.Has("old"))
	assert.True(t, store.Has("recent"))
}

func TestEmergencyCheck(t *testing.T) {
	e := newTestEngine(t, failingBackend())

	_, err := e.EmergencyCheck(context.Background(), "alice", "hmm", nil)
	assert.Error(t, err)
	_, err = e.EmergencyCheck(context.Background(), "alice", strings.Repeat("x", 501), nil)
	assert.Error(t, err)

	got, err := e.EmergencyCheck(context.Background(), "alice", "not breathing properly", &model.PetInfo{Type: "cat", Age: "12"})
	require.NoError(t, err)
	assert.Equal(t, "not breathing properly", got.Symptoms)
	assert.Equal(t, model.UrgencyCritical, got.UrgencyLevel)
	assert.Equal(t, model.CategoryEmergency, got.Category)
	assert.True(t, got.ImmediateAction)
	assert.True(t, got.VetRecommended)
	assert.Contains(t, got.Assessment, fallback.PoisonControl)

	st := e.Store().Get("alice")
	assert.Equal(t, "emergency", st.Context["type"])
	assert.Equal(t, true, st.Context["urgent"])
}

func TestSummarizeAnswers(t *testing.T) {
	e := newTestEngine(t, echoBackend("Most people suggest a harness."))

	_, err := e.SummarizeAnswers(context.Background(), "post-1", []string{" ", ""})
	assert.Error(t, err)

	got, err := e.SummarizeAnswers(context.Background(), "post-1", []string{"Use a harness", "", "Walk twice a day"})
	require.NoError(t, err)
	assert.Equal(t, "post-1", got.PostID)
	assert.Equal(t, 2, got.AnswersCount)
	assert.Contains(t, got.Summary, "Most people suggest a harness.")
	assert.True(t, e.Store().Has(SummarizerUserID))
	assert.Equal(t, "post-1", e.Store().Get(SummarizerUserID).Context["postId"])
}
