package graph

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	"github.com/PawsConnect/pawsbot/internal/agent/generation"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/conversations"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/fallback"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/nodes"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/observers"
	"github.com/PawsConnect/pawsbot/internal/agent/graph/prompts"
	"github.com/PawsConnect/pawsbot/internal/agent/model"
	errx "github.com/PawsConnect/pawsbot/internal/core/error"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

const (
	minSymptomsLen = 5
	maxSymptomsLen = 500

	// SummarizerUserID is the conversation owner for answer summaries.
	SummarizerUserID = "system-summarizer"
)

// Config holds everything needed to compose the engine end-to-end.
type Config struct {
	Backend      generation.Backend
	Store        *conversations.Store
	Conversation model.ConversationConfig
	Prompt       model.PromptConfig
}

// Engine runs PawsBot conversations through the compiled graph and keeps
// per-user history.
type Engine struct {
	runnable compose.Runnable[*model.RunState, *model.RunState]
	store    *conversations.Store
	config   model.ConversationConfig
	locks    *userLocks

	now      func() time.Time
	newRunID func() string
}

// DefaultHandlers wires the production node functions.
func DefaultHandlers(backend generation.Backend, prompt model.PromptConfig, conv model.ConversationConfig) map[model.NodeID]nodes.Func {
	topic := func(c model.Category, turns int) nodes.Func {
		return nodes.NewTopicHandler(c, backend, prompt, turns).Handle
	}
	return map[model.NodeID]nodes.Func{
		model.NodeClassify:  nodes.Classify,
		model.NodeEmergency: nodes.Emergency,
		model.NodeHealth:    topic(model.CategoryHealth, 0),
		model.NodeBehavior:  topic(model.CategoryBehavior, 0),
		model.NodeNutrition: topic(model.CategoryNutrition, 0),
		model.NodeGeneral:   topic(model.CategoryGeneral, conv.GeneralContextTurns),
		model.NodeFollowup:  nodes.Followup,
	}
}

// BuildEngine builds the default handlers and graph and returns a ready Engine.
func BuildEngine(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Backend == nil {
		cfg.Backend = generation.Unavailable()
	}
	return NewEngine(ctx, cfg, DefaultHandlers(cfg.Backend, cfg.Prompt, cfg.Conversation))
}

// NewEngine compiles a graph over handlers. Any missing or extra handler is
// a construction error.
func NewEngine(ctx context.Context, cfg Config, handlers map[model.NodeID]nodes.Func) (*Engine, error) {
	if cfg.Conversation.HistoryLimit <= 0 {
		cfg.Conversation.HistoryLimit = model.DefaultConversationConfig().HistoryLimit
	}
	if cfg.Conversation.Retention <= 0 {
		cfg.Conversation.Retention = model.DefaultConversationConfig().Retention
	}
	if cfg.Store == nil {
		cfg.Store = conversations.NewStore(cfg.Conversation)
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{Handlers: handlers})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Conversation engine built successfully")
	return &Engine{
		runnable: runnable,
		store:    cfg.Store,
		config:   cfg.Conversation,
		locks:    newUserLocks(),
		now:      time.Now,
		newRunID: uuid.NewString,
	}, nil
}

// Store exposes the conversation store backing the engine.
func (e *Engine) Store() *conversations.Store {
	return e.store
}

// Sweeper returns a background sweeper over the engine's store using the
// configured interval and retention.
func (e *Engine) Sweeper() *conversations.Sweeper {
	return conversations.NewSweeper(e.store, e.config.SweepInterval, e.config.Retention)
}

// Cleanup drops conversations idle longer than the configured retention.
func (e *Engine) Cleanup() int {
	return e.store.Sweep(e.config.Retention)
}

// ProcessMessage runs one user message through the graph. It never fails:
// internal errors come back as an unsuccessful Reply carrying a safe text.
func (e *Engine) ProcessMessage(ctx context.Context, userID, message string, callerCtx map[string]any) model.Reply {
	runID := e.newRunID()
	started := e.now()

	if e.config.SerializeUserRuns {
		unlock := e.locks.Lock(userID)
		defer unlock()
	}
	if e.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.RunTimeout)
		defer cancel()
	}

	out, err := e.run(ctx, runID, userID, message, callerCtx)
	if err != nil {
		logx.Error().
			Err(err).
			Int("status", errx.StatusOf(err)).
			Str("run_id", runID).
			Str("user_id", userID).
			Msg("PawsBot run failed")

		res := fallback.Catastrophic(message)
		return model.Reply{
			Success:   false,
			Response:  res.Response,
			Urgency:   res.Urgency,
			Category:  res.Category,
			Context:   map[string]any{"fallback": true},
			Timestamp: e.now(),
			RunID:     runID,
		}
	}

	var persisted map[string]any
	if e.config.MergeCallerContext {
		persisted = out.Context
	}
	e.store.Update(userID, model.Exchange{
		UserMessage: message,
		BotResponse: out.Response,
		Category:    out.Classification.Category,
		Urgency:     out.Classification.Urgency,
		Timestamp:   e.now(),
	}, persisted)

	logx.Info().
		Str("run_id", runID).
		Str("user_id", userID).
		Str("category", string(out.Classification.Category)).
		Str("urgency", string(out.Classification.Urgency)).
		Bool("needs_followup", out.NeedsFollowup).
		Strs("path", pathStrings(out.Path)).
		Dur("elapsed", e.now().Sub(started)).
		Msg("PawsBot run completed")

	return model.Reply{
		Success:       true,
		Response:      out.Response,
		Urgency:       out.Classification.Urgency,
		Category:      out.Classification.Category,
		NeedsFollowup: out.NeedsFollowup,
		Confidence:    out.Classification.Confidence,
		Context:       out.Context,
		Timestamp:     e.now(),
		RunID:         runID,
	}
}

// Trace runs a message like ProcessMessage and also returns the visited nodes,
// bracketed by start and end.
func (e *Engine) Trace(ctx context.Context, userID, message string, callerCtx map[string]any) (model.Reply, []model.NodeID) {
	var path []model.NodeID
	ctx = context.WithValue(ctx, tracePathKey{}, &path)
	reply := e.ProcessMessage(ctx, userID, message, callerCtx)
	return reply, path
}

type tracePathKey struct{}

func (e *Engine) run(ctx context.Context, runID, userID, message string, callerCtx map[string]any) (out *model.RunState, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errx.Internal(fmt.Errorf("conversation run panic: %v", r))
		}
	}()

	conv := e.store.Get(userID)
	runCtx := conv.Context
	maps.Copy(runCtx, callerCtx)

	in := &model.RunState{
		RunID:   runID,
		UserID:  userID,
		Message: message,
		History: conv.History,
		Context: runCtx,
		Next:    model.NodeClassify,
	}

	out, err = e.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks(runID)...))
	if err != nil {
		return nil, asInternal(err)
	}
	if out == nil || strings.TrimSpace(out.Response) == "" {
		return nil, errx.Internal(errors.New("run finished without a response"))
	}

	if p, ok := ctx.Value(tracePathKey{}).(*[]model.NodeID); ok {
		*p = append(append([]model.NodeID{model.NodeStart}, out.Path...), model.NodeEnd)
	}
	return out, nil
}

func asInternal(err error) error {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return errx.Internal(err)
}

// EmergencyCheck assesses a symptom report. Symptoms must be 5 to 500
// characters; the pet profile is optional.
func (e *Engine) EmergencyCheck(ctx context.Context, userID, symptoms string, pet *model.PetInfo) (model.EmergencyAssessment, error) {
	symptoms = strings.TrimSpace(symptoms)
	if n := utf8.RuneCountInString(symptoms); n < minSymptomsLen || n > maxSymptomsLen {
		return model.EmergencyAssessment{}, errx.New(
			fmt.Errorf("symptoms length %d out of range", n),
			http.StatusBadRequest,
			fmt.Sprintf("Symptoms description must be between %d and %d characters", minSymptomsLen, maxSymptomsLen),
		)
	}

	callerCtx := map[string]any{"type": "emergency", "urgent": true}
	if pet != nil {
		callerCtx[model.PetInfoKey] = *pet
	}

	reply := e.ProcessMessage(ctx, userID, prompts.EmergencyCheckMessage(symptoms, pet), callerCtx)
	return model.EmergencyAssessment{
		Symptoms:        symptoms,
		Assessment:      reply.Response,
		UrgencyLevel:    reply.Urgency,
		Category:        reply.Category,
		ImmediateAction: reply.Urgency == model.UrgencyCritical || reply.Urgency == model.UrgencyHigh,
		VetRecommended:  reply.Urgency != model.UrgencyLow,
		Confidence:      reply.Confidence,
		Timestamp:       reply.Timestamp,
	}, nil
}

// SummarizeAnswers condenses community answers to a post.
func (e *Engine) SummarizeAnswers(ctx context.Context, postID string, answers []string) (model.AnswerSummary, error) {
	answers = slices.DeleteFunc(slices.Clone(answers), func(a string) bool {
		return strings.TrimSpace(a) == ""
	})
	if len(answers) == 0 {
		return model.AnswerSummary{}, errx.New(errors.New("no answers"), http.StatusBadRequest, "At least one answer is required")
	}

	reply := e.ProcessMessage(ctx, SummarizerUserID, prompts.SummaryMessage(answers), map[string]any{
		"type":   "summary",
		"postId": postID,
	})
	return model.AnswerSummary{
		PostID:       postID,
		Summary:      reply.Response,
		AnswersCount: len(answers),
		Confidence:   reply.Confidence,
		Timestamp:    reply.Timestamp,
	}, nil
}

func pathStrings(path []model.NodeID) []string {
	out := make([]string, len(path))
	for i, id := range path {
		out[i] = string(id)
	}
	return out
}
