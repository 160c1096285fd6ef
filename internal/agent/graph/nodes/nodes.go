package nodes

import (
	"context"
	"fmt"
	"slices"

	"github.com/cloudwego/eino/compose"

	"github.com/PawsConnect/pawsbot/internal/agent/graph/classifier"
	"github.com/PawsConnect/pawsbot/internal/agent/model"
	errx "github.com/PawsConnect/pawsbot/internal/core/error"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

// Func is one processing step: it reads the run state and says where to go next.
type Func func(ctx context.Context, state *model.RunState) (model.NodeResult, error)

const (
	StepClassification = "classification"
	StepRouting        = "routing"
	StepHandled        = "handled"
	StepFollowup       = "followup"
)

// NewNodeLambda adapts a node function to an Eino lambda. The result's Next
// must be one of allowed; anything else is a graph definition bug.
func NewNodeLambda(id model.NodeID, fn Func, allowed []model.NodeID) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *model.RunState) (out *model.RunState, err error) {
		defer func() {
			if r := recover(); r != nil {
				cause := fmt.Errorf("node %s panic: %v", id, r)
				if id == model.NodeClassify {
					out, err = nil, errx.Classification(cause)
					return
				}
				out, err = nil, errx.Internal(cause)
			}
		}()

		res, err := fn(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
		if !slices.Contains(allowed, res.Next) {
			logx.Error().
				Str("run_id", in.RunID).
				Str("node", string(id)).
				Str("next", string(res.Next)).
				Msg("Node routed outside its edge set")
			return nil, errx.UnknownNode(string(id), string(res.Next))
		}
		return in.Apply(res), nil
	})
}

// NewStartPreHandler seeds the graph-local state for a new run. It is the
// work of the implicit start node and runs in front of classify.
func NewStartPreHandler() func(context.Context, *model.RunState, *model.AppState) (*model.RunState, error) {
	return func(ctx context.Context, in *model.RunState, s *model.AppState) (*model.RunState, error) {
		s.RunID = in.RunID
		s.Path = []model.NodeID{model.NodeClassify}

		out := *in
		out.Step = StepClassification
		out.Path = slices.Clone(s.Path)
		return &out, nil
	}
}

// NewTracePreHandler records that id is about to run.
func NewTracePreHandler(id model.NodeID) func(context.Context, *model.RunState, *model.AppState) (*model.RunState, error) {
	return func(ctx context.Context, in *model.RunState, s *model.AppState) (*model.RunState, error) {
		s.Path = append(s.Path, id)

		out := *in
		out.Path = slices.Clone(s.Path)
		logx.Debug().Str("run_id", s.RunID).Str("node", string(id)).Msg("Entering node")
		return &out, nil
	}
}

// NewNextNodeCondition routes on the successor the previous node chose.
func NewNextNodeCondition() func(context.Context, *model.RunState) (string, error) {
	return func(ctx context.Context, in *model.RunState) (string, error) {
		return string(in.Next), nil
	}
}

// Classify runs the keyword classifier and picks the topic handler.
func Classify(ctx context.Context, state *model.RunState) (model.NodeResult, error) {
	c := classifier.Classify(state.Message)
	logx.Debug().
		Str("run_id", state.RunID).
		Str("category", string(c.Category)).
		Str("urgency", string(c.Urgency)).
		Float64("confidence", c.Confidence).
		Msg("Message classified")
	return model.NodeResult{
		Next: model.TopicNode(c.Category),
		Updates: model.Updates{
			Classification: &c,
			Step:           StepRouting,
		},
	}, nil
}

// Followup keeps the conversation open; it passes the handler's reply through unchanged.
func Followup(ctx context.Context, state *model.RunState) (model.NodeResult, error) {
	return model.NodeResult{
		Next:     model.NodeEnd,
		Response: state.Response,
		Updates:  model.Updates{Step: StepFollowup},
	}, nil
}
