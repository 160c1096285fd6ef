package graph

import (
	"context"
	"fmt"
	"slices"

	"github.com/cloudwego/eino/compose"

	"github.com/PawsConnect/pawsbot/internal/agent/graph/nodes"
	"github.com/PawsConnect/pawsbot/internal/agent/model"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

// Edges lists the successors each node may hand control to. A node choosing
// anything outside its list fails the run.
var Edges = map[model.NodeID][]model.NodeID{
	model.NodeStart:     {model.NodeClassify},
	model.NodeClassify:  {model.NodeEmergency, model.NodeHealth, model.NodeBehavior, model.NodeNutrition, model.NodeGeneral},
	model.NodeEmergency: {model.NodeEnd},
	model.NodeHealth:    {model.NodeFollowup, model.NodeEnd},
	model.NodeBehavior:  {model.NodeFollowup, model.NodeEnd},
	model.NodeNutrition: {model.NodeFollowup, model.NodeEnd},
	model.NodeGeneral:   {model.NodeFollowup, model.NodeEnd},
	model.NodeFollowup:  {model.NodeEnd},
}

// nodeOrder is the registration order of the executable nodes.
var nodeOrder = []model.NodeID{
	model.NodeClassify,
	model.NodeEmergency,
	model.NodeHealth,
	model.NodeBehavior,
	model.NodeNutrition,
	model.NodeGeneral,
	model.NodeFollowup,
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	Handlers map[model.NodeID]nodes.Func
}

// GraphBuilder handles the construction of the PawsBot conversation graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[*model.RunState, *model.RunState]
}

// BuildGraph constructs and returns the compiled conversation graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[*model.RunState, *model.RunState], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if err := validateHandlers(config.Handlers); err != nil {
		return nil, err
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[*model.RunState, *model.RunState](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// validateHandlers checks that the handler table and the edge table describe
// the same node set.
func validateHandlers(handlers map[model.NodeID]nodes.Func) error {
	for _, id := range nodeOrder {
		if handlers[id] == nil {
			return fmt.Errorf("no handler registered for node %q", id)
		}
	}
	for id := range handlers {
		if !slices.Contains(nodeOrder, id) {
			return fmt.Errorf("handler registered for unknown node %q", id)
		}
	}
	for from, succ := range Edges {
		for _, to := range succ {
			if to != model.NodeEnd && !slices.Contains(nodeOrder, to) {
				return fmt.Errorf("edge %s -> %s targets an unregistered node", from, to)
			}
		}
	}
	return nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	for _, id := range nodeOrder {
		pre := nodes.NewTracePreHandler(id)
		if id == model.NodeClassify {
			pre = nodes.NewStartPreHandler()
		}
		err := b.graph.AddLambdaNode(string(id),
			nodes.NewNodeLambda(id, b.config.Handlers[id], Edges[id]),
			compose.WithStatePreHandler(pre),
		)
		if err != nil {
			logx.Error().Err(err).Str("node", string(id)).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", id, err)
		}
	}
	return nil
}

// addEdges wires single-successor nodes with plain edges and the rest with
// branches that follow the node's own routing choice.
func (b *GraphBuilder) addEdges() error {
	if err := b.graph.AddEdge(compose.START, string(model.NodeClassify)); err != nil {
		return fmt.Errorf("error adding start edge: %w", err)
	}

	for _, id := range nodeOrder {
		succ := Edges[id]
		if len(succ) == 1 {
			if err := b.graph.AddEdge(string(id), string(succ[0])); err != nil {
				logx.Error().Err(err).Str("node", string(id)).Msg("Error adding edge")
				return fmt.Errorf("error adding edge %s -> %s: %w", id, succ[0], err)
			}
			continue
		}

		targets := make(map[string]bool, len(succ))
		for _, to := range succ {
			targets[string(to)] = true
		}
		branch := compose.NewGraphBranch(nodes.NewNextNodeCondition(), targets)
		if err := b.graph.AddBranch(string(id), branch); err != nil {
			logx.Error().Err(err).Str("node", string(id)).Msg("Error adding branch")
			return fmt.Errorf("error adding branch from %s: %w", id, err)
		}
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.RunState, *model.RunState], error) {
	// The longest path is classify, topic, followup; leave headroom.
	maxSteps := len(nodeOrder) + 2

	runnable, err := b.graph.Compile(ctx,
		compose.WithMaxRunSteps(maxSteps),
		compose.WithGraphName("pawsbot"),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
