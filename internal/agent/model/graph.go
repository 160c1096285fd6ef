package model

import (
	"maps"
	"slices"

	"github.com/cloudwego/eino/compose"
)

// NodeID names a node of the PawsBot conversation graph. The set is closed:
// every value below is registered when the graph is built.
type NodeID string

const (
	NodeStart     NodeID = compose.START
	NodeClassify  NodeID = "classify"
	NodeEmergency NodeID = "emergency"
	NodeHealth    NodeID = "health"
	NodeBehavior  NodeID = "behavior"
	NodeNutrition NodeID = "nutrition"
	NodeGeneral   NodeID = "general"
	NodeFollowup  NodeID = "followup"
	NodeEnd       NodeID = compose.END
)

// TopicNode maps a category to the handler node that serves it.
func TopicNode(c Category) NodeID {
	switch c {
	case CategoryEmergency:
		return NodeEmergency
	case CategoryHealth:
		return NodeHealth
	case CategoryBehavior:
		return NodeBehavior
	case CategoryNutrition:
		return NodeNutrition
	default:
		return NodeGeneral
	}
}

// Updates is what a node asks to merge into the run state. Nil fields are left alone.
type Updates struct {
	Classification *Classification
	NeedsFollowup  *bool
	Step           string
	Context        map[string]any
}

// NodeResult is the output of one node step.
type NodeResult struct {
	Next     NodeID
	Updates  Updates
	Response string
}

// RunState is the per-message accumulator threaded through the graph.
// Nodes never mutate it in place; Apply returns the merged copy.
type RunState struct {
	RunID   string
	UserID  string
	Message string
	History []Exchange
	Context map[string]any

	Classification Classification
	NeedsFollowup  bool
	Step           string
	Response       string

	Next NodeID
	Path []NodeID
}

// Apply shallow-merges res into a copy of s. Later keys overwrite earlier ones.
func (s *RunState) Apply(res NodeResult) *RunState {
	out := *s
	out.Context = maps.Clone(s.Context)
	out.Path = slices.Clone(s.Path)

	u := res.Updates
	if u.Classification != nil {
		out.Classification = *u.Classification
	}
	if u.NeedsFollowup != nil {
		out.NeedsFollowup = *u.NeedsFollowup
	}
	if u.Step != "" {
		out.Step = u.Step
	}
	if len(u.Context) > 0 {
		if out.Context == nil {
			out.Context = make(map[string]any, len(u.Context))
		}
		maps.Copy(out.Context, u.Context)
	}
	if res.Response != "" {
		out.Response = res.Response
	}
	out.Next = res.Next
	return &out
}

// AppState is the Eino graph-local state for one invocation. It is only
// touched from state handlers, which Eino serializes.
type AppState struct {
	RunID string
	Path  []NodeID
}
