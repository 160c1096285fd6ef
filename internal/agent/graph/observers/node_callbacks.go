package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"

	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

type nodeStartKey struct{}

// newNodeHandler traces graph node lifecycle with timings.
func newNodeHandler(runID string) einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			if info == nil || info.Component != compose.ComponentOfLambda {
				return ctx
			}
			logx.Debug().Str("run_id", runID).Str("node", info.Name).Msg("Node start")
			return context.WithValue(ctx, nodeStartKey{}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			if info == nil || info.Component != compose.ComponentOfLambda {
				return ctx
			}
			ev := logx.Debug().Str("run_id", runID).Str("node", info.Name)
			if started, ok := ctx.Value(nodeStartKey{}).(time.Time); ok {
				ev = ev.Dur("elapsed", time.Since(started))
			}
			ev.Msg("Node end")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			name := ""
			if info != nil {
				name = info.Name
			}
			logx.Error().Err(err).Str("run_id", runID).Str("node", name).Msg("Node error")
			return ctx
		}).
		Build()
}
