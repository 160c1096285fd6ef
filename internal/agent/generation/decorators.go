package generation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

// WithTimeout bounds every call to d. The derived context is released when the call returns.
func WithTimeout(next Backend, d time.Duration) Backend {
	if d <= 0 {
		return next
	}
	return Func(func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.Generate(ctx, systemPrompt, userPrompt)
	})
}

// WithRateLimit waits for a token before each call. A wait that cannot
// finish before the context deadline fails the call.
func WithRateLimit(next Backend, limiter *rate.Limiter) Backend {
	if limiter == nil {
		return next
	}
	return Func(func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		if err := limiter.Wait(ctx); err != nil {
			logx.Warn().Err(err).Msg("Generation rate limit wait failed")
			return "", fmt.Errorf("rate limit: %w", err)
		}
		return next.Generate(ctx, systemPrompt, userPrompt)
	})
}

// NewLimiter returns nil (no limit) when perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Cache stores generated prose keyed by prompt.
type Cache interface {
	Get(ctx context.Context, systemPrompt, userPrompt string) (string, bool, error)
	Set(ctx context.Context, systemPrompt, userPrompt, text string) error
}

// WithCache serves repeated prompts from cache. Cache failures are logged and
// the call goes to next; a cache is never a reason to fail a generation.
func WithCache(next Backend, cache Cache) Backend {
	if cache == nil {
		return next
	}
	return Func(func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		text, ok, err := cache.Get(ctx, systemPrompt, userPrompt)
		if err != nil {
			logx.Warn().Err(err).Msg("Response cache lookup failed")
		} else if ok {
			logx.Debug().Msg("Response cache hit")
			return text, nil
		}

		text, err = next.Generate(ctx, systemPrompt, userPrompt)
		if err != nil {
			return "", err
		}
		if text != "" {
			if err := cache.Set(ctx, systemPrompt, userPrompt, text); err != nil {
				logx.Warn().Err(err).Msg("Response cache store failed")
			}
		}
		return text, nil
	})
}
