// Package generation adapts text-completion providers to the single call
// PawsBot needs: a system prompt and a user prompt in, prose out.
package generation

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by the Unavailable backend.
var ErrUnavailable = errors.New("generation backend unavailable")

// Backend produces prose for a prompt pair. Any error means "no prose";
// callers do not branch on the reason.
type Backend interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Func adapts a plain function to Backend.
type Func func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

func (f Func) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

type unavailable struct{}

func (unavailable) Generate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}

// Unavailable is used when no provider is configured; every call fails so
// topic handlers serve their fallback text.
func Unavailable() Backend {
	return unavailable{}
}
