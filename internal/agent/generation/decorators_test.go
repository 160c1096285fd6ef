package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type countingBackend struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (b *countingBackend) Generate(context.Context, string, string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return b.text, b.err
}

type mapCache struct {
	entries map[string]string
	getErr  error
	setErr  error
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]string{}}
}

func (c *mapCache) Get(_ context.Context, systemPrompt, userPrompt string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	text, ok := c.entries[systemPrompt+"|"+userPrompt]
	return text, ok, nil
}

func (c *mapCache) Set(_ context.Context, systemPrompt, userPrompt, text string) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[systemPrompt+"|"+userPrompt] = text
	return nil
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable().Generate(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWithTimeout(t *testing.T) {
	slow := Func(func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := WithTimeout(slow, 10*time.Millisecond).Generate(context.Background(), "s", "u")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTimeoutDisabled(t *testing.T) {
	next := &countingBackend{text: "ok"}
	assert.Same(t, Backend(next), WithTimeout(next, 0))
}

func TestWithRateLimit(t *testing.T) {
	next := &countingBackend{text: "ok"}
	limited := WithRateLimit(next, rate.NewLimiter(rate.Limit(1), 1))

	text, err := limited.Generate(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = limited.Generate(ctx, "s", "u")
	assert.Error(t, err)
	assert.Equal(t, 1, next.calls)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 10))
	l := NewLimiter(5, 0)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
}

func TestWithCache(t *testing.T) {
	next := &countingBackend{text: "fresh prose"}
	cache := newMapCache()
	cached := WithCache(next, cache)

	for i := 0; i < 3; i++ {
		text, err := cached.Generate(context.Background(), "sys", "user")
		require.NoError(t, err)
		assert.Equal(t, "fresh prose", text)
	}
	assert.Equal(t, 1, next.calls)
}

func TestWithCacheDoesNotStoreFailures(t *testing.T) {
	next := &countingBackend{err: errors.New("quota")}
	cache := newMapCache()

	_, err := WithCache(next, cache).Generate(context.Background(), "sys", "user")
	assert.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestWithCacheIgnoresCacheFailures(t *testing.T) {
	next := &countingBackend{text: "prose"}
	cache := newMapCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")

	text, err := WithCache(next, cache).Generate(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "prose", text)
}
