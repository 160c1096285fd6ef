package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PawsConnect/pawsbot/internal/agent/generation"
	errx "github.com/PawsConnect/pawsbot/internal/core/error"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

// RedisResponseCache keeps generated prose in Redis with a TTL so identical
// prompts skip the generation backend. Conversation state never goes here.
type RedisResponseCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisResponseCache(rdb redis.Cmdable, ttl time.Duration) *RedisResponseCache {
	return &RedisResponseCache{rdb: rdb, ttl: ttl}
}

func (r *RedisResponseCache) cacheKey(systemPrompt, userPrompt string) string {
	sum := sha256.Sum256([]byte(systemPrompt + "\x00" + userPrompt))
	return fmt.Sprintf("pawsbot:generation:%s", hex.EncodeToString(sum[:]))
}

func (r *RedisResponseCache) Get(ctx context.Context, systemPrompt, userPrompt string) (string, bool, error) {
	key := r.cacheKey(systemPrompt, userPrompt)

	text, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read cached response from redis")
		return "", false, errx.WrapRedis(err)
	}
	return text, true, nil
}

func (r *RedisResponseCache) Set(ctx context.Context, systemPrompt, userPrompt, text string) error {
	key := r.cacheKey(systemPrompt, userPrompt)

	if err := r.rdb.Set(ctx, key, text, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to cache response in redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ generation.Cache = (*RedisResponseCache)(nil)
