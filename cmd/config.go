package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/PawsConnect/pawsbot/internal/agent/generation"
	"github.com/PawsConnect/pawsbot/internal/agent/graph"
	"github.com/PawsConnect/pawsbot/internal/agent/model"
	"github.com/PawsConnect/pawsbot/internal/agent/repo"
	"github.com/PawsConnect/pawsbot/internal/core"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
	pkgredis "github.com/PawsConnect/pawsbot/pkg/redis"
)

// AppConfig defines all configurable parameters of the PawsBot CLI,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider; without a key every topic handler serves its fallback text.
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	Generation   model.GenerationModelConfig
	Conversation model.ConversationConfig
	Cache        model.ResponseCacheConfig
	Prompt       model.PromptConfig
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig(envFile string) (AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil {
		logx.Debug().Err(err).Str("file", envFile).Msg("No env file loaded")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to process environment config: %w", err)
	}
	return cfg, nil
}

// runtime is everything a command needs to talk to PawsBot.
type runtime struct {
	engine *graph.Engine
	close  func()
}

func bootstrap(ctx context.Context, envFile string) (*runtime, error) {
	cfg, err := LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment, Level: cfg.LogLevel})

	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Enabled {
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Warn().Err(err).Msg("Redis unavailable, response cache disabled")
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			backend = generation.WithCache(backend, repo.NewRedisResponseCache(rdb, cfg.Cache.TTL))
			logx.Info().Dur("ttl", cfg.Cache.TTL).Msg("Response cache enabled")
		}
	}

	engine, err := graph.BuildEngine(ctx, graph.Config{
		Backend:      backend,
		Conversation: cfg.Conversation,
		Prompt:       cfg.Prompt,
	})
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	stop := engine.Sweeper().Start(ctx)
	closers = append(closers, stop)

	return &runtime{engine: engine, close: closeAll}, nil
}

// newBackend picks the generation provider and applies the timeout and
// rate-limit decorators.
func newBackend(ctx context.Context, cfg AppConfig) (generation.Backend, error) {
	if cfg.APIKey == "" {
		logx.Warn().Msg("GEMINI_API_KEY not set, PawsBot will answer with fallback texts only")
		return generation.Unavailable(), nil
	}

	var (
		backend generation.Backend
		err     error
	)
	switch strings.ToLower(cfg.Generation.Provider) {
	case "gemini", "":
		backend, err = generation.NewGeminiBackend(ctx, generation.GeminiConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Generation,
		})
	case "langchain", "googleai":
		backend, err = generation.NewGoogleAIBackend(ctx, cfg.APIKey, cfg.Generation)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Generation.Provider)
	}
	if err != nil {
		return nil, err
	}

	backend = generation.WithTimeout(backend, cfg.Generation.Timeout)
	if cfg.Generation.RatePerSecond > 0 {
		backend = generation.WithRateLimit(backend, generation.NewLimiter(cfg.Generation.RatePerSecond, cfg.Generation.Burst))
	}
	logx.Info().
		Str("provider", cfg.Generation.Provider).
		Str("model", cfg.Generation.Model).
		Msg("Generation backend ready")
	return backend, nil
}
