package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	HistoryLimit        int           `envconfig:"CONVERSATION_HISTORY_LIMIT" default:"10"`
	Retention           time.Duration `envconfig:"CONVERSATION_RETENTION" default:"24h"`
	SweepInterval       time.Duration `envconfig:"CONVERSATION_SWEEP_INTERVAL" default:"1h"`
	GeneralContextTurns int           `envconfig:"CONVERSATION_GENERAL_CONTEXT_TURNS" default:"2"`
	SerializeUserRuns   bool          `envconfig:"CONVERSATION_SERIALIZE_USER_RUNS" default:"true"`
	MergeCallerContext  bool          `envconfig:"CONVERSATION_MERGE_CALLER_CONTEXT" default:"true"`
	RunTimeout          time.Duration `envconfig:"CONVERSATION_RUN_TIMEOUT" default:"45s"`
}

// DefaultConversationConfig mirrors the envconfig defaults for callers that
// build the engine without the environment (tests, embedding).
func DefaultConversationConfig() ConversationConfig {
	return ConversationConfig{
		HistoryLimit:        10,
		Retention:           24 * time.Hour,
		SweepInterval:       time.Hour,
		GeneralContextTurns: 2,
		SerializeUserRuns:   true,
		MergeCallerContext:  true,
		RunTimeout:          45 * time.Second,
	}
}

type GenerationModelConfig struct {
	Provider      string        `envconfig:"GENERATION_PROVIDER" default:"gemini"`
	Model         string        `envconfig:"GENERATION_MODEL" default:"gemini-2.5-flash"`
	MaxTokens     int           `envconfig:"GENERATION_MAX_TOKENS" default:"1024"`
	Temperature   float32       `envconfig:"GENERATION_TEMPERATURE" default:"0.7"`
	Timeout       time.Duration `envconfig:"GENERATION_TIMEOUT" default:"20s"`
	RatePerSecond float64       `envconfig:"GENERATION_RATE_PER_SECOND" default:"5"`
	Burst         int           `envconfig:"GENERATION_BURST" default:"10"`
}

type ResponseCacheConfig struct {
	Enabled bool          `envconfig:"RESPONSE_CACHE_ENABLED" default:"false"`
	TTL     time.Duration `envconfig:"RESPONSE_CACHE_TTL" default:"1h"`
}

type PromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"PawsBot"`
	CommunityName string `envconfig:"PROMPT_COMMUNITY_NAME" default:"PawsConnect"`
}
