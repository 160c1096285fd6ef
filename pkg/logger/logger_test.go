package logx

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/PawsConnect/pawsbot/internal/core"
)

func TestInitLevels(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	Init(LoggerOpts{Environment: core.Production})
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	Init(LoggerOpts{Environment: core.Development})
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())

	Init(LoggerOpts{Environment: core.Production, Level: "WARN"})
	assert.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel())

	Init(LoggerOpts{Environment: core.Production, Level: "nonsense"})
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	Init()
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())
}
