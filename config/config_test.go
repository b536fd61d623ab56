package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
	assert.GreaterOrEqual(t, cfg.Threads, 1)
	assert.Equal(t, 6, cfg.BudgetMultiplier)
	assert.Equal(t, 3, cfg.GraphDumpDepth)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NatsURL)
	assert.Equal(t, "dreamtides.bot", cfg.BotChannel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DREAMTIDES_DEBUG", "true")
	t.Setenv("DREAMTIDES_THREADS", "3")
	t.Setenv("DREAMTIDES_SEARCH_SEED", "12345")
	t.Setenv("DREAMTIDES_BOT_CHANNEL", "dreamtides.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 3, cfg.Threads)
	assert.Equal(t, uint64(12345), cfg.SearchSeed)
	assert.Equal(t, "dreamtides.test", cfg.BotChannel)
}

func TestLoadRejectsMissingConfigFile(t *testing.T) {
	t.Setenv("DREAMTIDES_CONFIG_FILE", "/nonexistent/config.yaml")
	_, err := Load()
	require.Error(t, err)
}
