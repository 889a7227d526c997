package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Engine.ScoreThreshold)
	assert.Equal(t, 10, cfg.Engine.StrongIndicator)
	assert.Equal(t, 2, cfg.Engine.KeywordWeight)
	assert.Equal(t, 3, cfg.Engine.AntiPatternWeight)
	assert.Equal(t, 5, cfg.Engine.FileInputBonus)
	assert.Equal(t, 3, cfg.Engine.TextAreaBonus)
	assert.Equal(t, 20, cfg.Engine.ConfidenceDivisor)
	assert.Equal(t, 3, cfg.Engine.VirtualMinInputs)
	assert.Equal(t, time.Second, cfg.Engine.RescanDebounce)
	assert.Equal(t, "platform", cfg.AI.Provider)
	assert.Equal(t, 30, cfg.AI.RateLimit)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
engine:
  score_threshold: 7
ai:
  provider: "claude"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Engine.ScoreThreshold)
	assert.Equal(t, "claude", cfg.AI.Provider)
	// Untouched sections keep their defaults.
	assert.Equal(t, 10, cfg.Engine.StrongIndicator)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("AI_PROVIDER", "claude")
	t.Setenv("ENGINE_SCORE_THRESHOLD", "9")
	t.Setenv("ENGINE_RESCAN_DEBOUNCE", "500ms")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "claude", cfg.AI.Provider)
	assert.Equal(t, 9, cfg.Engine.ScoreThreshold)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.RescanDebounce)
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_PLATFORM_URL", "https://platform.example.com")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
session:
  base_url: "${TEST_PLATFORM_URL}"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://platform.example.com", cfg.Session.BaseURL)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
