package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Server.RequestTimeoutSecs)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrent)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.EqualValues(t, 1024, cfg.Anthropic.MaxTokens)
	assert.Equal(t, "https://en.wikipedia.org", cfg.Wiki.BaseURL)
	assert.Equal(t, []string{"/", "/about", "/products"}, cfg.Website.Paths)
	assert.Contains(t, cfg.Website.BoostPaths, "/team")
	assert.Equal(t, "https://financialmodelingprep.com/api/v3", cfg.Quote.BaseURL)
	assert.Empty(t, cfg.Signals.BaseURL, "signals disabled by default")
	assert.Equal(t, 5, cfg.Signals.MaxSignals)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 24, cfg.Store.TTLHours)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	yaml := `
anthropic:
  key: sk-test
  model: claude-sonnet-4-5-20250929
signals:
  base_url: https://signals.internal
log:
  level: debug
  format: console
store:
  driver: memory
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, "https://signals.internal", cfg.Signals.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Store.Driver)
	// Defaults still apply for unset keys.
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nonsense", Format: "json"}))
}
