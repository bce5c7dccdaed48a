package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, 2048, cfg.Anthropic.MaxTokens)
	assert.False(t, cfg.Anthropic.WebResearch)
	assert.Equal(t, 10, cfg.Crawl.MaxSelected)
	assert.Equal(t, 30, cfg.Crawl.FetchTimeoutSecs)
	assert.Equal(t, 1100, cfg.Crawl.CourtesyDelayMS)
	assert.Equal(t, int64(5<<20), cfg.Crawl.MaxBodyBytes)
	assert.InDelta(t, 0.8, cfg.Crawl.Overlap, 0.001)
	assert.Equal(t, 15000, cfg.Text.MaxChars)
	assert.Equal(t, 8000, cfg.Text.FallbackMaxChars)
	assert.True(t, cfg.Design.Enabled)
	assert.Equal(t, 5, cfg.Design.MaxCSSFiles)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
anthropic:
  model: claude-haiku-4-5-20251001
crawl:
  max_selected: 5
  courtesy_delay_ms: 0
design:
  asset_dir: /tmp/assets
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, 5, cfg.Crawl.MaxSelected)
	assert.Equal(t, 0, cfg.Crawl.CourtesyDelayMS)
	assert.Equal(t, "/tmp/assets", cfg.Design.AssetDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Crawl.FetchTimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SITEINTEL_LOG_LEVEL", "warn")
	t.Setenv("SITEINTEL_ANTHROPIC_KEY", "sk-ant-test")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SITEINTEL_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Anthropic.Key = "sk-ant-key"
	cfg.Crawl.MaxSelected = 10
	cfg.Crawl.FetchTimeoutSecs = 30
	cfg.Crawl.CourtesyDelayMS = 1100
	cfg.Crawl.Overlap = 0.8
	cfg.Text.MaxChars = 15000
	cfg.Text.FallbackMaxChars = 8000
	cfg.Design.MaxCSSFiles = 5
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate_AllPresent(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("crawl"))
	assert.NoError(t, cfg.Validate("serve"))
	assert.NoError(t, cfg.Validate("local"))
}

func TestValidate_MissingKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Anthropic.Key = ""

	err := cfg.Validate("crawl")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key is required")

	assert.NoError(t, cfg.Validate("local"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Crawl.MaxSelected = 11
	err := cfg.Validate("local")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_selected must be between 1 and 10")

	cfg.Crawl.MaxSelected = 10
	cfg.Crawl.Overlap = 1.5
	err = cfg.Validate("local")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "crawl.overlap")

	cfg.Crawl.Overlap = 0.8
	cfg.Text.MaxChars = 0
	err = cfg.Validate("local")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "text.max_chars")

	cfg.Text.MaxChars = 15000
	assert.NoError(t, cfg.Validate("local"))
}
