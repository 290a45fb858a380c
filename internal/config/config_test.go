package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 18765, cfg.Gateway.Port)
	assert.Equal(t, "loopback", cfg.Gateway.Bind)
	assert.Equal(t, "token", cfg.Gateway.Auth.Mode)
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, 1024, cfg.Model.MaxTokens)
	assert.Equal(t, "default", cfg.Session.ID)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	// Should return defaults
	assert.Equal(t, 18765, cfg.Gateway.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
gateway:
  port: 9999
  bind: lan
  auth:
    mode: password
    password: secret123
model:
  apiKey: gemini-key
  models:
    - gemini-2.5-flash
    - gemini-1.5-pro-002
  maxTokens: 2048
actions:
  githubToken: gh-token
  openWeatherKey: ow-key
session:
  store: memory
speech:
  enabled: true
  rate: 1.1
logging:
  level: debug
  consoleStyle: json
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Gateway.Port)
	assert.Equal(t, "lan", cfg.Gateway.Bind)
	assert.Equal(t, "password", cfg.Gateway.Auth.Mode)
	assert.Equal(t, "secret123", cfg.Gateway.Auth.Password)
	assert.Equal(t, "gemini-key", cfg.Model.APIKey)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-1.5-pro-002"}, cfg.Model.Models)
	assert.Equal(t, 2048, cfg.Model.MaxTokens)
	assert.Equal(t, "gh-token", cfg.Actions.GitHubToken)
	assert.Equal(t, "ow-key", cfg.Actions.OpenWeatherKey)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.True(t, cfg.Speech.Enabled)
	assert.Equal(t, 1.1, cfg.Speech.Rate)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.ConsoleStyle)

	// Unset fields still get defaults
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, "default", cfg.Session.ID)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gateway: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ARISE_GATEWAY_PORT", "7777")
	t.Setenv("ARISE_LOG_LEVEL", "DEBUG")
	t.Setenv("ARISE_GEMINI_API_KEY", "env-key")
	t.Setenv("ARISE_GITHUB_TOKEN", "env-gh")

	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Gateway.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "env-key", cfg.Model.APIKey)
	assert.Equal(t, "env-gh", cfg.Actions.GitHubToken)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MY_SECRET", "s3cret")

	assert.Equal(t, "s3cret", expandEnvVars("${MY_SECRET}"))
	assert.Equal(t, "prefix-s3cret", expandEnvVars("prefix-${MY_SECRET}"))
	assert.Equal(t, "${UNSET_VAR_XYZ}", expandEnvVars("${UNSET_VAR_XYZ}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestSensitiveFieldExpansion(t *testing.T) {
	t.Setenv("GEMINI_KEY", "from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
model:
  apiKey: ${GEMINI_KEY}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model.APIKey)
}

func TestLoadRawAndSaveRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	raw := map[string]any{
		"gateway": map[string]any{"port": 1234},
	}
	require.NoError(t, SaveRaw(path, raw))

	loaded, err := LoadRaw(path)
	require.NoError(t, err)
	gw, ok := loaded["gateway"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1234, gw["port"])
}

func TestLoadRawMissingFile(t *testing.T) {
	raw, err := LoadRaw("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Empty(t, raw)
}
