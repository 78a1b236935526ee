package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.API.ListenAddr)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.Ollama.PullTimeoutD)
	assert.Equal(t, 10*time.Second, cfg.API.ShutdownTimeoutD)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(cfg.General.DataDir, "downloads.db"), cfg.History.Path)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
listen_addr = ":9999"
read_timeout = "5s"

[ollama]
base_url = "http://ollama:11434"
pull_timeout = "1h"

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.API.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.API.ReadTimeoutD)
	assert.Equal(t, "http://ollama:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, time.Hour, cfg.Ollama.PullTimeoutD)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Unset fields keep their defaults.
	assert.Equal(t, 60*time.Second, cfg.API.IdleTimeoutD)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nread_timeout = \"soon\"\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "api.read_timeout")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OMM_LISTEN_ADDR", ":7070")
	t.Setenv("OMM_OLLAMA_URL", "http://remote:11434")
	t.Setenv("OMM_LOG_LEVEL", "error")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.API.ListenAddr)
	assert.Equal(t, "http://remote:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), got)

	got, err = expandPath("/absolute/path")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path", got)

	got, err = expandPath("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
