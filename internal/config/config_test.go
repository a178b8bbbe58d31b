package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadClient_Defaults(t *testing.T) {
	cfg, err := LoadClient("", false)
	require.NoError(t, err)
	assert.Equal(t, DefaultClient(), cfg)

	cfg, err = LoadClient(filepath.Join(t.TempDir(), "missing.toml"), true)
	require.NoError(t, err)
	assert.Equal(t, DefaultClient(), cfg)

	_, err = LoadClient(filepath.Join(t.TempDir(), "missing.toml"), false)
	assert.Error(t, err)
}

func TestLoadClient_File(t *testing.T) {
	path := writeFile(t, `
server_url = "https://memories.example.com"
log_level = "debug"

[cache]
max_age = "2h"

[sync]
probe_interval = "30s"
max_attempts = 5
drain_on_start = false
`)

	cfg, err := LoadClient(path, false)
	require.NoError(t, err)

	assert.Equal(t, "https://memories.example.com", cfg.ServerURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Hour, cfg.Cache.MaxAge)
	assert.Equal(t, 30*time.Second, cfg.Sync.ProbeInterval)
	assert.Equal(t, 5, cfg.Sync.MaxAttempts)
	assert.False(t, cfg.Sync.DrainOnStart)
	// Незаданные ключи сохраняют значения по умолчанию
	assert.Equal(t, "keepsake.db", cfg.DBPath)
	assert.Equal(t, 64, cfg.Cache.HotEntries)
	assert.True(t, cfg.Sync.DrainOnEnqueue)
}

func TestLoadClient_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: `servr_url = "http://x"`},
		{name: "bad url", content: `server_url = "ftp://files"`},
		{name: "bad level", content: `log_level = "chatty"`},
		{name: "negative attempts", content: "[sync]\nmax_attempts = -1"},
		{name: "not toml", content: `server_url = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadClient(writeFile(t, tt.content), false)
			assert.Error(t, err)
		})
	}
}

func TestLoadServer(t *testing.T) {
	path := writeFile(t, `
addr = "127.0.0.1:9090"
jwt_secret = "s3cret"

[rate_limit]
requests = 10
window = "1s"
`)

	cfg, err := LoadServer(path, false)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, RateLimit{Requests: 10, Window: time.Second}, cfg.RateLimit)
	assert.Equal(t, int64(64<<20), cfg.MaxBlobBytes)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "client.toml")
	cfg := DefaultClient()
	cfg.ServerURL = "http://10.0.0.2:8080"

	require.NoError(t, Save(path, cfg))

	loaded, err := LoadClient(path, false)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
