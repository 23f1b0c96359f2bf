package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"COMMNET_API_URL", "COMMNET_CLIENT_TIMEOUT", "COMMNET_DENSITY_DEBOUNCE",
		"COMMNET_DEFAULT_PATTERN", "COMMNET_HUB_PORT", "COMMNET_LOG_FILE",
		"COMMNET_LOG_LEVEL", "COMMNET_CONFIG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 300*time.Millisecond, cfg.DensityDebounce)
	assert.Equal(t, "Q-I", cfg.DefaultPattern)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "commnet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: http://analysis:9000
client_timeout: 5s
density_debounce: 150ms
default_pattern: D-C
hub_port: 9001
log_level: debug
`), 0o600))

	t.Setenv("COMMNET_HUB_PORT", "9100")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://analysis:9000", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.ClientTimeout)
	assert.Equal(t, 150*time.Millisecond, cfg.DensityDebounce)
	assert.Equal(t, "D-C", cfg.DefaultPattern)
	assert.Equal(t, 9100, cfg.HubPort, "environment wins over file")
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/tmp/commnet.log", cfg.LogFile)
}

func TestLoadFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFileInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("density_debounce: soon\n"), 0o600))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "density_debounce")
}

func TestInvalidEnvKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMMNET_DENSITY_DEBOUNCE", "-1s")
	t.Setenv("COMMNET_HUB_PORT", "eighty")

	cfg := Load()
	assert.Equal(t, 300*time.Millisecond, cfg.DensityDebounce)
	assert.Equal(t, 8485, cfg.HubPort)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("match loaded", "match_id", 7)

	assert.Contains(t, stderr.String(), "match loaded")
	assert.Contains(t, file.String(), `"match_id":7`)
	assert.NotContains(t, file.String(), "hidden")
}

func TestSetupLoggerQuiet(t *testing.T) {
	cfg := Defaults()
	cfg.LogFile = filepath.Join(t.TempDir(), "commnet.log")

	logger, cleanup := SetupLogger(cfg, true)
	logger.Info("density fetched")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "density fetched")
}
