package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Second, cfg.DebounceDelay)
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, "habitual.db", filepath.Base(cfg.DBPath))
}

func TestLoadFile_OverridesOnlyNamedFields(t *testing.T) {
	path := writeConfig(t, "debounce_ms: 250\n")
	cfg := DefaultConfig()
	require.NoError(t, LoadFile(&cfg, path))

	assert.Equal(t, 250*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, DefaultConfig().DBPath, cfg.DBPath)
	assert.False(t, cfg.LogUseCases)
}

func TestLoadFile_AllFields(t *testing.T) {
	path := writeConfig(t, "db: /tmp/h.db\ndebounce_ms: 0\nlog_use_cases: true\nlog_format: json\nmetrics_file: /tmp/h.prom\n")
	cfg := DefaultConfig()
	require.NoError(t, LoadFile(&cfg, path))

	assert.Equal(t, "/tmp/h.db", cfg.DBPath)
	assert.Equal(t, time.Duration(0), cfg.DebounceDelay)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "/tmp/h.prom", cfg.MetricsFile)
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := DefaultConfig()

	err := LoadFile(&cfg, writeConfig(t, "debounce_ms: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")

	err = LoadFile(&cfg, writeConfig(t, "debounce_ms: -5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debounce_ms")

	err = LoadFile(&cfg, writeConfig(t, "log_format: xml\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_format")
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := writeConfig(t, "db: /from/file.db\ndebounce_ms: 300\n")
	t.Setenv("HABITUAL_CONFIG", path)
	t.Setenv("HABITUAL_DB", "/from/env.db")
	t.Setenv("HABITUAL_DEBOUNCE_MS", "")
	t.Setenv("HABITUAL_LOG_USE_CASES", "true")
	t.Setenv("HABITUAL_LOG_FORMAT", "json")
	t.Setenv("HABITUAL_METRICS_FILE", "/from/env.prom")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DBPath)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDelay)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "/from/env.prom", cfg.MetricsFile)
}

func TestLoad_IgnoresInvalidEnvNumbers(t *testing.T) {
	t.Setenv("HABITUAL_CONFIG", writeConfig(t, ""))
	t.Setenv("HABITUAL_DEBOUNCE_MS", "soon")
	t.Setenv("HABITUAL_LOG_FORMAT", "yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.DebounceDelay)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HABITUAL_CONFIG", "")
	t.Setenv("HABITUAL_DB", "")
	t.Setenv("HABITUAL_DEBOUNCE_MS", "")
	t.Setenv("HABITUAL_LOG_USE_CASES", "")
	t.Setenv("HABITUAL_LOG_FORMAT", "")
	t.Setenv("HABITUAL_METRICS_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	t.Setenv("HABITUAL_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/x.db", expandHome("~/x.db"))
	assert.Equal(t, "/abs/x.db", expandHome("/abs/x.db"))
}
