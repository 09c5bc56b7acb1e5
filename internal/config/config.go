package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the habitual binary.
type Config struct {
	DBPath        string
	DebounceDelay time.Duration
	LogUseCases   bool
	// LogFormat picks the use-case log encoding: "text" or "json".
	LogFormat string
	// MetricsFile, when set, receives write counters in Prometheus text
	// format as the process exits.
	MetricsFile string
}

// Log formats accepted by LogFormat.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// fileConfig mirrors the YAML file. Pointer fields distinguish "unset" from
// zero values so the file only overrides what it names.
type fileConfig struct {
	DB          *string `yaml:"db"`
	DebounceMs  *int    `yaml:"debounce_ms"`
	LogUseCases *bool   `yaml:"log_use_cases"`
	LogFormat   *string `yaml:"log_format"`
	MetricsFile *string `yaml:"metrics_file"`
}

// DefaultConfig returns the built-in settings. The database lives under
// ~/.habitual and field edits settle after one second.
func DefaultConfig() Config {
	return Config{
		DBPath:        filepath.Join(homeDir(), ".habitual", "habitual.db"),
		DebounceDelay: time.Second,
		LogUseCases:   false,
		LogFormat:     LogFormatText,
	}
}

// DefaultFilePath is where Load looks for a config file when HABITUAL_CONFIG
// is unset.
func DefaultFilePath() string {
	return filepath.Join(homeDir(), ".habitual", "config.yaml")
}

// Load builds the effective configuration: defaults, then the YAML file,
// then environment variables. A missing default file is not an error; a
// missing file named by HABITUAL_CONFIG is.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("HABITUAL_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultFilePath()
	}
	if err := LoadFile(&cfg, path); err != nil {
		if !(errors.Is(err, fs.ErrNotExist) && !explicit) {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	if fc.DB != nil && *fc.DB != "" {
		cfg.DBPath = expandHome(*fc.DB)
	}
	if fc.DebounceMs != nil {
		if *fc.DebounceMs < 0 {
			return fmt.Errorf("config %s: debounce_ms must be >= 0, got %d", path, *fc.DebounceMs)
		}
		cfg.DebounceDelay = time.Duration(*fc.DebounceMs) * time.Millisecond
	}
	if fc.LogUseCases != nil {
		cfg.LogUseCases = *fc.LogUseCases
	}
	if fc.LogFormat != nil {
		if !validLogFormat(*fc.LogFormat) {
			return fmt.Errorf("config %s: log_format must be %q or %q, got %q", path, LogFormatText, LogFormatJSON, *fc.LogFormat)
		}
		cfg.LogFormat = *fc.LogFormat
	}
	if fc.MetricsFile != nil {
		cfg.MetricsFile = expandHome(*fc.MetricsFile)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HABITUAL_DB"); v != "" {
		cfg.DBPath = expandHome(v)
	}
	if v := os.Getenv("HABITUAL_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DebounceDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("HABITUAL_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("HABITUAL_LOG_FORMAT"); validLogFormat(v) {
		cfg.LogFormat = v
	}
	if v := os.Getenv("HABITUAL_METRICS_FILE"); v != "" {
		cfg.MetricsFile = expandHome(v)
	}
}

func validLogFormat(s string) bool {
	return s == LogFormatText || s == LogFormatJSON
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if len(p) > 1 && p[:2] == "~/" {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}
