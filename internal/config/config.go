package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Upstream analysis API
	APIURL        string
	ClientTimeout time.Duration

	// Session behaviour
	DensityDebounce time.Duration
	DefaultPattern  string

	// Live hub
	HubPort int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors Config for YAML files. Durations are Go duration strings.
type fileConfig struct {
	APIURL          string `yaml:"api_url"`
	ClientTimeout   string `yaml:"client_timeout"`
	DensityDebounce string `yaml:"density_debounce"`
	DefaultPattern  string `yaml:"default_pattern"`
	HubPort         int    `yaml:"hub_port"`
	LogFile         string `yaml:"log_file"`
	LogLevel        string `yaml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIURL:          "http://localhost:8080",
		ClientTimeout:   30 * time.Second,
		DensityDebounce: 300 * time.Millisecond,
		DefaultPattern:  "Q-I",
		HubPort:         8485,
		LogFile:         "/tmp/commnet.log",
		LogLevel:        slog.LevelInfo,
	}
}

// Load reads configuration from the YAML file named by COMMNET_CONFIG, if
// any, then from environment variables. A broken file is logged and skipped.
func Load() Config {
	cfg, err := LoadFile(os.Getenv("COMMNET_CONFIG"))
	if err != nil {
		slog.Error("failed to load config file, using environment only", "error", err)
		cfg = Defaults()
		applyEnv(&cfg)
	}
	return cfg
}

// LoadFile layers defaults, the YAML file at path and environment variables.
// An empty path skips the file. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := applyYAML(&cfg, data); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyYAML(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.APIURL != "" {
		cfg.APIURL = fc.APIURL
	}
	if fc.ClientTimeout != "" {
		d, err := time.ParseDuration(fc.ClientTimeout)
		if err != nil {
			return fmt.Errorf("client_timeout: %w", err)
		}
		cfg.ClientTimeout = d
	}
	if fc.DensityDebounce != "" {
		d, err := time.ParseDuration(fc.DensityDebounce)
		if err != nil {
			return fmt.Errorf("density_debounce: %w", err)
		}
		cfg.DensityDebounce = d
	}
	if fc.DefaultPattern != "" {
		cfg.DefaultPattern = fc.DefaultPattern
	}
	if fc.HubPort != 0 {
		cfg.HubPort = fc.HubPort
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = parseLogLevel(fc.LogLevel)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.APIURL = getEnv("COMMNET_API_URL", cfg.APIURL)
	cfg.ClientTimeout = getDuration("COMMNET_CLIENT_TIMEOUT", cfg.ClientTimeout)
	cfg.DensityDebounce = getDuration("COMMNET_DENSITY_DEBOUNCE", cfg.DensityDebounce)
	cfg.DefaultPattern = getEnv("COMMNET_DEFAULT_PATTERN", cfg.DefaultPattern)
	cfg.HubPort = getInt("COMMNET_HUB_PORT", cfg.HubPort)
	cfg.LogFile = getEnv("COMMNET_LOG_FILE", cfg.LogFile)
	if v := os.Getenv("COMMNET_LOG_LEVEL"); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration", "key", key, "value", val)
		return defaultVal
	}
	return d
}

func getInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("ignoring invalid integer", "key", key, "value", val)
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
