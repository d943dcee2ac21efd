// Package config loads stacktracer settings from ~/.stacktracer/config.yaml
// and the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig        = "STACKTRACER_CONFIG"
	EnvDebugDir      = "STACKTRACER_DEBUG_DIR"
	EnvRetentionDays = "STACKTRACER_DEBUG_RETENTION_DAYS"
	EnvVerbose       = "STACKTRACER_VERBOSE"
	EnvLogJSON       = "STACKTRACER_LOG_JSON"
)

// Config holds library and CLI settings.
type Config struct {
	Debug DebugConfig `yaml:"debug"`
	Log   LogConfig   `yaml:"log"`
}

// DebugConfig controls the JSONL debug log.
type DebugConfig struct {
	// Dir enables file logging when non-empty.
	Dir           string `yaml:"dir,omitempty"`
	RetentionDays int    `yaml:"retention_days"`
}

// LogConfig controls stderr logging.
type LogConfig struct {
	Verbose bool `yaml:"verbose"`
	JSON    bool `yaml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Debug: DebugConfig{
			RetentionDays: 7,
		},
	}
}

// Load reads the config file and applies environment overrides. A missing or
// malformed file leaves the defaults in place. If an existing file cannot be
// read, Load returns the error together with defaults plus environment
// overrides, so callers can continue.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, readErr := os.ReadFile(Path())
	switch {
	case readErr == nil:
		fileCfg := DefaultConfig()
		if err := yaml.Unmarshal(data, fileCfg); err == nil {
			cfg = fileCfg
		}
	case os.IsNotExist(readErr):
		readErr = nil
	}

	applyEnv(cfg)
	return cfg, readErr
}

func applyEnv(cfg *Config) {
	if dir := os.Getenv(EnvDebugDir); dir != "" {
		cfg.Debug.Dir = dir
	}
	if s := os.Getenv(EnvRetentionDays); s != "" {
		if days, err := strconv.Atoi(s); err == nil && days >= 0 {
			cfg.Debug.RetentionDays = days
		}
	}
	if s := os.Getenv(EnvVerbose); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			cfg.Log.Verbose = v
		}
	}
	if s := os.Getenv(EnvLogJSON); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			cfg.Log.JSON = v
		}
	}
}

// Dir returns the path to ~/.stacktracer.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".stacktracer")
	}
	return filepath.Join(homeDir, ".stacktracer")
}

// Path returns the config file path: $STACKTRACER_CONFIG if set, otherwise
// ~/.stacktracer/config.yaml.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.yaml")
}

// YAML renders cfg in config file syntax.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
