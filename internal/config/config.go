// Package config handles configuration parsing for stopwatch-mcp.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/ports"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default config file path:
// $XDG_CONFIG_HOME/stopwatch-mcp/config.yaml or ~/.config/stopwatch-mcp/config.yaml
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func DefaultConfigPath(fsys ...ports.FileSystem) string {
	getenv, homeDir := os.Getenv, os.UserHomeDir
	if len(fsys) > 0 && fsys[0] != nil {
		getenv, homeDir = fsys[0].Getenv, fsys[0].UserHomeDir
	}

	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := homeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "stopwatch-mcp", "config.yaml")
}

// Config represents the top-level configuration.
type Config struct {
	Frames    FramesConfig    `yaml:"frames"`
	Countdown CountdownConfig `yaml:"countdown"`
	Logging   LoggingConfig   `yaml:"logging"`
	Recording RecordingConfig `yaml:"recording"`
}

// FramesConfig defines the frame loop. Changes need a restart.
type FramesConfig struct {
	Rate int `yaml:"rate"` // frames per second
}

// CountdownConfig defines countdown behavior.
type CountdownConfig struct {
	DefaultMinutes int  `yaml:"default_minutes"` // keypad prefill for the terminal form
	Alert          bool `yaml:"alert"`           // ring the bell on completion
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RecordingConfig defines display recording settings.
type RecordingConfig struct {
	Enabled     bool          `yaml:"enabled"`      // record the display as asciicast
	Path        string        `yaml:"path"`         // directory to store recordings
	MinInterval time.Duration `yaml:"min_interval"` // minimum spacing of output events
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Frames: FramesConfig{
			Rate: 60,
		},
		Countdown: CountdownConfig{
			DefaultMinutes: 5,
			Alert:          true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recording: RecordingConfig{
			Path:        filepath.Join(os.TempDir(), "stopwatch-mcp", "recordings"),
			MinInterval: 100 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Load(path string, fsys ...ports.FileSystem) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	var data []byte
	var err error
	if len(fsys) > 0 && fsys[0] != nil {
		data, err = fsys[0].ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return parse(data)
}

// parse decodes YAML over the defaults.
func parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Validate fills in zero values and rejects settings that cannot work.
func (c *Config) Validate() error {
	if c.Frames.Rate <= 0 {
		c.Frames.Rate = 60
	}
	if c.Frames.Rate > 1000 {
		return fmt.Errorf("frames.rate %d exceeds 1000", c.Frames.Rate)
	}
	if c.Countdown.DefaultMinutes < 0 || c.Countdown.DefaultMinutes > 9999 {
		return fmt.Errorf("countdown.default_minutes %d outside 0-9999", c.Countdown.DefaultMinutes)
	}
	if c.Recording.MinInterval < 0 {
		return fmt.Errorf("recording.min_interval must not be negative")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging.format %q must be json or text", c.Logging.Format)
	}

	return nil
}

// Save writes the configuration to a YAML file.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Save(cfg *Config, path string, fsys ...ports.FileSystem) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if len(fsys) > 0 && fsys[0] != nil {
		if err := fsys[0].MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
		return fsys[0].WriteFile(path, data, 0644)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
