package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"sawmill/internal/logging"
)

//go:embed sample_config.toml
var sampleConfig string

// Queue contains configuration for the dispatch queue.
type Queue struct {
	Limit int `toml:"limit"`
}

// Aggregation contains configuration for repeated-message detection.
type Aggregation struct {
	WindowMillis   int `toml:"window_ms"`
	PrintedRepeats int `toml:"printed_repeats"`
	AggregatedCap  int `toml:"aggregated_cap"`
	RecentCapacity int `toml:"recent_capacity"`
	PrefixLength   int `toml:"prefix_length"`
}

// Levels contains the default channel level and per-channel overrides.
type Levels struct {
	Default  string            `toml:"default"`
	Channels map[string]string `toml:"channels"`
}

// Sinks contains sink selection configuration.
type Sinks struct {
	Console        bool   `toml:"console"`
	Stream         bool   `toml:"stream"`
	StreamCapacity int    `toml:"stream_capacity"`
	File           string `toml:"file"`
}

// Persistence contains configuration for channel-level persistence.
type Persistence struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for sawmill.
type Config struct {
	Queue       Queue       `toml:"queue"`
	Aggregation Aggregation `toml:"aggregation"`
	Levels      Levels      `toml:"levels"`
	Sinks       Sinks       `toml:"sinks"`
	Persistence Persistence `toml:"persistence"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sawmill/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and level names canonicalized. The
// second result is the resolved path, the third whether a file was found
// there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sawmill.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WorkerSettings maps the configuration onto the logging core's settings.
func (c *Config) WorkerSettings() logging.Settings {
	return logging.Settings{
		QueueLimit:        c.Queue.Limit,
		AggregationWindow: time.Duration(c.Aggregation.WindowMillis) * time.Millisecond,
		PrintedRepeats:    c.Aggregation.PrintedRepeats,
		AggregatedCap:     c.Aggregation.AggregatedCap,
		RecentCapacity:    c.Aggregation.RecentCapacity,
		HashPrefixLength:  c.Aggregation.PrefixLength,
	}
}

// DefaultLevel returns the configured default channel level.
func (c *Config) DefaultLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Levels.Default)
	return level
}

// ChannelLevels returns the configured per-channel level overrides.
func (c *Config) ChannelLevels() map[string]logging.Level {
	if len(c.Levels.Channels) == 0 {
		return nil
	}
	out := make(map[string]logging.Level, len(c.Levels.Channels))
	for name, raw := range c.Levels.Channels {
		level, _ := logging.ParseLevel(raw)
		out[name] = level
	}
	return out
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
