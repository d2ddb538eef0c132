package config

import (
	"fmt"
	"strings"

	"sawmill/internal/logging"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLevels()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Persistence.Path) == "" {
		c.Persistence.Path = defaultPersistencePath
	}
	if c.Persistence.Path, err = expandPath(c.Persistence.Path); err != nil {
		return fmt.Errorf("persistence.path: %w", err)
	}
	if strings.TrimSpace(c.Sinks.File) != "" {
		if c.Sinks.File, err = expandPath(c.Sinks.File); err != nil {
			return fmt.Errorf("sinks.file: %w", err)
		}
	}
	return nil
}

// normalizeLevels canonicalizes level names so later code can compare them
// without re-parsing.
func (c *Config) normalizeLevels() {
	if level, ok := logging.ParseLevel(c.Levels.Default); ok {
		c.Levels.Default = level.String()
	}
	for name, raw := range c.Levels.Channels {
		if level, ok := logging.ParseLevel(raw); ok {
			c.Levels.Channels[name] = level.String()
		}
	}
}
