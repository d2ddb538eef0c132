package config

import (
	"errors"
	"fmt"
	"strings"

	"sawmill/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateAggregation(); err != nil {
		return err
	}
	if err := c.validateLevels(); err != nil {
		return err
	}
	if err := c.validateSinks(); err != nil {
		return err
	}
	return c.validatePersistence()
}

func (c *Config) validateQueue() error {
	if c.Queue.Limit < 0 {
		return errors.New("queue.limit must not be negative")
	}
	return nil
}

func (c *Config) validateAggregation() error {
	return ensurePositiveMap(map[string]int{
		"aggregation.window_ms":       c.Aggregation.WindowMillis,
		"aggregation.printed_repeats": c.Aggregation.PrintedRepeats,
		"aggregation.aggregated_cap":  c.Aggregation.AggregatedCap,
		"aggregation.recent_capacity": c.Aggregation.RecentCapacity,
		"aggregation.prefix_length":   c.Aggregation.PrefixLength,
	})
}

func (c *Config) validateLevels() error {
	if _, ok := logging.ParseLevel(c.Levels.Default); !ok {
		return fmt.Errorf("levels.default %q is not a known level", c.Levels.Default)
	}
	for name, raw := range c.Levels.Channels {
		if strings.TrimSpace(name) == "" {
			return errors.New("levels.channels contains an empty channel name")
		}
		if _, ok := logging.ParseLevel(raw); !ok {
			return fmt.Errorf("levels.channels.%s %q is not a known level", name, raw)
		}
	}
	return nil
}

func (c *Config) validateSinks() error {
	if c.Sinks.Stream && c.Sinks.StreamCapacity <= 0 {
		return errors.New("sinks.stream_capacity must be positive when sinks.stream is true")
	}
	return nil
}

func (c *Config) validatePersistence() error {
	if c.Persistence.Enabled && strings.TrimSpace(c.Persistence.Path) == "" {
		return errors.New("persistence.path must be set when persistence.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
