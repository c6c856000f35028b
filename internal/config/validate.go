package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSubs(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Recent.Limit < 0 {
		return errors.New("recent.limit must be positive")
	}
	return nil
}

func (c *Config) validateSubs() error {
	if c.Subs.DefaultDuration <= 0 {
		return errors.New("subs.default_duration must be positive")
	}
	if c.Subs.MaxCharactersPerSecond < 0 {
		return errors.New("subs.max_characters_per_second must not be negative")
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.FPS < 0 || c.Media.FPS > 1000 {
		return fmt.Errorf("media.fps must be between 0 and 1000, got %g", c.Media.FPS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.RetentionDays < 0 {
		return fmt.Errorf("logging.retention_days must be >= 0, got %d", c.Logging.RetentionDays)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
