package config

import (
	"fmt"
	"strings"

	"subedit/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSubs()
	c.normalizeLogging()
	if c.Scripts.DebounceMillis <= 0 {
		c.Scripts.DebounceMillis = defaultScriptsDebounceMillis
	}
	if c.Recent.Limit == 0 {
		c.Recent.Limit = defaultRecentLimit
	}
	spell, err := language.Normalize(c.GUI.SpellCheck)
	if err != nil {
		return fmt.Errorf("gui.spell_check: %w", err)
	}
	c.GUI.SpellCheck = spell
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		c.Paths.RootDir = defaultRootDir
	}
	if c.Paths.RootDir, err = expandPath(c.Paths.RootDir); err != nil {
		return fmt.Errorf("paths.root_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSubs() {
	c.Subs.DefaultStyleName = strings.TrimSpace(c.Subs.DefaultStyleName)
	if c.Subs.DefaultStyleName == "" {
		c.Subs.DefaultStyleName = defaultStyleName
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
