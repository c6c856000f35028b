package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// RootDirEnv overrides paths.root_dir when set.
const RootDirEnv = "SUBEDIT_ROOT_DIR"

// Subs contains editing defaults.
type Subs struct {
	// DefaultDuration is the length in ms of inserted subtitles.
	DefaultDuration        int    `toml:"default_duration"`
	DefaultStyleName       string `toml:"default_style_name"`
	MaxCharactersPerSecond int    `toml:"max_characters_per_second"`
}

// Paths contains directory configuration.
type Paths struct {
	// RootDir holds user configuration; manifests live in RootDir/scripts.
	RootDir string `toml:"root_dir"`
	// StateDir holds the recent-files database.
	StateDir string `toml:"state_dir"`
}

// GUI contains settings a front end shares with the core.
type GUI struct {
	// SpellCheck is the language stored in new documents.
	SpellCheck string `toml:"spell_check"`
}

// Media contains playback settings.
type Media struct {
	// FPS enables frame alignment of inserted subtitles; 0 disables it.
	FPS float64 `toml:"fps"`
}

// Scripts contains user command settings.
type Scripts struct {
	Watch          bool `toml:"watch"`
	DebounceMillis int  `toml:"debounce_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	File          bool   `toml:"file"`
	RetentionDays int    `toml:"retention_days"`
}

// Recent contains recent-files settings.
type Recent struct {
	Limit int `toml:"limit"`
}

// Config encapsulates all configuration values for subedit.
type Config struct {
	Subs    Subs    `toml:"subs"`
	Paths   Paths   `toml:"paths"`
	GUI     GUI     `toml:"gui"`
	Media   Media   `toml:"media"`
	Scripts Scripts `toml:"scripts"`
	Logging Logging `toml:"logging"`
	Recent  Recent  `toml:"recent"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	root := defaultRootDir
	if env := strings.TrimSpace(os.Getenv(RootDirEnv)); env != "" {
		root = env
	}
	return expandPath(filepath.Join(root, "config.toml"))
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded. The second result is the resolved
// path and the third reports whether the file existed.
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
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if env := strings.TrimSpace(os.Getenv(RootDirEnv)); env != "" {
		cfg.Paths.RootDir = env
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
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// ScriptsDir is where user command manifests are read from.
func (c *Config) ScriptsDir() string {
	return filepath.Join(c.Paths.RootDir, "scripts")
}

// EnsureDirectories creates the state directory.
// LogDir returns the directory holding daily log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.Paths.StateDir, "logs")
}

func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
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
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the annotated sample configuration.
func SampleConfig() string { return sampleConfig }

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
