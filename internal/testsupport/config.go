package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subedit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp directory. File logging
// and the manifest watcher are off unless an option turns them on.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RootDir = filepath.Join(base, "root")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.File = false
	cfgVal.Scripts.Watch = false

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithFPS enables frame alignment at fps.
func WithFPS(fps float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Media.FPS = fps
	}
}

// WithWatch turns on the manifest watcher with a short debounce.
func WithWatch(debounceMillis int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scripts.Watch = true
		b.cfg.Scripts.DebounceMillis = debounceMillis
	}
}

// WithManifest writes a command manifest into the scripts directory.
func WithManifest(name, content string) ConfigOption {
	return func(b *configBuilder) {
		dir := b.cfg.ScriptsDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir scripts dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			b.t.Fatalf("write manifest %s: %v", name, err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.RootDir)
}
