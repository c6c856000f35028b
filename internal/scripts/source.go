package scripts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"subedit/internal/commands"
	"subedit/internal/logging"
)

// SourceName identifies commands registered from the scripts directory.
const SourceName = "scripts"

// DirSource is a commands.Source over the *.toml manifests of a directory.
// Manifests load in file name order; a broken manifest is logged and
// skipped so the others stay available.
type DirSource struct {
	dir    string
	logger *slog.Logger
}

// NewDirSource returns a source reading manifests from dir.
func NewDirSource(dir string, logger *slog.Logger) *DirSource {
	return &DirSource{dir: dir, logger: logging.NewComponentLogger(logger, "scripts")}
}

func (s *DirSource) Name() string { return SourceName }

// Dir returns the manifest directory.
func (s *DirSource) Dir() string { return s.dir }

// Load reads every manifest. A missing directory yields no commands.
func (s *DirSource) Load(ctx context.Context) ([]*commands.Command, []commands.MenuItem, error) {
	if _, err := os.Stat(s.dir); errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("scripts directory absent", logging.String("dir", s.dir))
		return nil, nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.toml"))
	if err != nil {
		return nil, nil, fmt.Errorf("list manifests: %w", err)
	}

	var (
		cmds []*commands.Command
		menu []commands.MenuItem
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		m, err := readManifest(path)
		if err != nil {
			logging.WarnWithContext(s.logger, "manifest skipped", "manifest_invalid",
				logging.Path(path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the manifest and run reload-cmds"),
				logging.String(logging.FieldImpact, "its commands are unavailable"),
			)
			continue
		}
		c, items := m.Build()
		s.logger.Debug("manifest loaded",
			logging.Path(path),
			logging.Int("commands", len(c)),
			logging.Int("menu_items", len(items)),
		)
		cmds = append(cmds, c...)
		menu = append(menu, items...)
	}
	return cmds, menu, nil
}

func readManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return m, nil
}
