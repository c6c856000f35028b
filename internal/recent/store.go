package recent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultLimit is the number of entries kept when none is configured.
const DefaultLimit = 20

// FileName is the database file created in the state directory.
const FileName = "recent.db"

// Entry is one remembered document.
type Entry struct {
	Path     string    `json:"path"`
	LastUsed time.Time `json:"last_used"`
	Uses     int       `json:"uses"`
}

// Store is the recent-files database. It is safe for concurrent use.
type Store struct {
	db    *sql.DB
	path  string
	limit int
	now   func() time.Time
}

// Open creates or opens the database in stateDir and applies migrations.
// Touch keeps at most limit entries; a non-positive limit uses DefaultLimit.
func Open(stateDir string, limit int) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	dbPath := filepath.Join(stateDir, FileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, limit: limit, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Touch records a use of path and drops the oldest entries beyond the limit.
func (s *Store) Touch(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("recent: empty path")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin touch tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recent_files (path, last_used, use_count) VALUES (?, ?, 1)
         ON CONFLICT(path) DO UPDATE SET last_used = excluded.last_used, use_count = use_count + 1`,
		path, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", path, err)
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM recent_files WHERE id NOT IN (
            SELECT id FROM recent_files ORDER BY last_used DESC, id DESC LIMIT ?
        )`,
		s.limit,
	)
	if err != nil {
		return fmt.Errorf("prune recent files: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit touch: %w", err)
	}
	return nil
}

// List returns up to limit entries, most recent first. A non-positive
// limit returns everything kept.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, last_used, use_count FROM recent_files ORDER BY last_used DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent files: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e    Entry
			nano int64
		)
		if err := rows.Scan(&e.Path, &nano, &e.Uses); err != nil {
			return nil, fmt.Errorf("scan recent file: %w", err)
		}
		e.LastUsed = time.Unix(0, nano).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Remove forgets path. Removing an unknown path is not an error.
func (s *Store) Remove(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Clear forgets every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_files`); err != nil {
		return fmt.Errorf("clear recent files: %w", err)
	}
	return nil
}
