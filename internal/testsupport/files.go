package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subedit/internal/ass"
	"subedit/internal/recent"
)

// Line describes one dialogue event of a fixture document.
type Line struct {
	Start, End int
	Text       string
}

// WriteDocument saves an ASS document holding lines to path and returns path.
func WriteDocument(t testing.TB, path string, lines ...Line) string {
	t.Helper()

	file := ass.NewBlankFile("Default")
	for i, line := range lines {
		if _, err := file.Events.InsertOne(i, ass.EventFields{
			Start: line.Start,
			End:   line.End,
			Style: "Default",
			Text:  line.Text,
		}); err != nil {
			t.Fatalf("insert fixture event: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := file.Save(f); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadDocument loads the ASS document at path.
func ReadDocument(t testing.TB, path string) *ass.File {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	file, err := ass.Read(f)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return file
}

// MustOpenRecent opens a recent-files store in a temp directory and
// registers cleanup.
func MustOpenRecent(t testing.TB, limit int) *recent.Store {
	t.Helper()

	store, err := recent.Open(t.TempDir(), limit)
	if err != nil {
		t.Fatalf("recent.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
