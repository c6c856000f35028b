package fileutil

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "doc.ass")

	err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello world")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestWriteAtomicKeepsTargetOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.ass")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "original" {
		t.Fatalf("target modified: %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %d entries", len(entries))
	}
}

func TestWithLockRejectsContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.ass")
	held := flock.New(LockPath(path))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("could not take lock: %v", err)
	}
	defer held.Unlock()

	ran := false
	err = WithLock(context.Background(), path, func() error {
		ran = true
		return nil
	})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if ran {
		t.Fatal("fn ran without the lock")
	}
}

func TestWithLockWaitsUntilDeadline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.ass")
	held := flock.New(LockPath(path))
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("could not take lock: %v", err)
	}
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = held.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ran := false
	if err := WithLock(ctx, path, func() error { ran = true; return nil }); err != nil {
		t.Fatalf("WithLock: %v", err)
	}
	if !ran {
		t.Fatal("fn did not run")
	}
}

func TestSameFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.mkv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !SameFile(path, filepath.Join(dir, ".", "video.mkv")) {
		t.Fatal("expected same file")
	}
	if SameFile(path, filepath.Join(dir, "missing.mkv")) {
		t.Fatal("expected different files")
	}
	if !SameFile(filepath.Join(dir, "a", "..", "missing"), filepath.Join(dir, "missing")) {
		t.Fatal("expected equal cleaned paths for missing files")
	}
}
