package fileutil

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process holds the lock for a path.
var ErrLocked = errors.New("file is locked by another process")

const lockRetryDelay = 50 * time.Millisecond

// WriteAtomic streams the output of write into a temporary file next to
// path and renames it into place. The target is never left half written.
func WriteAtomic(path string, perm os.FileMode, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return fail("write temp file", err)
	}
	if err := bw.Flush(); err != nil {
		return fail("flush temp file", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail("chmod temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// LockPath returns the advisory lock file used for path.
func LockPath(path string) string {
	return path + ".lock"
}

// WithLock runs fn while holding an exclusive advisory lock on
// LockPath(path). It waits for the lock until ctx is done; when ctx carries
// no deadline a single attempt is made and ErrLocked returned on contention.
func WithLock(ctx context.Context, path string, fn func() error) error {
	lock := flock.New(LockPath(path))
	var (
		ok  bool
		err error
	)
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		ok, err = lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = lock.TryLock()
	}
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrLocked)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// SameFile reports whether a and b name the same file. When either cannot
// be stat'ed the cleaned absolute paths are compared instead.
func SameFile(a, b string) bool {
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(ai, bi)
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
