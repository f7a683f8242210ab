// Package batchlock keeps two conversions from writing into the same output
// directory at once.
package batchlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBusy is returned when another process holds the lock for a directory.
var ErrBusy = errors.New("another conversion is already writing to this directory")

// Lock is a held advisory lock
type Lock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for dir. The file lives in the temp
// directory so read-only or removable output locations still work.
func PathFor(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(os.TempDir(), "pngtojpeg-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// Acquire takes the lock for dir without blocking.
func Acquire(dir string) (*Lock, error) {
	path, err := PathFor(dir)
	if err != nil {
		return nil, err
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, dir)
	}
	return &Lock{path: path, lock: lock}, nil
}

// Path is the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. Safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}
