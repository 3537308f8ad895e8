// Package lockfile guards a path against concurrent use by several processes.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// ErrLocked is returned when a live process holds the lock.
var ErrLocked = errors.New("locked by another process")

// DefaultMaxAge is how long a lock is honored even if its owner still runs.
const DefaultMaxAge = time.Hour

// Lockfile is an exclusive-create lock file holding the owner's PID and
// acquisition time.
type Lockfile struct {
	path   string
	maxAge time.Duration
	file   *os.File
	pid    int
}

// New creates a lock for path with DefaultMaxAge.
func New(path string) *Lockfile {
	return NewWithMaxAge(path, DefaultMaxAge)
}

// NewWithMaxAge creates a lock that treats files older than maxAge as stale.
func NewWithMaxAge(path string, maxAge time.Duration) *Lockfile {
	return &Lockfile{path: path, maxAge: maxAge}
}

// TryAcquire takes the lock or fails with ErrLocked. A stale lock file
// (dead owner, unreadable, or older than the max age) is replaced.
func (l *Lockfile) TryAcquire() error {
	if l.file != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	file, err := l.create()
	if os.IsExist(err) {
		stale, reason := l.stale()
		if !stale {
			return fmt.Errorf("%w: %s", ErrLocked, reason)
		}
		if rmErr := os.Remove(l.path); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("failed to remove stale lock (%s): %w", reason, rmErr)
		}
		file, err = l.create()
	}
	if err != nil {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	l.file = file
	l.pid = os.Getpid()
	content := fmt.Sprintf("%d\n%s\n", l.pid, time.Now().Format(time.RFC3339))
	if _, err := file.WriteString(content); err != nil {
		return multierr.Append(fmt.Errorf("failed to write lock file: %w", err), l.Release())
	}
	if err := file.Sync(); err != nil {
		return multierr.Append(fmt.Errorf("failed to sync lock file: %w", err), l.Release())
	}
	return nil
}

func (l *Lockfile) create() (*os.File, error) {
	return os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
}

// stale reports whether the existing lock file may be taken over, and why.
func (l *Lockfile) stale() (bool, string) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return true, "unreadable lock file"
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || pid <= 0 {
		return true, "no PID in lock file"
	}
	if running, reason := isProcessRunning(pid); !running {
		return true, reason
	}
	if len(lines) >= 2 {
		if at, err := time.Parse(time.RFC3339, strings.TrimSpace(lines[1])); err == nil && time.Since(at) > l.maxAge {
			return true, fmt.Sprintf("lock is older than %s", l.maxAge)
		}
	}
	return false, fmt.Sprintf("held by PID %d", pid)
}

// Release drops the lock. Releasing an unheld lock does nothing.
func (l *Lockfile) Release() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if rmErr := os.Remove(l.path); rmErr != nil && !os.IsNotExist(rmErr) {
		err = multierr.Append(err, fmt.Errorf("failed to remove lock file: %w", rmErr))
	}
	return err
}

// PID returns the PID that acquired the lock.
func (l *Lockfile) PID() int { return l.pid }

// Locked reports whether this process holds the lock.
func (l *Lockfile) Locked() bool { return l.file != nil }

// Path returns the lock file path.
func (l *Lockfile) Path() string { return l.path }
