package docset

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".hyphen.lock"

// OutputLock keeps a second run from working on the same output directory.
type OutputLock struct {
	flock *flock.Flock
}

// LockOutput takes an exclusive, non-blocking lock inside dir. The
// directory must exist.
func LockOutput(dir string) (*OutputLock, error) {
	fl := flock.New(filepath.Join(dir, lockFileName))
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !acquired {
		return nil, preconditionf("output directory %q is in use by another run", dir)
	}
	return &OutputLock{flock: fl}, nil
}

// Unlock releases the lock. Safe to call on a nil lock.
func (l *OutputLock) Unlock() error {
	if l == nil || l.flock == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release output lock: %w", err)
	}
	return nil
}
