package logging

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"
)

// LockedFile appends to a log file holding an advisory file lock for each
// write, so several processes sharing one log never interleave a line.
type LockedFile struct {
	mu   sync.Mutex
	file *os.File
	lock *flock.Flock
}

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string) (*LockedFile, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &LockedFile{file: file, lock: flock.New(path)}, nil
}

func (w *LockedFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.lock.Lock(); err != nil {
		return 0, fmt.Errorf("lock log file: %w", err)
	}
	defer func() { _ = w.lock.Unlock() }()

	return w.file.Write(p)
}

func (w *LockedFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Join(w.file.Close(), w.lock.Close())
}
