package engine

import (
	"errors"
	"os"
)

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("engine: not found")

	// ErrClosed is returned by every operation on a closed engine.
	ErrClosed = errors.New("engine: closed")
)

// Engine is a persistent key-value store bound to a single path.  Drivers
// must be safe for concurrent use.
type Engine interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Close() error
}

// CorruptionError wraps an engine error reporting on-disk corruption.  The
// message is the engine's own.
type CorruptionError struct {
	Err error
}

func (e *CorruptionError) Error() string {
	return e.Err.Error()
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// CheckExists returns the stat error for dbPath when the database directory
// does not exist and create is false.  Both engines create their directory
// before noticing the database is missing, so drivers call this first.
func CheckExists(dbPath string, create bool) error {
	if create {
		return nil
	}
	_, err := os.Stat(dbPath)
	return err
}
