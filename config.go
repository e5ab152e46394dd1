package gridlock

import (
	"fmt"
	"io"
	"sync"

	"pkt.systems/gridlock/internal/lockpool"
	"pkt.systems/pslog"
)

const (
	// DefaultRows is the grid height command-line tools start with when the
	// caller does not specify one.
	DefaultRows = 8
	// DefaultCols is the grid width command-line tools start with.
	DefaultCols = 8
	// DefaultUsers sizes the lock pool for command-line tools. More locks
	// mean fewer unrelated cells contending on a shared mutex.
	DefaultUsers = 16
)

// Config configures a Grid. Rows, Cols, and Users are required and must all
// be positive; the grid never shrinks below its construction size.
type Config struct {
	// Rows is the initial number of rows (>= 1).
	Rows int
	// Cols is the initial number of columns (>= 1).
	Cols int
	// Users sizes the lock pool (>= 1). The pool is created once and never
	// resized, regardless of grid growth.
	Users int
	// Logger receives structural operation events. Nil disables logging.
	Logger pslog.Logger
	// Placement decides which lock guards which cell. Nil selects
	// lockpool.Random, which balances cells across the pool. Tests substitute
	// a deterministic placement to pin cells to known locks.
	Placement lockpool.Placement
}

func (c Config) validate() error {
	if c.Rows < 1 {
		return fmt.Errorf("gridlock: rows must be positive, got %d", c.Rows)
	}
	if c.Cols < 1 {
		return fmt.Errorf("gridlock: cols must be positive, got %d", c.Cols)
	}
	if c.Users < 1 {
		return fmt.Errorf("gridlock: users must be positive, got %d", c.Users)
	}
	return nil
}

var (
	noopOnce   sync.Once
	noopLogger pslog.Logger
)

// ensureLogger returns l when non-nil, otherwise a disabled logger that
// discards all entries.
func ensureLogger(l pslog.Logger) pslog.Logger {
	if l != nil {
		return l
	}
	noopOnce.Do(func() {
		noopLogger = pslog.NewWithOptions(io.Discard, pslog.Options{
			Mode:     pslog.ModeStructured,
			MinLevel: pslog.Disabled,
		})
	})
	return noopLogger
}
