package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals the operation target does not exist: an unknown
	// username, or a stale/foreign link id.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a uniqueness violation (username or email taken).
	ErrConflict = errors.New("already taken")
)

// ValidationError rejects malformed input before any persistence call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// PersistenceError wraps any other storage failure. It is surfaced once to
// the caller and never retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }
