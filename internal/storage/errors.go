package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotFound is returned when a registry alias is not found
	ErrModelNotFound = errors.New("model not found")

	// ErrJobNotFound is returned when a fine-tune job record is not found
	ErrJobNotFound = errors.New("fine-tune job not found")
)

// StoreReadError reports that the registry file exists but could not be read
// or parsed. Callers degrade to an empty user-entry set instead of failing.
type StoreReadError struct {
	Path string
	Err  error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Path, e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

// StoreWriteError reports a failed registry save. The in-memory state is not
// rolled back; the caller decides whether to retry.
type StoreWriteError struct {
	Path string
	Err  error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("error saving models to %s: %v", e.Path, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }
