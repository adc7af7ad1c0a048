package store

import (
	"errors"
	"fmt"
)

// Common store errors
var (
	// ErrSnapshotUnavailable is returned when neither the backing store nor the local
	// cache can supply a snapshot.
	ErrSnapshotUnavailable = errors.New("snapshot unavailable")

	// ErrInvalidDocument is returned when a stored collection is not valid JSON for its type.
	ErrInvalidDocument = errors.New("invalid stored document")
)

// StoreError wraps errors with the store operation and key that failed.
type StoreError struct {
	// Op is the operation that failed (e.g., "Load", "SaveSettings").
	Op string

	// Key is the file path or redis key involved, if any.
	Key string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	target := e.Op
	if e.Key != "" {
		target = fmt.Sprintf("%s %s", e.Op, e.Key)
	}
	if e.Details != "" {
		return fmt.Sprintf("store: %s failed: %s: %v", target, e.Details, e.Err)
	}
	return fmt.Sprintf("store: %s failed: %v", target, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, key string, err error, details string) *StoreError {
	return &StoreError{
		Op:      op,
		Key:     key,
		Err:     err,
		Details: details,
	}
}

// WrapStoreError wraps an error as a StoreError if it isn't already one.
func WrapStoreError(op, key string, err error, details string) error {
	if err == nil {
		return nil
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	return NewStoreError(op, key, err, details)
}

// invalid joins ErrInvalidDocument with the decoder error so both match errors.Is.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
}
