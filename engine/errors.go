package engine

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds returned by every engine operation. Callers branch on these
// with errors.Is; the HTTP layer maps them to distinct status codes instead
// of the flat 500 the old desktop bridge produced.
var (
	// ErrInvalidArgument marks malformed input detected before any mutation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a reference to a nonexistent table or customer.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable marks a transaction that could not complete
	// (timeout, lock contention, closed store). Always retryable: the
	// aborted transaction left no partial state behind.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConstraintViolation marks an operation the current data forbids,
	// e.g. deleting a table that still has open order lines.
	ErrConstraintViolation = errors.New("constraint violation")
)

var kinds = []error{ErrInvalidArgument, ErrNotFound, ErrStoreUnavailable, ErrConstraintViolation}

// IsRetryable reports whether the caller may safely re-issue the identical
// request. Only store-layer failures qualify; validation and lookup errors
// will fail the same way again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func invalidArgf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func constraintf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConstraintViolation, fmt.Sprintf(format, args...))
}

// storeErr classifies a store-layer error into one of the engine kinds.
// Errors already carrying a kind pass through unchanged so transaction
// bodies can return classified errors directly.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: record does not exist", ErrNotFound)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
