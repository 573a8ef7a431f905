package promise

import (
	"errors"
	"fmt"
)

var (
	// ErrSelfResolve is the rejection reason of a promise that got
	// resolved with itself as the value, which would otherwise make it
	// adopt itself, and stay pending forever.
	ErrSelfResolve = errors.New("promise: chaining cycle detected, promise resolved with itself")
)

// UncaughtRejection wraps a rejection reason that reached the pipeline's
// uncaught-rejection handler, after it got dropped by every registered
// callback and successor of its promise.
type UncaughtRejection struct {
	reason any
}

func (e *UncaughtRejection) Error() string {
	return fmt.Sprintf("uncaught rejection in the promise chain: %v", e.reason)
}

// Reason returns the rejection reason as-is.
func (e *UncaughtRejection) Reason() any {
	return e.reason
}

func (e *UncaughtRejection) Unwrap() error {
	if err, ok := e.reason.(error); ok {
		return err
	}
	return nil
}

func newUncaughtRejection(reason any) *UncaughtRejection {
	return &UncaughtRejection{reason: reason}
}
