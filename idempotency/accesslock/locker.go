// Package accesslock defines the per-key mutual exclusion used to guard the
// idempotency access cache across processes.
package accesslock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned by a Locker when the lock is still held by
// someone else once the timeout elapses.
var ErrNotAcquired = errors.New("accesslock: lock not acquired")

// Locker hands out exclusive leases on keys.
type Locker interface {
	// Acquire blocks until the lock on key is held or timeout elapses.
	// A plain timeout returns ErrNotAcquired; any other error is a backend
	// failure.
	Acquire(ctx context.Context, key string, timeout time.Duration) (Lease, error)
}

// Lease is a held lock.
type Lease interface {
	Release(ctx context.Context) error
}

// LeaseFunc adapts a function to the Lease interface.
type LeaseFunc func(ctx context.Context) error

func (f LeaseFunc) Release(ctx context.Context) error {
	return f(ctx)
}
