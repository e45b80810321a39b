package accesscache

import (
	"context"
	"errors"
	"time"

	"encore.dev/rlog"

	"encore.app/idempotency/accesslock"
)

// Guarded composes a Store with a Locker into an AccessCache. Every
// operation on a key takes the same per-key lock when a lock timeout is
// given, so a Set or Remove never interleaves with a GetOrSet on that key.
type Guarded struct {
	store  Store
	locker accesslock.Locker
}

var _ AccessCache = (*Guarded)(nil)

// NewGuarded returns an AccessCache over store. A nil locker disables
// locking regardless of the lock timeout passed to the operations.
func NewGuarded(store Store, locker accesslock.Locker) *Guarded {
	return &Guarded{store: store, locker: locker}
}

// GetOrSet implements AccessCache.
func (g *Guarded) GetOrSet(ctx context.Context, key string, defaultValue []byte, options EntryOptions, lockTimeout time.Duration) ([]byte, error) {
	var value []byte
	err := g.withLock(ctx, key, lockTimeout, func(ctx context.Context) error {
		var err error
		value, err = g.store.GetOrSet(ctx, key, defaultValue, options.TTL)
		return err
	})
	return value, err
}

// Set implements AccessCache.
func (g *Guarded) Set(ctx context.Context, key string, value []byte, options EntryOptions, lockTimeout time.Duration) error {
	return g.withLock(ctx, key, lockTimeout, func(ctx context.Context) error {
		return g.store.Set(ctx, key, value, options.TTL)
	})
}

// Remove implements AccessCache.
func (g *Guarded) Remove(ctx context.Context, key string, lockTimeout time.Duration) error {
	return g.withLock(ctx, key, lockTimeout, func(ctx context.Context) error {
		return g.store.Remove(ctx, key)
	})
}

// CreateEntryOptions implements AccessCache.
func (g *Guarded) CreateEntryOptions(expireHours int) EntryOptions {
	return EntryOptions{TTL: time.Duration(expireHours) * time.Hour}
}

func (g *Guarded) withLock(ctx context.Context, key string, lockTimeout time.Duration, fn func(ctx context.Context) error) error {
	if g.locker == nil || lockTimeout <= 0 {
		return fn(ctx)
	}

	lease, err := g.locker.Acquire(ctx, key, lockTimeout)
	if err != nil {
		notAcquired := &DistributedLockNotAcquiredError{Key: key, Timeout: lockTimeout}
		if !errors.Is(err, accesslock.ErrNotAcquired) {
			notAcquired.Err = err
		}
		return notAcquired
	}
	defer func() {
		// The lease must be given back even when the caller's context is gone.
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			rlog.Warn("failed to release distributed lock", "key", key, "error", err)
		}
	}()

	return fn(ctx)
}
