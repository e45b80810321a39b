// Package accesscache defines the storage substrate the idempotency
// coordinator runs on: a key-value store whose operations are optionally
// guarded by a per-key distributed lock.
package accesscache

import (
	"context"
	"time"
)

// EntryOptions carries the per-write settings of a cache entry.
type EntryOptions struct {
	// TTL is how long the entry lives after the write. Zero means no expiry.
	TTL time.Duration
}

// AccessCache is the substrate contract consumed by the coordinator.
//
// A lockTimeout of zero runs the operation without the distributed lock.
// When the lock cannot be acquired within lockTimeout the operation fails
// with a *DistributedLockNotAcquiredError.
type AccessCache interface {
	// GetOrSet atomically returns the stored value for key, or stores
	// defaultValue and returns it when key is absent.
	GetOrSet(ctx context.Context, key string, defaultValue []byte, options EntryOptions, lockTimeout time.Duration) ([]byte, error)
	// Set overwrites the value of key.
	Set(ctx context.Context, key string, value []byte, options EntryOptions, lockTimeout time.Duration) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string, lockTimeout time.Duration) error
	// CreateEntryOptions builds the write options for entries expiring
	// after expireHours.
	CreateEntryOptions(expireHours int) EntryOptions
}

// Store is a key-value backend without locking. Implementations must make
// GetOrSet a single atomic operation; a read followed by a write is not
// acceptable because two racing callers could both observe the key as
// absent.
type Store interface {
	GetOrSet(ctx context.Context, key string, defaultValue []byte, ttl time.Duration) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}
