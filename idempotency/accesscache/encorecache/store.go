// Package encorecache keeps idempotency entries in an Encore cache cluster
// (Redis).
//
// GetOrSet is built on SET NX: the first writer wins atomically and every
// other caller reads the value it stored.
package encorecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"encore.dev/storage/cache"

	"encore.app/idempotency/accesscache"
)

// getOrSetAttempts bounds the retries when the key expires between the
// failed SET NX and the following GET.
const getOrSetAttempts = 3

// Keyspace is the subset of *cache.StringKeyspace[string] the store uses.
type Keyspace interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, val string) error
	SetIfNotExists(ctx context.Context, key string, val string) error
	Delete(ctx context.Context, keys ...string) (int, error)
}

// Store implements accesscache.Store on a string keyspace.
type Store struct {
	// expiring returns the keyspace writing with the given ttl.
	expiring func(ttl time.Duration) Keyspace
}

var _ accesscache.Store = (*Store)(nil)

// New returns a Store over ks. The keyspace pattern must have a single
// string parameter, for example "idempotency/:key".
func New(ks *cache.StringKeyspace[string]) *Store {
	return &Store{expiring: func(ttl time.Duration) Keyspace {
		if ttl <= 0 {
			return ks.With(cache.NeverExpire)
		}
		return ks.With(cache.ExpireIn(ttl))
	}}
}

// NewWithKeyspace returns a Store that ignores ttl and writes through ks.
func NewWithKeyspace(ks Keyspace) *Store {
	return &Store{expiring: func(time.Duration) Keyspace { return ks }}
}

// GetOrSet implements accesscache.Store.
func (s *Store) GetOrSet(ctx context.Context, key string, defaultValue []byte, ttl time.Duration) ([]byte, error) {
	ks := s.expiring(ttl)
	for attempt := 0; attempt < getOrSetAttempts; attempt++ {
		err := ks.SetIfNotExists(ctx, key, string(defaultValue))
		if err == nil {
			return defaultValue, nil
		}
		if !errors.Is(err, cache.KeyExists) {
			return nil, fmt.Errorf("encorecache: set %q if not exists: %w", key, err)
		}

		value, err := ks.Get(ctx, key)
		if errors.Is(err, cache.Miss) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("encorecache: get %q: %w", key, err)
		}
		return []byte(value), nil
	}
	return nil, fmt.Errorf("encorecache: %q kept expiring during get or set", key)
}

// Set implements accesscache.Store.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.expiring(ttl).Set(ctx, key, string(value)); err != nil {
		return fmt.Errorf("encorecache: set %q: %w", key, err)
	}
	return nil
}

// Remove implements accesscache.Store.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.expiring(0).Delete(ctx, key); err != nil {
		return fmt.Errorf("encorecache: delete %q: %w", key, err)
	}
	return nil
}
