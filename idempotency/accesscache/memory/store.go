// Package memory is an in-process accesscache.Store. It is atomic within a
// single process only; use it for tests and single-instance deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"encore.app/idempotency/accesscache"
)

type item struct {
	value     []byte
	expiresAt time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// Store keeps entries in a map guarded by a mutex.
type Store struct {
	mu    sync.Mutex
	items map[string]item
	now   func() time.Time
}

var _ accesscache.Store = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]item),
		now:   time.Now,
	}
}

// WithClock replaces the time source used for expiry.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// GetOrSet implements accesscache.Store.
func (s *Store) GetOrSet(ctx context.Context, key string, defaultValue []byte, ttl time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if it, ok := s.items[key]; ok && !it.expired(now) {
		return clone(it.value), nil
	}
	s.items[key] = s.newItem(defaultValue, ttl, now)
	return clone(defaultValue), nil
}

// Set implements accesscache.Store.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = s.newItem(value, ttl, s.now())
	return nil
}

// Remove implements accesscache.Store.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Get returns the live value of key.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok || it.expired(s.now()) {
		return nil, false
	}
	return clone(it.value), true
}

// PurgeExpired drops expired entries and returns how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for k, it := range s.items {
		if it.expired(now) {
			delete(s.items, k)
			n++
		}
	}
	return n, nil
}

func (s *Store) newItem(value []byte, ttl time.Duration, now time.Time) item {
	it := item{value: clone(value)}
	if ttl > 0 {
		it.expiresAt = now.Add(ttl)
	}
	return it
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
