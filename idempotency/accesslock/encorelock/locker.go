// Package encorelock implements accesslock.Locker on an Encore cache cluster.
//
// A lock is a key written with SET NX holding a random token and a lease
// TTL, so a holder that dies without releasing frees the key once the TTL
// runs out. Waiters poll until the acquisition timeout.
package encorelock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"encore.dev/rlog"
	"encore.dev/storage/cache"
	"github.com/google/uuid"

	"encore.app/idempotency/accesslock"
)

const (
	DefaultLeaseTTL     = 30 * time.Second
	DefaultPollInterval = 10 * time.Millisecond
)

// Keyspace is the subset of *cache.StringKeyspace[string] the locker uses.
type Keyspace interface {
	Get(ctx context.Context, key string) (string, error)
	SetIfNotExists(ctx context.Context, key string, val string) error
	Delete(ctx context.Context, keys ...string) (int, error)
}

// Locker takes per-key locks in a string keyspace.
type Locker struct {
	ks           Keyspace
	pollInterval time.Duration
	newToken     func() string
}

var _ accesslock.Locker = (*Locker)(nil)

// Option configures a Locker.
type Option func(*Locker)

// WithPollInterval sets how often a waiter retries.
func WithPollInterval(d time.Duration) Option {
	return func(l *Locker) { l.pollInterval = d }
}

// New returns a Locker whose locks expire after leaseTTL if never released.
func New(ks *cache.StringKeyspace[string], leaseTTL time.Duration, opts ...Option) *Locker {
	if leaseTTL <= 0 {
		leaseTTL = DefaultLeaseTTL
	}
	return NewWithKeyspace(ks.With(cache.ExpireIn(leaseTTL)), opts...)
}

// NewWithKeyspace returns a Locker writing through ks as is.
func NewWithKeyspace(ks Keyspace, opts ...Option) *Locker {
	l := &Locker{
		ks:           ks,
		pollInterval: DefaultPollInterval,
		newToken:     uuid.NewString,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Acquire implements accesslock.Locker.
func (l *Locker) Acquire(ctx context.Context, key string, timeout time.Duration) (accesslock.Lease, error) {
	token := l.newToken()
	deadline := time.Now().Add(timeout)

	for {
		err := l.ks.SetIfNotExists(ctx, key, token)
		if err == nil {
			return &lease{ks: l.ks, key: key, token: token}, nil
		}
		if !errors.Is(err, cache.KeyExists) {
			return nil, fmt.Errorf("encorelock: lock %q: %w", key, err)
		}

		wait := time.Until(deadline)
		if wait <= 0 {
			return nil, accesslock.ErrNotAcquired
		}
		if wait > l.pollInterval {
			wait = l.pollInterval
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

type lease struct {
	ks    Keyspace
	key   string
	token string
}

// Release deletes the lock key if it still holds this lease's token. The
// check and the delete are two round trips; a lease that outlived its TTL
// in between can drop the next holder's lock.
func (l *lease) Release(ctx context.Context) error {
	current, err := l.ks.Get(ctx, l.key)
	if errors.Is(err, cache.Miss) {
		rlog.Debug("encorelock: lease already expired", "key", l.key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("encorelock: read %q: %w", l.key, err)
	}
	if current != l.token {
		rlog.Warn("encorelock: lock taken over after lease expiry", "key", l.key)
		return nil
	}
	if _, err := l.ks.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("encorelock: unlock %q: %w", l.key, err)
	}
	return nil
}
