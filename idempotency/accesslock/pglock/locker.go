// Package pglock implements accesslock.Locker with Postgres session-level
// advisory locks.
//
// A lock holds one pooled connection for as long as it is held. Waiting is
// bounded by the lock_timeout setting of that session, which Postgres
// enforces server side.
package pglock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"encore.app/idempotency/accesslock"
)

const (
	setLockTimeout = "SELECT set_config('lock_timeout', $1, false)"
	resetTimeout   = "RESET lock_timeout"
	lockKey        = "SELECT pg_advisory_lock(hashtextextended($1, 0))"
	unlockKey      = "SELECT pg_advisory_unlock(hashtextextended($1, 0))"
)

type conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Release()
}

// Locker takes advisory locks keyed by a 64-bit hash of the cache key.
type Locker struct {
	acquire func(ctx context.Context) (conn, error)
}

var _ accesslock.Locker = (*Locker)(nil)

// New returns a Locker drawing connections from pool.
func New(pool *pgxpool.Pool) *Locker {
	return &Locker{acquire: func(ctx context.Context) (conn, error) {
		c, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return c, nil
	}}
}

// Acquire implements accesslock.Locker.
func (l *Locker) Acquire(ctx context.Context, key string, timeout time.Duration) (accesslock.Lease, error) {
	c, err := l.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("pglock: acquire connection: %w", err)
	}

	if _, err := c.Exec(ctx, setLockTimeout, timeoutSetting(timeout)); err != nil {
		c.Release()
		return nil, fmt.Errorf("pglock: set lock_timeout: %w", err)
	}

	if _, err := c.Exec(ctx, lockKey, key); err != nil {
		// The session must not keep the short timeout when it goes back to
		// the pool.
		_, _ = c.Exec(context.WithoutCancel(ctx), resetTimeout)
		c.Release()

		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.LockNotAvailable {
			return nil, accesslock.ErrNotAcquired
		}
		return nil, fmt.Errorf("pglock: lock %q: %w", key, err)
	}

	return &lease{conn: c, key: key}, nil
}

type lease struct {
	conn     conn
	key      string
	released bool
}

func (l *lease) Release(ctx context.Context) error {
	if l.released {
		return nil
	}
	l.released = true
	defer l.conn.Release()

	_, unlockErr := l.conn.Exec(ctx, unlockKey, l.key)
	_, resetErr := l.conn.Exec(ctx, resetTimeout)
	if err := errors.Join(unlockErr, resetErr); err != nil {
		return fmt.Errorf("pglock: release %q: %w", l.key, err)
	}
	return nil
}

// timeoutSetting renders timeout for lock_timeout. Zero would disable the
// timeout, so anything below a millisecond is rounded up.
func timeoutSetting(timeout time.Duration) string {
	ms := timeout.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return fmt.Sprintf("%dms", ms)
}
