// Package memory is an in-process accesslock.Locker built on weighted
// semaphores, one per key.
package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"encore.app/idempotency/accesslock"
)

type keyLock struct {
	sem  *semaphore.Weighted
	refs int
}

// Locker serializes access per key within one process.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

var _ accesslock.Locker = (*Locker)(nil)

// NewLocker creates a Locker with no held keys.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*keyLock)}
}

// Acquire implements accesslock.Locker.
func (l *Locker) Acquire(ctx context.Context, key string, timeout time.Duration) (accesslock.Lease, error) {
	kl := l.ref(key)

	acquireCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := kl.sem.Acquire(acquireCtx, 1); err != nil {
		l.unref(key)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, accesslock.ErrNotAcquired
	}

	var once sync.Once
	return accesslock.LeaseFunc(func(context.Context) error {
		once.Do(func() {
			kl.sem.Release(1)
			l.unref(key)
		})
		return nil
	}), nil
}

// Held returns the number of keys currently tracked.
func (l *Locker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Locker) ref(key string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{sem: semaphore.NewWeighted(1)}
		l.locks[key] = kl
	}
	kl.refs++
	return kl
}

func (l *Locker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl, ok := l.locks[key]
	if !ok {
		return
	}
	kl.refs--
	if kl.refs <= 0 {
		delete(l.locks, key)
	}
}
