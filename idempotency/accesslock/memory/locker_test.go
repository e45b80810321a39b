package memory

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"encore.app/idempotency/accesslock"
)

func TestLocker_TimesOutWhileHeld(t *testing.T) {
	ctx := context.Background()
	l := NewLocker()

	lease, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "k", 20*time.Millisecond)
	assert.ErrorIs(t, err, accesslock.ErrNotAcquired)

	require.NoError(t, lease.Release(ctx))

	again, err := l.Acquire(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
	assert.Equal(t, 0, l.Held())
}

func TestLocker_IndependentKeys(t *testing.T) {
	ctx := context.Background()
	l := NewLocker()

	a, err := l.Acquire(ctx, "a", time.Second)
	require.NoError(t, err)
	b, err := l.Acquire(ctx, "b", 20*time.Millisecond)
	require.NoError(t, err, "a different key must not be blocked")

	assert.Equal(t, 2, l.Held())
	require.NoError(t, a.Release(ctx))
	require.NoError(t, b.Release(ctx))
}

func TestLocker_ReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := NewLocker()

	lease, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	require.NoError(t, lease.Release(ctx))
	require.NoError(t, lease.Release(ctx))

	other, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	_, err = l.Acquire(ctx, "k", 10*time.Millisecond)
	assert.ErrorIs(t, err, accesslock.ErrNotAcquired, "double release must not unlock twice")
	require.NoError(t, other.Release(ctx))
}

func TestLocker_MutualExclusion(t *testing.T) {
	ctx := context.Background()
	l := NewLocker()

	var inside, maxInside int32
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			lease, err := l.Acquire(ctx, "shared", 5*time.Second)
			if err != nil {
				return err
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			return lease.Release(ctx)
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), maxInside)
}

func TestLocker_CanceledContext(t *testing.T) {
	l := NewLocker()
	held, err := l.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer held.Release(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
