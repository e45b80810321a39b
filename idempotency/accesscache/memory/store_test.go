package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	got, err := s.GetOrSet(ctx, "k", []byte("first"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)

	got, err = s.GetOrSet(ctx, "k", []byte("second"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got, "existing value must be returned unchanged")
}

func TestStore_GetOrSetIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	const workers = 32
	results := make([][]byte, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := s.GetOrSet(ctx, "race", []byte(fmt.Sprintf("worker-%d", i)), time.Minute)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	winners := map[string]int{}
	for _, r := range results {
		winners[string(r)]++
	}
	assert.Len(t, winners, 1, "every caller must observe the same stored value")
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore().WithClock(func() time.Time { return now })

	_, err := s.GetOrSet(ctx, "k", []byte("old"), time.Hour)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, ok := s.Get("k")
	assert.False(t, ok, "entry must be gone once the ttl elapsed")

	got, err := s.GetOrSet(ctx, "k", []byte("new"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestStore_SetAndRemove(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Set(ctx, "k", []byte("v1"), 0))
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Remove(ctx, "k"))
	_, ok = s.Get("k")
	assert.False(t, ok)

	assert.NoError(t, s.Remove(ctx, "missing"), "removing an absent key is not an error")
}

func TestStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore().WithClock(func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, s.Set(ctx, "long", []byte("b"), time.Hour))
	require.NoError(t, s.Set(ctx, "forever", []byte("c"), 0))

	now = now.Add(10 * time.Minute)
	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok := s.Get("long")
	assert.True(t, ok)
	_, ok = s.Get("forever")
	assert.True(t, ok)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore()

	_, err := s.GetOrSet(ctx, "k", []byte("v"), time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
