package accesscache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"encore.app/idempotency/accesscache"
	"encore.app/idempotency/accesslock"
	"encore.app/idempotency/mocks/cachemock"
	"encore.app/idempotency/mocks/lockmock"
)

func TestGuarded_GetOrSet(t *testing.T) {
	backendDown := errors.New("lock backend down")
	storeDown := errors.New("store down")

	testCases := []struct {
		name        string
		lockTimeout time.Duration
		mock        func(store *cachemock.MockStore, locker *lockmock.MockLocker, lease *lockmock.MockLease)
		wantValue   []byte
		wantErr     error
		checkErr    func(t *testing.T, err error)
	}{
		{
			name:        "unguarded_when_timeout_is_zero",
			lockTimeout: 0,
			mock: func(store *cachemock.MockStore, locker *lockmock.MockLocker, lease *lockmock.MockLease) {
				store.EXPECT().GetOrSet(gomock.Any(), "k", []byte("d"), time.Hour).Return([]byte("v"), nil)
			},
			wantValue: []byte("v"),
		},
		{
			name:        "locked_and_released",
			lockTimeout: time.Second,
			mock: func(store *cachemock.MockStore, locker *lockmock.MockLocker, lease *lockmock.MockLease) {
				gomock.InOrder(
					locker.EXPECT().Acquire(gomock.Any(), "k", time.Second).Return(lease, nil),
					store.EXPECT().GetOrSet(gomock.Any(), "k", []byte("d"), time.Hour).Return([]byte("d"), nil),
					lease.EXPECT().Release(gomock.Any()).Return(nil),
				)
			},
			wantValue: []byte("d"),
		},
		{
			name:        "lock_timeout",
			lockTimeout: time.Second,
			mock: func(store *cachemock.MockStore, locker *lockmock.MockLocker, lease *lockmock.MockLease) {
				locker.EXPECT().Acquire(gomock.Any(), "k", time.Second).Return(nil, accesslock.ErrNotAcquired)
			},
			wantErr: accesscache.ErrDistributedLockNotAcquired,
			checkErr: func(t *testing.T, err error) {
				var notAcquired *accesscache.DistributedLockNotAcquiredError
				if assert.ErrorAs(t, err, &notAcquired) {
					assert.Equal(t, "k", notAcquired.Key)
					assert.Equal(t, time.Second, notAcquired.Timeout)
					assert.Nil(t, notAcquired.Err)
				}
			},
		},
		{
			name:        "lock_backend_failure_keeps_cause",
			lockTimeout: time.Second,
			mock: func(store *cachemock.MockStore, locker *lockmock.MockLocker, lease *lockmock.MockLease) {
				locker.EXPECT().Acquire(gomock.Any(), "k", time.Second).Return(nil, backendDown)
			},
			wantErr: accesscache.ErrDistributedLockNotAcquired,
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, backendDown)
			},
		},
		{
			name:        "store_failure_still_releases",
			lockTimeout: time.Second,
			mock: func(store *cachemock.MockStore, locker *lockmock.MockLocker, lease *lockmock.MockLease) {
				locker.EXPECT().Acquire(gomock.Any(), "k", time.Second).Return(lease, nil)
				store.EXPECT().GetOrSet(gomock.Any(), "k", []byte("d"), time.Hour).Return(nil, storeDown)
				lease.EXPECT().Release(gomock.Any()).Return(nil)
			},
			wantErr: storeDown,
		},
		{
			name:        "release_failure_is_not_returned",
			lockTimeout: time.Second,
			mock: func(store *cachemock.MockStore, locker *lockmock.MockLocker, lease *lockmock.MockLease) {
				locker.EXPECT().Acquire(gomock.Any(), "k", time.Second).Return(lease, nil)
				store.EXPECT().GetOrSet(gomock.Any(), "k", []byte("d"), time.Hour).Return([]byte("v"), nil)
				lease.EXPECT().Release(gomock.Any()).Return(errors.New("already expired"))
			},
			wantValue: []byte("v"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := cachemock.NewMockStore(ctrl)
			locker := lockmock.NewMockLocker(ctrl)
			lease := lockmock.NewMockLease(ctrl)
			tc.mock(store, locker, lease)

			g := accesscache.NewGuarded(store, locker)
			got, err := g.GetOrSet(context.Background(), "k", []byte("d"), g.CreateEntryOptions(1), tc.lockTimeout)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				if tc.checkErr != nil {
					tc.checkErr(t, err)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantValue, got)
		})
	}
}

func TestGuarded_SetAndRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := cachemock.NewMockStore(ctrl)
	locker := lockmock.NewMockLocker(ctrl)
	lease := lockmock.NewMockLease(ctrl)

	gomock.InOrder(
		locker.EXPECT().Acquire(gomock.Any(), "k", time.Second).Return(lease, nil),
		store.EXPECT().Set(gomock.Any(), "k", []byte("v"), 24*time.Hour).Return(nil),
		lease.EXPECT().Release(gomock.Any()).Return(nil),
		locker.EXPECT().Acquire(gomock.Any(), "k", time.Second).Return(lease, nil),
		store.EXPECT().Remove(gomock.Any(), "k").Return(nil),
		lease.EXPECT().Release(gomock.Any()).Return(nil),
	)

	g := accesscache.NewGuarded(store, locker)
	ctx := context.Background()
	assert.NoError(t, g.Set(ctx, "k", []byte("v"), g.CreateEntryOptions(24), time.Second))
	assert.NoError(t, g.Remove(ctx, "k", time.Second))
}

func TestGuarded_NilLockerIgnoresTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := cachemock.NewMockStore(ctrl)
	store.EXPECT().Remove(gomock.Any(), "k").Return(nil)

	g := accesscache.NewGuarded(store, nil)
	assert.NoError(t, g.Remove(context.Background(), "k", time.Minute))
}

func TestGuarded_ReleaseSurvivesCanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := cachemock.NewMockStore(ctrl)
	locker := lockmock.NewMockLocker(ctrl)
	lease := lockmock.NewMockLease(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	locker.EXPECT().Acquire(gomock.Any(), "k", time.Second).Return(lease, nil)
	store.EXPECT().Set(gomock.Any(), "k", []byte("v"), time.Hour).DoAndReturn(
		func(context.Context, string, []byte, time.Duration) error {
			cancel()
			return nil
		})
	lease.EXPECT().Release(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		assert.NoError(t, ctx.Err(), "release must not inherit the caller's cancellation")
		return nil
	})

	g := accesscache.NewGuarded(store, locker)
	assert.NoError(t, g.Set(ctx, "k", []byte("v"), g.CreateEntryOptions(1), time.Second))
}
