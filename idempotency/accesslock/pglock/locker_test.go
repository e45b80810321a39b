package pglock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"encore.app/idempotency/accesslock"
)

type execCall struct {
	sql  string
	args []any
}

type fakeConn struct {
	calls    []execCall
	failOn   string
	failWith error
	released int
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.calls = append(c.calls, execCall{sql: sql, args: args})
	if sql == c.failOn {
		return pgconn.CommandTag{}, c.failWith
	}
	return pgconn.NewCommandTag("SELECT 1"), nil
}

func (c *fakeConn) Release() { c.released++ }

func newTestLocker(c *fakeConn, acquireErr error) *Locker {
	return &Locker{acquire: func(context.Context) (conn, error) {
		if acquireErr != nil {
			return nil, acquireErr
		}
		return c, nil
	}}
}

func TestLocker_AcquireAndRelease(t *testing.T) {
	c := &fakeConn{}
	l := newTestLocker(c, nil)

	lease, err := l.Acquire(context.Background(), "IdempotentAPI_k1", 250*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, c.released, "the connection is held while the lock is")

	require.NoError(t, lease.Release(context.Background()))
	require.NoError(t, lease.Release(context.Background()))
	assert.Equal(t, 1, c.released)

	require.Len(t, c.calls, 4)
	assert.Equal(t, execCall{sql: setLockTimeout, args: []any{"250ms"}}, c.calls[0])
	assert.Equal(t, execCall{sql: lockKey, args: []any{"IdempotentAPI_k1"}}, c.calls[1])
	assert.Equal(t, execCall{sql: unlockKey, args: []any{"IdempotentAPI_k1"}}, c.calls[2])
	assert.Equal(t, resetTimeout, c.calls[3].sql)
}

func TestLocker_AcquireFailures(t *testing.T) {
	poolDown := errors.New("pool closed")

	testCases := []struct {
		name         string
		conn         *fakeConn
		acquireErr   error
		wantErr      error
		wantReleased int
	}{
		{
			name:         "lock_not_available",
			conn:         &fakeConn{failOn: lockKey, failWith: &pgconn.PgError{Code: pgerrcode.LockNotAvailable}},
			wantErr:      accesslock.ErrNotAcquired,
			wantReleased: 1,
		},
		{
			name:         "query_canceled",
			conn:         &fakeConn{failOn: lockKey, failWith: &pgconn.PgError{Code: pgerrcode.QueryCanceled}},
			wantReleased: 1,
		},
		{
			name:         "set_timeout_fails",
			conn:         &fakeConn{failOn: setLockTimeout, failWith: errors.New("bad setting")},
			wantReleased: 1,
		},
		{
			name:       "no_connection",
			conn:       &fakeConn{},
			acquireErr: poolDown,
			wantErr:    poolDown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLocker(tc.conn, tc.acquireErr)
			_, err := l.Acquire(context.Background(), "k", time.Second)
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NotErrorIs(t, err, accesslock.ErrNotAcquired)
			}
			assert.Equal(t, tc.wantReleased, tc.conn.released)
		})
	}
}

func TestTimeoutSetting(t *testing.T) {
	assert.Equal(t, "1ms", timeoutSetting(0))
	assert.Equal(t, "1ms", timeoutSetting(time.Microsecond))
	assert.Equal(t, "1500ms", timeoutSetting(1500*time.Millisecond))
}
