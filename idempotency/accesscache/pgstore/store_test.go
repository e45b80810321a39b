package pgstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"encore.app/idempotency/accesscache/pgstore/entries"
	"encore.app/idempotency/mocks/entriesmock"
)

func TestStore_GetOrSet(t *testing.T) {
	testCases := []struct {
		name      string
		ttl       time.Duration
		mockValue []byte
		mockError error
		wantValue []byte
		wantErr   string
	}{
		{
			name:      "returns_stored_value",
			ttl:       24 * time.Hour,
			mockValue: []byte("existing"),
			wantValue: []byte("existing"),
		},
		{
			name:      "no_expiry",
			ttl:       0,
			mockValue: []byte("default"),
			wantValue: []byte("default"),
		},
		{
			name:      "missing_table",
			ttl:       time.Hour,
			mockError: &pgconn.PgError{Code: pgerrcode.UndefinedTable},
			wantErr:   "run the migrations",
		},
		{
			name:      "database_error",
			ttl:       time.Hour,
			mockError: errors.New("connection reset"),
			wantErr:   "connection reset",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			q := entriesmock.NewMockQuerier(ctrl)
			q.EXPECT().GetOrCreateEntry(gomock.Any(), entries.GetOrCreateEntryParams{
				Key:   "IdempotentAPI_k1",
				Value: []byte("default"),
				TtlMs: tc.ttl.Milliseconds(),
			}).Return(tc.mockValue, tc.mockError)

			got, err := NewWithQuerier(q).GetOrSet(context.Background(), "IdempotentAPI_k1", []byte("default"), tc.ttl)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantValue, got)
		})
	}
}

func TestStore_SetAndRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	q := entriesmock.NewMockQuerier(ctrl)
	q.EXPECT().UpsertEntry(gomock.Any(), entries.UpsertEntryParams{
		Key:   "k",
		Value: []byte("v"),
		TtlMs: int64(time.Hour / time.Millisecond),
	}).Return(nil)
	q.EXPECT().DeleteEntry(gomock.Any(), "k").Return(int64(0), nil)

	s := NewWithQuerier(q)
	assert.NoError(t, s.Set(context.Background(), "k", []byte("v"), time.Hour))
	assert.NoError(t, s.Remove(context.Background(), "k"), "removing an absent key is not an error")
}

func TestStore_Get(t *testing.T) {
	testCases := []struct {
		name      string
		mockEntry entries.IdempotencyEntry
		mockError error
		wantValue []byte
		wantErr   error
	}{
		{
			name:      "found",
			mockEntry: entries.IdempotencyEntry{Key: "k", Value: []byte("v")},
			wantValue: []byte("v"),
		},
		{
			name:      "not_found",
			mockError: pgx.ErrNoRows,
			wantErr:   ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			q := entriesmock.NewMockQuerier(ctrl)
			q.EXPECT().GetEntry(gomock.Any(), "k").Return(tc.mockEntry, tc.mockError)

			got, err := NewWithQuerier(q).Get(context.Background(), "k")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantValue, got)
		})
	}
}

func TestStore_PurgeExpiredAndKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	q := entriesmock.NewMockQuerier(ctrl)
	q.EXPECT().PurgeExpiredEntries(gomock.Any()).Return(int64(3), nil)
	q.EXPECT().ListEntryKeys(gomock.Any(), entries.ListEntryKeysParams{Prefix: "IdempotentAPI_", MaxRows: 10}).
		Return([]string{"IdempotentAPI_a", "IdempotentAPI_b"}, nil)

	s := NewWithQuerier(q)
	n, err := s.PurgeExpired(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)

	keys, err := s.Keys(context.Background(), "IdempotentAPI_", 10)
	assert.NoError(t, err)
	assert.Equal(t, []string{"IdempotentAPI_a", "IdempotentAPI_b"}, keys)
}
