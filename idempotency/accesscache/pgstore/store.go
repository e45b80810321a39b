// Package pgstore keeps idempotency entries in a Postgres table.
//
// GetOrSet is a single INSERT ... ON CONFLICT DO UPDATE statement that
// returns the value already stored unless it has expired, so two racing
// callers serialize on the row lock and observe the same winner. Expiry is
// evaluated with the database clock; expired rows are ignored on read and
// removed by PurgeExpired.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"encore.app/idempotency/accesscache"
	"encore.app/idempotency/accesscache/pgstore/entries"
)

// ErrNotFound is returned by Get for an absent or expired key.
var ErrNotFound = errors.New("pgstore: entry not found")

// Store implements accesscache.Store on the idempotency_entries table.
type Store struct {
	q entries.Querier
}

var _ accesscache.Store = (*Store)(nil)

// New returns a Store running its queries on db, usually a *pgxpool.Pool.
func New(db entries.DBTX) *Store {
	return NewWithQuerier(entries.New(db))
}

// NewWithQuerier returns a Store over an existing querier.
func NewWithQuerier(q entries.Querier) *Store {
	return &Store{q: q}
}

// GetOrSet implements accesscache.Store.
func (s *Store) GetOrSet(ctx context.Context, key string, defaultValue []byte, ttl time.Duration) ([]byte, error) {
	value, err := s.q.GetOrCreateEntry(ctx, entries.GetOrCreateEntryParams{
		Key:   key,
		Value: defaultValue,
		TtlMs: ttl.Milliseconds(),
	})
	if err != nil {
		return nil, wrap("get or create", key, err)
	}
	return value, nil
}

// Set implements accesscache.Store.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.q.UpsertEntry(ctx, entries.UpsertEntryParams{
		Key:   key,
		Value: value,
		TtlMs: ttl.Milliseconds(),
	})
	return wrap("upsert", key, err)
}

// Remove implements accesscache.Store.
func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.q.DeleteEntry(ctx, key)
	return wrap("delete", key, err)
}

// Get returns the live value of key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.q.GetEntry(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrap("get", key, err)
	}
	return entry.Value, nil
}

// Keys lists up to limit live keys starting with prefix.
func (s *Store) Keys(ctx context.Context, prefix string, limit int32) ([]string, error) {
	keys, err := s.q.ListEntryKeys(ctx, entries.ListEntryKeysParams{Prefix: prefix, MaxRows: limit})
	if err != nil {
		return nil, wrap("list", prefix, err)
	}
	return keys, nil
}

// PurgeExpired deletes the expired rows and returns how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.q.PurgeExpiredEntries(ctx)
	if err != nil {
		return 0, wrap("purge", "", err)
	}
	return n, nil
}

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var e *pgconn.PgError
	if errors.As(err, &e) && e.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("pgstore: %s %q: idempotency_entries table is missing, run the migrations: %w", op, key, err)
	}
	return fmt.Errorf("pgstore: %s %q: %w", op, key, err)
}
