package testapi

import (
	"time"

	"encore.dev/storage/cache"
	"encore.dev/storage/sqldb"
	"github.com/jackc/pgx/v5/pgxpool"
)

var idempotencyDB = sqldb.NewDatabase("idempotency", sqldb.DatabaseConfig{
	Migrations: "./migrations",
})

// IdempotencyCluster holds entries and locks when Caching or DALock is "redis".
var IdempotencyCluster = cache.NewCluster("idempotency-cluster", cache.ClusterConfig{
	// Evicting a lock or an in-flight marker would let a duplicate through.
	EvictionPolicy: cache.NoEviction,
})

// EntryCache stores encoded idempotency entries keyed by the prefixed key.
var EntryCache = cache.NewStringKeyspace[string](IdempotencyCluster, cache.KeyspaceConfig{
	KeyPattern:    "idempotency/:key",
	DefaultExpiry: cache.ExpireIn(24 * time.Hour),
})

// LockCache holds one token per locked idempotency key.
var LockCache = cache.NewStringKeyspace[string](IdempotencyCluster, cache.KeyspaceConfig{
	KeyPattern:    "idempotency-lock/:key",
	DefaultExpiry: cache.ExpireIn(time.Minute),
})

func sqldbPool() *pgxpool.Pool {
	return sqldb.Driver(idempotencyDB)
}
