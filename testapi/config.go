package testapi

import (
	"time"

	"encore.dev/config"

	"encore.app/idempotency"
)

// Config selects the substrate backing the idempotent endpoints.
type Config struct {
	// Caching is one of "memory", "redis" or "postgres".
	Caching string
	// DALock is one of "none", "memory", "redis" or "postgres".
	DALock string

	Idempotency IdempotencyConfig
	Temporal    TemporalConfig
}

type IdempotencyConfig struct {
	HeaderKeyName             string
	CacheKeysPrefix           string
	ExpireHours               int
	DistributedLockTimeoutMs  int
	CacheOnlySuccessResponses bool
}

// TemporalConfig drives the expired entry purge. An empty HostPort disables it.
type TemporalConfig struct {
	HostPort  string
	Namespace string
	TaskQueue string
	PurgeCron string
}

var cfg = config.Load[*Config]()

func (c IdempotencyConfig) options() idempotency.Options {
	return idempotency.Options{
		HeaderKeyName:             c.HeaderKeyName,
		CacheKeysPrefix:           c.CacheKeysPrefix,
		ExpireHours:               c.ExpireHours,
		DistributedLockTimeout:    time.Duration(c.DistributedLockTimeoutMs) * time.Millisecond,
		CacheOnlySuccessResponses: c.CacheOnlySuccessResponses,
	}
}
