package testapi

import (
	"fmt"

	"encore.dev/rlog"

	"encore.app/idempotency/accesscache"
	"encore.app/idempotency/accesscache/encorecache"
	"encore.app/idempotency/accesscache/memory"
	"encore.app/idempotency/accesscache/pgstore"
	"encore.app/idempotency/accesslock"
	"encore.app/idempotency/accesslock/encorelock"
	memorylock "encore.app/idempotency/accesslock/memory"
	"encore.app/idempotency/accesslock/pglock"
	"encore.app/idempotency/workflow"
)

// substrates builds the external stores lazily so that only the selected
// backends touch their infrastructure.
type substrates struct {
	redisStore  func() accesscache.Store
	redisLocker func() accesslock.Locker
	pgStore     func() *pgstore.Store
	pgLocker    func() accesslock.Locker
}

func encoreSubstrates() substrates {
	return substrates{
		redisStore:  func() accesscache.Store { return encorecache.New(EntryCache) },
		redisLocker: func() accesslock.Locker { return encorelock.New(LockCache, encorelock.DefaultLeaseTTL) },
		pgStore:     func() *pgstore.Store { return pgstore.New(sqldbPool()) },
		pgLocker:    func() accesslock.Locker { return pglock.New(sqldbPool()) },
	}
}

type backend struct {
	cache accesscache.AccessCache
	// purger is nil when the store expires entries by itself.
	purger workflow.Purger
}

func newBackend(caching, lock string, subs substrates) (*backend, error) {
	var (
		store  accesscache.Store
		purger workflow.Purger
	)
	switch caching {
	case "memory":
		s := memory.NewStore()
		store, purger = s, s
	case "redis":
		store = subs.redisStore()
	case "postgres":
		s := subs.pgStore()
		store, purger = s, s
	default:
		return nil, fmt.Errorf("caching method %q is not recognized, options: memory, redis, postgres", caching)
	}

	var locker accesslock.Locker
	switch lock {
	case "none":
	case "memory":
		locker = memorylock.NewLocker()
	case "redis":
		locker = subs.redisLocker()
	case "postgres":
		locker = subs.pgLocker()
	default:
		return nil, fmt.Errorf("distributed access lock method %q is not recognized, options: none, memory, redis, postgres", lock)
	}

	rlog.Info("idempotency backend selected", "caching", caching, "da_lock", lock)
	return &backend{
		cache:  accesscache.NewGuarded(store, locker),
		purger: purger,
	}, nil
}
