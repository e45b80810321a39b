package idempotency

import (
	"net/http"
	"time"

	"encore.dev/beta/errs"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const (
	DefaultHeaderKeyName   = "IdempotencyKey"
	DefaultCacheKeysPrefix = "IdempotentAPI_"
	DefaultExpireHours     = 24
)

// Options configures a Coordinator.
type Options struct {
	// HeaderKeyName is the request header carrying the idempotency key.
	HeaderKeyName string `validate:"required"`
	// CacheKeysPrefix is prepended to every key before it reaches the cache.
	CacheKeysPrefix string
	// ExpireHours is how long a completed response is kept.
	ExpireHours int `validate:"gt=0"`
	// DistributedLockTimeout bounds the wait for the per-key lock. Zero runs
	// the cache operations without the lock.
	DistributedLockTimeout time.Duration `validate:"gte=0"`
	// CacheOnlySuccessResponses drops the entry of a non 2xx response so the
	// client can retry with the same key.
	CacheOnlySuccessResponses bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		HeaderKeyName:             DefaultHeaderKeyName,
		CacheKeysPrefix:           DefaultCacheKeysPrefix,
		ExpireHours:               DefaultExpireHours,
		CacheOnlySuccessResponses: true,
	}
}

// Validate checks the options with go-playground/validator.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return &errs.Error{Code: errs.InvalidArgument, Message: err.Error()}
	}
	return nil
}

// ProtectsMethod reports whether requests with method get idempotency.
func ProtectsMethod(method string) bool {
	return method == http.MethodPost || method == http.MethodPatch
}
