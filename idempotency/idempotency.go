// Package idempotency coordinates idempotent execution of mutating HTTP
// requests.
//
// A Coordinator is shared by the whole process. Every request gets its own
// Idempotency from NewIdempotency; the pipeline calls BeginRequest before the
// protected operation and CompleteRequest or CancelRequest after it. The
// cache slot of a key moves from absent to in-flight to completed, and an
// in-flight slot goes back to absent when the attempt is cancelled or its
// response is not worth keeping.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"encore.dev/beta/errs"
	"encore.dev/rlog"
	"github.com/google/uuid"

	"encore.app/idempotency/accesscache"
	"encore.app/idempotency/codec"
	"encore.app/idempotency/fingerprint"
	"encore.app/idempotency/metrics"
	"encore.app/idempotency/model"
)

// Coordinator holds everything the per-request protocol needs. It keeps no
// mutable state of its own and is safe for concurrent use.
type Coordinator struct {
	cache        accesscache.AccessCache
	opts         Options
	entryOptions accesscache.EntryOptions
	hasher       fingerprint.Hasher
	codec        codec.Codec
	metrics      metrics.Recorder
	newID        func() string
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithHasher replaces the SHA-256 request hasher.
func WithHasher(h fingerprint.Hasher) Option {
	return func(c *Coordinator) { c.hasher = h }
}

// WithCodec replaces the JSON entry codec.
func WithCodec(cd codec.Codec) Option {
	return func(c *Coordinator) { c.codec = cd }
}

// WithRecorder sends decision and cache events to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Coordinator) { c.metrics = r }
}

// NewCoordinator validates opts and returns a Coordinator over cache.
func NewCoordinator(cache accesscache.AccessCache, opts Options, options ...Option) (*Coordinator, error) {
	if cache == nil {
		return nil, &errs.Error{Code: errs.FailedPrecondition, Message: "an access cache is not configured"}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		cache:   cache,
		opts:    opts,
		hasher:  fingerprint.SHA256{},
		codec:   codec.JSON{},
		metrics: metrics.Noop{},
		newID:   uuid.NewString,
	}
	for _, o := range options {
		o(c)
	}
	c.entryOptions = cache.CreateEntryOptions(opts.ExpireHours)
	return c, nil
}

// Options returns the options the coordinator was built with.
func (c *Coordinator) Options() Options {
	return c.opts
}

// NewIdempotency returns the state holder for one request.
func (c *Coordinator) NewIdempotency() *Idempotency {
	return &Idempotency{c: c}
}

// Idempotency is the per-request side of the protocol. It must not be shared
// between requests.
type Idempotency struct {
	c *Coordinator

	appliedPre        bool
	replayedFromCache bool
	key               string
	request           *model.Request
}

// Key returns the idempotency key resolved by BeginRequest, if any.
func (i *Idempotency) Key() string {
	return i.key
}

func (i *Idempotency) cacheKey() string {
	return i.c.opts.CacheKeysPrefix + i.key
}

// BeginRequest decides what to do with req before the operation runs.
// Stored headers of a replayed response are merged into responseHeader
// without replacing headers it already has.
func (i *Idempotency) BeginRequest(ctx context.Context, req *model.Request, responseHeader http.Header) (Decision, error) {
	c := i.c
	rlog.Info("idempotency: request received",
		"method", req.Method,
		"path", req.Path,
		"content_length", len(req.Body),
	)

	if !ProtectsMethod(req.Method) {
		rlog.Info("idempotency: skipped for method", "method", req.Method)
		return i.decide(Decision{Outcome: PassThrough}), nil
	}
	if i.appliedPre {
		return i.decide(Decision{Outcome: PassThrough}), nil
	}

	key, err := extractKey(req.Header, c.opts.HeaderKeyName)
	if err != nil {
		return Decision{}, err
	}
	i.key = key
	i.request = req

	attemptID := c.newID()
	marker, err := c.codec.Encode(model.NewInFlightEntry(attemptID))
	if err != nil {
		return Decision{}, errs.WrapCode(err, errs.Internal, "cannot serialize the in-flight marker")
	}

	data, err := c.cache.GetOrSet(ctx, i.cacheKey(), marker, c.entryOptions, c.opts.DistributedLockTimeout)
	if err != nil {
		if errors.Is(err, accesscache.ErrDistributedLockNotAcquired) {
			c.lockNotAcquired("begin", key, err)
			return i.decide(Decision{
				Outcome:  Conflict,
				Degraded: true,
				Message:  "the idempotency key is locked by another request",
			}), nil
		}
		rlog.Error("idempotency: cache unavailable", "idempotency_key", key, "error", err)
		return Decision{}, substrateError(err)
	}

	entry, err := c.codec.Decode(data)
	if err != nil {
		rlog.Error("idempotency: corrupt cache entry", "idempotency_key", key, "error", err)
		return Decision{}, corruptEntryError(err)
	}

	if entry.IsInFlight() {
		if !strings.EqualFold(entry.RequestInFlightID, attemptID) {
			rlog.Info("idempotency: concurrent request detected", "idempotency_key", key)
			return i.decide(Decision{
				Outcome: Conflict,
				Message: "a request with the same idempotency key is already being processed",
			}), nil
		}
		i.appliedPre = true
		rlog.Info("idempotency: end", "idempotency_key", key)
		return i.decide(Decision{Outcome: Proceed}), nil
	}

	hash, err := fingerprint.Compute(c.hasher, req)
	if err != nil {
		return Decision{}, errs.WrapCode(err, errs.Internal, "cannot hash the request")
	}
	if hash != entry.RequestDataHash {
		return i.decide(Decision{
			Outcome: KeyReusedForDifferentRequest,
			Message: fmt.Sprintf("The Idempotency header key value '%s' was used in a different request.", key),
		}), nil
	}

	resp := entry.Response()
	mergeHeaders(responseHeader, entry.ResponseHeaders)
	i.replayedFromCache = true
	i.appliedPre = true
	rlog.Info("idempotency: returning cached response",
		"idempotency_key", key,
		"status", resp.StatusCode,
		"result_type", string(resp.Body.Kind),
	)
	return i.decide(Decision{Outcome: Replay, Response: resp}), nil
}

// CompleteRequest stores resp as the outcome of the attempt. Cache failures
// are logged and never reach the caller; the response is already on its way.
func (i *Idempotency) CompleteRequest(ctx context.Context, resp *model.ResponseModel) {
	c := i.c
	rlog.Info("idempotency: response sent", "status", resp.StatusCode)

	if !i.appliedPre || i.replayedFromCache {
		rlog.Info("idempotency: completion skipped",
			"applied_pre", i.appliedPre,
			"replayed_from_cache", i.replayedFromCache,
		)
		return
	}

	if c.opts.CacheOnlySuccessResponses && !resp.IsSuccess() {
		i.remove(ctx, "complete")
		rlog.Info("idempotency: completion skipped, status is not 2xx", "status", resp.StatusCode)
		return
	}

	data, err := i.completedRecord(resp)
	if err != nil {
		rlog.Error("idempotency: cannot build completed record", "idempotency_key", i.key, "error", err)
		c.metrics.ObserveCacheWrite("failed")
		i.remove(ctx, "complete")
		return
	}

	err = c.cache.Set(ctx, i.cacheKey(), data, c.entryOptions, c.opts.DistributedLockTimeout)
	switch {
	case errors.Is(err, accesscache.ErrDistributedLockNotAcquired):
		c.lockNotAcquired("complete", i.key, err)
		c.metrics.ObserveCacheWrite("failed")
		return
	case err != nil:
		rlog.Error("idempotency: failed to cache response", "idempotency_key", i.key, "error", err)
		c.metrics.ObserveCacheWrite("failed")
		return
	}

	c.metrics.ObserveCacheWrite("stored")
	rlog.Info("idempotency: result is cached", "idempotency_key", i.key)
}

// CancelRequest frees the key so the client can retry. It does nothing when
// BeginRequest never resolved a key.
func (i *Idempotency) CancelRequest(ctx context.Context) {
	if i.key == "" {
		return
	}
	i.remove(ctx, "cancel")
	rlog.Info("idempotency: skipped, an error occurred", "idempotency_key", i.key)
}

func (i *Idempotency) remove(ctx context.Context, operation string) {
	c := i.c
	err := c.cache.Remove(ctx, i.cacheKey(), c.opts.DistributedLockTimeout)
	switch {
	case errors.Is(err, accesscache.ErrDistributedLockNotAcquired):
		c.lockNotAcquired(operation, i.key, err)
	case err != nil:
		rlog.Error("idempotency: failed to remove cache entry", "idempotency_key", i.key, "error", err)
	default:
		if operation == "complete" {
			c.metrics.ObserveCacheWrite("removed")
		}
	}
}

func (i *Idempotency) completedRecord(resp *model.ResponseModel) ([]byte, error) {
	hash, err := fingerprint.Compute(i.c.hasher, i.request)
	if err != nil {
		return nil, err
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = resp.Headers.Get("Content-Type")
	}

	body := resp.Body
	if body == nil {
		body = model.PlainBody(nil)
	}

	entry := model.Entry{
		RequestMethod:       i.request.Method,
		RequestPath:         i.request.Path,
		RequestQueryString:  i.request.QueryString(),
		RequestDataHash:     hash,
		ResponseStatusCode:  resp.StatusCode,
		ResponseContentType: stripCharset(contentType),
		ResponseHeaders:     cacheableHeaders(resp.Headers),
		ResponseBody:        body.Clone(),
	}
	return i.c.codec.Encode(entry)
}

func (i *Idempotency) decide(d Decision) Decision {
	i.c.metrics.ObserveDecision(d.Outcome.String())
	return d
}

func (c *Coordinator) lockNotAcquired(operation, key string, err error) {
	c.metrics.ObserveLockNotAcquired(operation)

	var notAcquired *accesscache.DistributedLockNotAcquiredError
	if errors.As(err, &notAcquired) && notAcquired.Err != nil {
		rlog.Error("idempotency: distributed lock not acquired",
			"operation", operation,
			"idempotency_key", key,
			"error", notAcquired.Err,
		)
		return
	}
	rlog.Warn("idempotency: distributed lock not acquired",
		"operation", operation,
		"idempotency_key", key,
		"error", err,
	)
}

func extractKey(h http.Header, name string) (string, error) {
	values := h.Values(name)
	switch {
	case len(values) == 0:
		return "", keyError(ErrMissingKey, name)
	case len(values) > 1:
		return "", keyError(ErrMultipleKeys, name)
	case values[0] == "":
		return "", keyError(ErrEmptyKey, name)
	}
	return values[0], nil
}
