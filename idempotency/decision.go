package idempotency

import "encore.app/idempotency/model"

// Outcome is what BeginRequest decided for a request.
type Outcome int

const (
	// PassThrough means idempotency does not apply; run the operation as is.
	PassThrough Outcome = iota
	// Proceed means this attempt owns the key and must run the operation.
	Proceed
	// Replay means the stored response must be returned instead.
	Replay
	// Conflict means another attempt with the same key is in flight, or the
	// per-key lock could not be taken in time.
	Conflict
	// KeyReusedForDifferentRequest means the key already belongs to a
	// request with a different fingerprint.
	KeyReusedForDifferentRequest
)

func (o Outcome) String() string {
	switch o {
	case PassThrough:
		return "pass_through"
	case Proceed:
		return "proceed"
	case Replay:
		return "replay"
	case Conflict:
		return "conflict"
	case KeyReusedForDifferentRequest:
		return "key_reused"
	default:
		return "unknown"
	}
}

// Decision is the result of BeginRequest.
type Decision struct {
	Outcome Outcome
	// Response is set for Replay.
	Response *model.ResponseModel
	// Degraded is set on a Conflict caused by a lock timeout rather than by
	// an observed in-flight marker.
	Degraded bool
	// Message is the client facing explanation for a rejection.
	Message string
}
