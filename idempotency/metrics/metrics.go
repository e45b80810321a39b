// Package metrics records what the idempotency coordinator decided and how
// the cache behaved.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "idempotency"

// Recorder receives coordinator events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveDecision(decision string)
	ObserveLockNotAcquired(operation string)
	ObserveCacheWrite(result string)
}

// Noop discards every event.
type Noop struct{}

func (Noop) ObserveDecision(string)        {}
func (Noop) ObserveLockNotAcquired(string) {}
func (Noop) ObserveCacheWrite(string)      {}

// Prometheus is a Recorder backed by Prometheus counters.
type Prometheus struct {
	// Decisions counts BeginRequest outcomes.
	// Labels: decision
	Decisions *prometheus.CounterVec

	// LockNotAcquired counts lock timeouts.
	// Labels: operation (begin, complete, cancel)
	LockNotAcquired *prometheus.CounterVec

	// CacheWrites counts what CompleteRequest did with the entry.
	// Labels: result (stored, removed, failed)
	CacheWrites *prometheus.CounterVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates the counters and registers them with reg. A nil reg
// leaves them unregistered.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Total number of idempotency decisions by outcome.",
		}, []string{"decision"}),
		LockNotAcquired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_not_acquired_total",
			Help:      "Total number of per-key locks not acquired within the timeout.",
		}, []string{"operation"}),
		CacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_writes_total",
			Help:      "Total number of cache writes after the operation ran, by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{p.Decisions, p.LockNotAcquired, p.CacheWrites} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func (p *Prometheus) ObserveDecision(decision string) {
	p.Decisions.WithLabelValues(decision).Inc()
}

func (p *Prometheus) ObserveLockNotAcquired(operation string) {
	p.LockNotAcquired.WithLabelValues(operation).Inc()
}

func (p *Prometheus) ObserveCacheWrite(result string) {
	p.CacheWrites.WithLabelValues(result).Inc()
}
