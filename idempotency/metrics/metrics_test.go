package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	p.ObserveDecision("proceed")
	p.ObserveDecision("proceed")
	p.ObserveDecision("conflict")
	p.ObserveLockNotAcquired("begin")
	p.ObserveCacheWrite("stored")

	assert.Equal(t, float64(2), testutil.ToFloat64(p.Decisions.WithLabelValues("proceed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.Decisions.WithLabelValues("conflict")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.LockNotAcquired.WithLabelValues("begin")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.CacheWrites.WithLabelValues("stored")))

	expected := `
# HELP idempotency_lock_not_acquired_total Total number of per-key locks not acquired within the timeout.
# TYPE idempotency_lock_not_acquired_total counter
idempotency_lock_not_acquired_total{operation="begin"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "idempotency_lock_not_acquired_total"))
}

func TestNewPrometheus_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)

	_, err = NewPrometheus(reg)
	assert.Error(t, err)
}

func TestNewPrometheus_NilRegisterer(t *testing.T) {
	p, err := NewPrometheus(nil)
	require.NoError(t, err)
	p.ObserveCacheWrite("removed")
	assert.Equal(t, float64(1), testutil.ToFloat64(p.CacheWrites.WithLabelValues("removed")))
}
