package testapi

import (
	"context"
	"fmt"
	"net/http"

	"encore.dev/rlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"encore.app/idempotency"
	"encore.app/idempotency/metrics"
	"encore.app/idempotency/workflow"
)

//encore:service
type Service struct {
	handler  http.Handler
	registry *prometheus.Registry

	temporal client.Client
	worker   worker.Worker
}

func initService() (*Service, error) {
	be, err := newBackend(cfg.Caching, cfg.DALock, encoreSubstrates())
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewPrometheus(registry)
	if err != nil {
		return nil, fmt.Errorf("register idempotency metrics: %w", err)
	}

	rlog.Info("Initializing idempotency coordinator", "header", cfg.Idempotency.HeaderKeyName)
	coord, err := idempotency.NewCoordinator(be.cache, cfg.Idempotency.options(), idempotency.WithRecorder(recorder))
	if err != nil {
		return nil, err
	}

	s := &Service{
		handler:  newRouter(coord),
		registry: registry,
	}

	if cfg.Temporal.HostPort != "" && be.purger != nil {
		if err := s.startPurge(be.purger); err != nil {
			// Entries still expire on read; only disk usage grows.
			rlog.Error("failed to start idempotency purge", "error", err)
		}
	}
	return s, nil
}

func (s *Service) startPurge(purger workflow.Purger) error {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return fmt.Errorf("dial temporal: %w", err)
	}

	workflow.SetActivityDependencies(purger)
	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	workflow.Register(w)
	if err := w.Start(); err != nil {
		c.Close()
		return fmt.Errorf("start purge worker: %w", err)
	}

	if err := workflow.StartPurgeSchedule(context.Background(), c, cfg.Temporal.TaskQueue, cfg.Temporal.PurgeCron); err != nil {
		w.Stop()
		c.Close()
		return err
	}

	s.temporal, s.worker = c, w
	return nil
}

// Shutdown stops the purge worker.
func (s *Service) Shutdown(force context.Context) {
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.temporal != nil {
		s.temporal.Close()
	}
}

// TestingIdempotentAPI serves the idempotent test endpoints.
//
//encore:api public raw method=* path=/v6/TestingIdempotentAPI/*path
func (s *Service) TestingIdempotentAPI(w http.ResponseWriter, req *http.Request) {
	s.handler.ServeHTTP(w, req)
}

// Metrics exposes the idempotency counters in the Prometheus text format.
//
//encore:api public raw method=GET path=/metrics
func (s *Service) Metrics(w http.ResponseWriter, req *http.Request) {
	promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP(w, req)
}
