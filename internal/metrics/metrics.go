// Package metrics exposes counters for list fetches and image loading.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one client instance. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	fetches        *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	droppedFetches prometheus.Counter
	imageOutcomes  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ideas_fetches_total",
				Help: "List fetches by result",
			},
			[]string{"result"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ideas_fetch_duration_seconds",
				Help:    "Duration of list fetches",
				Buckets: prometheus.DefBuckets,
			},
		),
		droppedFetches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ideas_fetches_dropped_total",
				Help: "Refresh requests dropped because a fetch was in flight",
			},
		),
		imageOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ideas_image_loads_total",
				Help: "Image loads by outcome",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(m.fetches, m.fetchDuration, m.droppedFetches, m.imageOutcomes)
	return m
}

// ObserveFetch records a finished fetch. Cancelled fetches are counted
// apart and left out of the latency histogram.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	switch {
	case errors.Is(err, context.Canceled):
		m.fetches.WithLabelValues("cancelled").Inc()
		return
	case err != nil:
		m.fetches.WithLabelValues("error").Inc()
	default:
		m.fetches.WithLabelValues("ok").Inc()
	}
	m.fetchDuration.Observe(d.Seconds())
}

// FetchDropped records a refresh rejected by the in-flight guard.
func (m *Metrics) FetchDropped() {
	if m == nil {
		return
	}
	m.droppedFetches.Inc()
}

// ImageOutcome records how an image load ended: loaded, retry, placeholder.
func (m *Metrics) ImageOutcome(outcome string) {
	if m == nil {
		return
	}
	m.imageOutcomes.WithLabelValues(outcome).Inc()
}

// Handler returns the router serving /metrics and /health.
func (m *Metrics) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// Serve runs the metrics endpoint on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
