package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveFetch(120*time.Millisecond, nil)
	m.ObserveFetch(80*time.Millisecond, errors.New("boom"))
	m.ObserveFetch(10*time.Millisecond, nil)
	m.FetchDropped()
	m.ImageOutcome("placeholder")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.droppedFetches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imageOutcomes.WithLabelValues("placeholder")))
}

func TestMetrics_CancelledFetchIsNotAnError(t *testing.T) {
	m := New()

	m.ObserveFetch(5*time.Millisecond, fmt.Errorf("list ideas request failed: %w", context.Canceled))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("cancelled")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.fetches.WithLabelValues("error")))

	families, err := m.registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "ideas_fetch_duration_seconds" {
			assert.Zero(t, mf.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch(time.Second, nil)
		m.FetchDropped()
		m.ImageOutcome("loaded")
	})
}

func TestHandler_ServesMetricsAndHealth(t *testing.T) {
	m := New()
	m.FetchDropped()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ideas_fetches_dropped_total 1")

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/health", "text/plain", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
