package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountChecks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	ctx := context.Background()

	m.OnDetectComplete(ctx, "1", 3, true, time.Millisecond, nil)
	m.OnDetectComplete(ctx, "1", 3, false, time.Millisecond, nil)
	m.OnDetectComplete(ctx, "99", 3, false, time.Millisecond, errors.New("node not found"))
	m.OnTraceComplete(ctx, "1", "skip", 40, true, time.Millisecond, nil)
	m.OnEliminateComplete(ctx, "1", 2, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("detect", "cycle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("detect", "acyclic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("detect", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("trace", "cycle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("eliminate", "cycle")))
}

func TestMetricsCacheAndHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	ctx := context.Background()

	m.OnCacheMiss(ctx, "trace")
	m.OnCacheSet(ctx, "trace", 512)
	m.OnCacheHit(ctx, "trace")
	m.OnRequest(ctx, "GET", "/v1/traces/{id}")
	m.OnResponse(ctx, "GET", "/v1/traces/{id}", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheEvents.WithLabelValues("trace", "hit")))
	assert.Equal(t, 512.0, testutil.ToFloat64(m.cacheBytes.WithLabelValues("trace")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/traces/{id}", "404")))

	n, err := testutil.GatherAndCount(reg, "citecheck_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewRegistersOncePerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
