// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/outsider987/Patlytics-hotfix/pkg/observability"
)

// Metrics records pipeline, cache and HTTP events. It satisfies all three
// hook interfaces.
type Metrics struct {
	checks        *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	traceSteps    prometheus.Histogram
	removedEdges  prometheus.Histogram

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		checks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citecheck_checks_total",
			Help: "Cycle checks by operation and result",
		}, []string{"operation", "result"}),
		checkDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "citecheck_check_duration_seconds",
			Help:    "Cycle check duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"operation"}),
		traceSteps: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "citecheck_trace_steps",
			Help:    "Steps recorded per trace",
			Buckets: prometheus.ExponentialBuckets(8, 4, 8),
		}),
		removedEdges: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "citecheck_removed_edges",
			Help:    "Back-edges removed per elimination",
			Buckets: []float64{0, 1, 2, 5, 10, 50, 100, 1000},
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citecheck_cache_events_total",
			Help: "Cache hits, misses and writes by key type",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citecheck_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citecheck_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "citecheck_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func result(found bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case found:
		return "cycle"
	default:
		return "acyclic"
	}
}

func (m *Metrics) OnDetectComplete(_ context.Context, _ string, _ int, found bool, d time.Duration, err error) {
	m.checks.WithLabelValues("detect", result(found, err)).Inc()
	m.checkDuration.WithLabelValues("detect").Observe(d.Seconds())
}

func (m *Metrics) OnTraceComplete(_ context.Context, _, _ string, steps int, found bool, d time.Duration, err error) {
	m.checks.WithLabelValues("trace", result(found, err)).Inc()
	m.checkDuration.WithLabelValues("trace").Observe(d.Seconds())
	if err == nil {
		m.traceSteps.Observe(float64(steps))
	}
}

func (m *Metrics) OnEliminateComplete(_ context.Context, _ string, removed int, d time.Duration) {
	m.checks.WithLabelValues("eliminate", result(removed > 0, nil)).Inc()
	m.checkDuration.WithLabelValues("eliminate").Observe(d.Seconds())
	m.removedEdges.Observe(float64(removed))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
