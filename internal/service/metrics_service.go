package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

// Generation outcomes reported on timetable_generation_total.
const (
	OutcomeSuccess     = "success"
	OutcomeInfeasible  = "infeasible"
	OutcomeUnscheduled = "unscheduled"
	OutcomeError       = "error"
	OutcomeConflict    = "conflict"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic,
// the validation cache and timetable generation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	generationTotal    *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	solverFallbacks    *prometheus.CounterVec
	validationIssues   *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache set operations",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses",
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		generationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timetable_generation_total",
			Help: "Timetable generation attempts by solver and outcome",
		}, []string{"solver", "outcome"}),
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "timetable_generation_duration_seconds",
			Help:    "Wall time of timetable generation",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"solver"}),
		solverFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timetable_solver_fallback_total",
			Help: "External solver failures recovered by the heuristic",
		}, []string{"code"}),
		validationIssues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timetable_validation_issues_total",
			Help: "Blocking validation issues by type",
		}, []string{"type"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.cacheLatency, m.cacheWrite, m.cacheHits, m.cacheMisses,
		m.dbQueryDuration,
		m.generationTotal, m.generationDuration, m.solverFallbacks, m.validationIssues,
		goroutines,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ObserveGeneration records one generation attempt. solver is empty when no
// solver ran, e.g. for infeasible input or lock contention.
func (m *MetricsService) ObserveGeneration(solver, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if solver == "" {
		solver = "none"
	}
	m.generationTotal.WithLabelValues(solver, outcome).Inc()
	m.generationDuration.WithLabelValues(solver).Observe(duration.Seconds())
}

// RecordSolverFallback counts an external solver failure by error code.
func (m *MetricsService) RecordSolverFallback(code string) {
	if m == nil {
		return
	}
	m.solverFallbacks.WithLabelValues(code).Inc()
}

// RecordValidationIssues counts blocking issues by type.
func (m *MetricsService) RecordValidationIssues(counts map[engine.DiagnosticType]int) {
	if m == nil {
		return
	}
	for issueType, n := range counts {
		m.validationIssues.WithLabelValues(string(issueType)).Add(float64(n))
	}
}
