package telemetry

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pricelist"

// AppMetrics holds every Prometheus collector of the service and implements
// port.Telemetry.
type AppMetrics struct {
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	activeConnections prometheus.Gauge
	memoryUsage       prometheus.Gauge
	goroutines        prometheus.Gauge
	accessDenied      *prometheus.CounterVec
	catalogMutations  *prometheus.CounterVec
	catalogFailures   *prometheus.CounterVec
	logins            *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		activeConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_active_connections",
				Help:      "Number of in-flight HTTP requests",
			},
		),
		memoryUsage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "memory_usage_bytes",
				Help:      "Heap bytes allocated",
			},
		),
		goroutines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "goroutines_total",
				Help:      "Number of goroutines",
			},
		),
		accessDenied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "access_denied_total",
				Help:      "Requests rejected by the access gate",
			},
			[]string{"reason"},
		),
		catalogMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_mutations_total",
				Help:      "Successful catalog writes",
			},
			[]string{"entity", "operation"},
		),
		catalogFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_mutation_failures_total",
				Help:      "Rejected or failed catalog writes",
			},
			[]string{"entity", "operation"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listing_cache_lookups_total",
				Help:      "Listing cache lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		metrics.requestDuration,
		metrics.requestTotal,
		metrics.activeConnections,
		metrics.memoryUsage,
		metrics.goroutines,
		metrics.accessDenied,
		metrics.catalogMutations,
		metrics.catalogFailures,
		metrics.logins,
		metrics.cacheLookups,
	)

	return metrics
}

func (m *AppMetrics) RecordRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)

	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

func (m *AppMetrics) IncrementActiveConnections(ctx context.Context) {
	m.activeConnections.Inc()
}

func (m *AppMetrics) DecrementActiveConnections(ctx context.Context) {
	m.activeConnections.Dec()
}

func (m *AppMetrics) RecordCatalogMutation(ctx context.Context, entity string, operation string, err error) {
	if err != nil {
		m.catalogFailures.WithLabelValues(entity, operation).Inc()
		return
	}

	m.catalogMutations.WithLabelValues(entity, operation).Inc()
}

func (m *AppMetrics) RecordAccessDenied(ctx context.Context, reason string) {
	m.accessDenied.WithLabelValues(reason).Inc()
}

func (m *AppMetrics) RecordLogin(ctx context.Context, success bool) {
	outcome := "failure"

	if success {
		outcome = "success"
	}

	m.logins.WithLabelValues(outcome).Inc()
}

func (m *AppMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	result := "miss"

	if hit {
		result = "hit"
	}

	m.cacheLookups.WithLabelValues(result).Inc()
}

// StartSystemMetrics samples heap and goroutine gauges until ctx is done.
func (m *AppMetrics) StartSystemMetrics(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				var memStats runtime.MemStats
				runtime.ReadMemStats(&memStats)

				m.memoryUsage.Set(float64(memStats.Alloc))
				m.goroutines.Set(float64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
