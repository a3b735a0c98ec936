package archive

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments named in SPEC_FULL.md's archive
// section. Structured the way couchcryptid-storm-data-etl-service's
// internal/observability/metrics.go bundles a pipeline's counters/gauges
// into one struct constructed once at startup.
type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter
	FetchRetries   prometheus.Counter
	CacheBytes     prometheus.Gauge
}

// NewMetrics creates and registers the archive's metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "archive",
			Name:      "cache_hits_total",
			Help:      "Chunk cache lookups served without a backing-store fetch.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "archive",
			Name:      "cache_misses_total",
			Help:      "Chunk cache lookups that required a backing-store fetch.",
		}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "archive",
			Name:      "cache_evictions_total",
			Help:      "Chunks evicted from the in-memory cache to stay within the byte budget.",
		}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "archive",
			Name:      "fetch_retries_total",
			Help:      "Retry attempts made against remote chunk storage.",
		}),
		CacheBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "archive",
			Name:      "cache_bytes",
			Help:      "Approximate bytes currently held in the chunk cache.",
		}),
	}
	prometheus.MustRegister(m.CacheHits, m.CacheMisses, m.CacheEvictions, m.FetchRetries, m.CacheBytes)
	return m
}

// NewMetricsForTesting returns a Metrics backed by unregistered collectors,
// so tests can construct a Store/ChunkCache repeatedly without tripping
// Prometheus's "duplicate registration" panic.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CacheHits:      prometheus.NewCounter(prometheus.CounterOpts{Name: "test_cache_hits_total"}),
		CacheMisses:    prometheus.NewCounter(prometheus.CounterOpts{Name: "test_cache_misses_total"}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{Name: "test_cache_evictions_total"}),
		FetchRetries:   prometheus.NewCounter(prometheus.CounterOpts{Name: "test_fetch_retries_total"}),
		CacheBytes:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_cache_bytes"}),
	}
}
