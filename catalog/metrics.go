package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for catalog lookups.
type Metrics struct {
	Registry        *prometheus.Registry
	LookupsTotal    *prometheus.CounterVec
	LookupDuration  prometheus.Histogram
	CacheHitsTotal  prometheus.Counter
	RateLimitPauses prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	lookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_lookups_total",
			Help: "Total catalog lookups by outcome.",
		},
		[]string{"outcome"},
	)
	lookupDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_lookup_duration_seconds",
			Help:    "HTTP request latency for catalog lookups.",
			Buckets: prometheus.DefBuckets,
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Lookups served from the metadata cache without a request.",
		},
	)
	rateLimitPauses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_rate_limit_pauses_total",
			Help: "Fixed pauses taken after a rate-limit response.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_errors_total",
			Help: "Total lookup errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(lookups, lookupDuration, cacheHits, rateLimitPauses, errorsTotal)

	return &Metrics{
		Registry:        registry,
		LookupsTotal:    lookups,
		LookupDuration:  lookupDuration,
		CacheHitsTotal:  cacheHits,
		RateLimitPauses: rateLimitPauses,
		ErrorsTotal:     errorsTotal,
	}
}

// IncLookup increments the lookup counter for an outcome label.
func (m *Metrics) IncLookup(outcome string) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records a lookup request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.LookupDuration.Observe(d.Seconds())
}

// IncCacheHit increments the cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncRateLimitPause increments the pause counter.
func (m *Metrics) IncRateLimitPause() {
	if m == nil {
		return
	}
	m.RateLimitPauses.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
