package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
// Using promauto automatically registers metrics with the default registry

var (
	// ==================== HTTP METRICS ====================

	// HTTPRequestDuration tracks the duration of HTTP requests
	// Histogram allows us to calculate percentiles (P50, P95, P99)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsTotal counts total HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsInFlight tracks currently processing requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// ==================== VALIDATION METRICS ====================

	// ValidationsTotal counts pack validations by outcome.
	// On failure the error_code label carries the wire code of the first
	// violated rule (EMPTY_STRING, IMAGE_TOO_BIG, ...); on success it is "".
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pack_validations_total",
			Help: "Total number of sticker pack validations",
		},
		[]string{"result", "error_code"},
	)

	// ValidationDuration tracks how long a full pack validation takes,
	// including asset loading
	ValidationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pack_validation_duration_seconds",
			Help:    "Duration of full sticker pack validations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// ==================== ASSET METRICS ====================

	// AssetFetchDuration tracks asset loader latency by source
	AssetFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_fetch_duration_seconds",
			Help:    "Duration of asset loads in seconds",
			Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1},
		},
		[]string{"source"}, // dir, cache
	)

	// CacheHitsTotal counts asset cache hits
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_cache_hits_total",
			Help: "Total number of asset cache hits",
		},
	)

	// CacheMissesTotal counts asset cache misses
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_cache_misses_total",
			Help: "Total number of asset cache misses",
		},
	)

	// ==================== RATE LIMITING METRICS ====================

	// RateLimitedRequestsTotal counts rate-limited requests
	RateLimitedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of rate-limited requests",
		},
	)

	// RateLimitAllowedRequestsTotal counts allowed requests
	RateLimitAllowedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_allowed_requests_total",
			Help: "Total number of requests allowed by rate limiter",
		},
	)

	// ==================== BUSINESS METRICS ====================

	// PacksSubmittedTotal counts packs accepted for storage
	PacksSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "packs_submitted_total",
			Help: "Total number of sticker packs submitted",
		},
	)

	// PacksPublishedTotal counts packs successfully handed off to the host app
	PacksPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "packs_published_total",
			Help: "Total number of sticker packs published to the host app",
		},
	)

	// DeliveryFailuresTotal counts failed hand-offs by wire code
	DeliveryFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_failures_total",
			Help: "Total number of failed pack deliveries",
		},
		[]string{"code"},
	)

	// ==================== DATABASE METRICS ====================

	// DatabaseQueryDuration tracks database query latency
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"}, // create, get, list, publish, delete
	)

	// DatabaseErrorsTotal counts database errors
	DatabaseErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_errors_total",
			Help: "Total number of database errors",
		},
		[]string{"operation"},
	)
)

// RecordValidation records the outcome of one pack validation.
// errorCode is empty on success.
func RecordValidation(ok bool, errorCode string, elapsed time.Duration) {
	result := "success"
	if !ok {
		result = "failure"
	}
	ValidationsTotal.WithLabelValues(result, errorCode).Inc()
	ValidationDuration.Observe(elapsed.Seconds())
}

// RecordCacheHit increments the asset cache hit counter
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss increments the asset cache miss counter
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordPackSubmitted increments the submission counter
func RecordPackSubmitted() {
	PacksSubmittedTotal.Inc()
}

// RecordPackPublished increments the publish counter
func RecordPackPublished() {
	PacksPublishedTotal.Inc()
}

// RecordDeliveryFailure increments the delivery failure counter for a code
func RecordDeliveryFailure(code string) {
	DeliveryFailuresTotal.WithLabelValues(code).Inc()
}

// RecordRateLimited increments rate-limited requests counter
func RecordRateLimited() {
	RateLimitedRequestsTotal.Inc()
}

// RecordRateLimitAllowed increments allowed requests counter
func RecordRateLimitAllowed() {
	RateLimitAllowedRequestsTotal.Inc()
}
