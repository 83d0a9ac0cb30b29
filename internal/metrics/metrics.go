// Package metrics exposes Prometheus instrumentation for the API server
// and the report worker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecordsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradeview_records_ingested_total",
		Help: "Records accepted by kind (order, post, scan).",
	}, []string{"kind"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradeview_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gradeview_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	ViewCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradeview_view_cache_hits_total",
		Help: "Dashboard view cache hits.",
	})

	ViewCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradeview_view_cache_misses_total",
		Help: "Dashboard view cache misses.",
	})

	PayoutExports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradeview_payout_exports_total",
		Help: "Payout report batches exported.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one completed HTTP request.
func ObserveRequest(route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
