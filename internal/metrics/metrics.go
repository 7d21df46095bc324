// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landlord_http_requests_total",
		Help: "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "landlord_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// SyncRunsTotal counts sync attempts by outcome.
	SyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landlord_sync_runs_total",
		Help: "Manual sync runs by outcome",
	}, []string{"outcome"})

	// PaymentsGeneratedTotal counts payment records produced by the
	// generator.
	PaymentsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "landlord_payments_generated_total",
		Help: "Payment records created by the rent generator",
	})

	// StoreErrorsTotal counts failed operations against the durable
	// backend.
	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landlord_store_errors_total",
		Help: "Failed durable store operations",
	}, []string{"backend"})
)

// Middleware records per-request counters and latency. Uses the matched
// route template so path cardinality stays bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
