// Package metrics holds the Prometheus instruments exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// URLsCreated counts successful creations.
	// Labels:
	//   - source: "custom" or "generated"
	URLsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkstat_urls_created_total",
			Help: "Total number of short URLs created",
		},
		[]string{"source"},
	)

	// CodeCollisions counts generated codes that were already taken.
	CodeCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "linkstat_code_collisions_total",
			Help: "Total number of generated short codes that collided with an existing code",
		},
	)

	// Redirects counts redirect lookups.
	// Labels:
	//   - outcome: "found", "not_found", "error"
	//   - cache: "hit", "miss"
	Redirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkstat_redirects_total",
			Help: "Total number of redirect lookups",
		},
		[]string{"outcome", "cache"},
	)

	// Clicks counts click recording attempts.
	// Labels:
	//   - outcome: "recorded", "unknown_code", "failed", "dropped"
	Clicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkstat_clicks_total",
			Help: "Total number of click events by recording outcome",
		},
		[]string{"outcome"},
	)

	// ClickQueueDepth is the number of click events waiting for a worker.
	ClickQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linkstat_click_queue_depth",
			Help: "Number of click events waiting to be persisted",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkstat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkstat_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)
)

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
