// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Metrics instruments every request with Prometheus collectors labelled by
// method, route template and status. Requests that matched no route share
// the route label "unmatched" so scanners cannot blow up label cardinality.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute is the route label for requests that hit NoRoute/NoMethod.
const unmatchedRoute = "unmatched"

// HTTP collectors. All of them are registered on the default Prometheus
// registry in init, so promhttp.Handler() exposes them without extra wiring.
var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoutout_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoutout_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoutout_http_requests_inflight",
			Help: "HTTP requests currently being served.",
		},
	)

	// Payloads here are small JSON documents; the largest is a full history page.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoutout_http_response_size_bytes",
			Help:    "HTTP response size by method and route.",
			Buckets: prometheus.ExponentialBuckets(128, 2, 12),
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize)
}

// Metrics returns the instrumentation middleware.
//
// Behavior:
//   - shoutout_http_requests_inflight is raised for the duration of the
//     request.
//   - After the handler, the request counter, the latency histogram and,
//     when a body was written, the response size histogram are updated.
//   - The route label is the Gin route template (for example
//     "/api/v1/streamers/:id"), never the raw path.
//
// Mount /metrics with promhttp.Handler() to expose the collectors.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		httpReqs.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written.
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}
