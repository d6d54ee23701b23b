package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type httpMetrics struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

var (
	httpMetricsOnce sync.Once
	httpMetricsInst *httpMetrics
)

func globalHTTPMetrics() *httpMetrics {
	httpMetricsOnce.Do(func() {
		httpMetricsInst = newHTTPMetrics()
	})
	return httpMetricsInst
}

func newHTTPMetrics() *httpMetrics {
	return &httpMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "amendtrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, labeled by method, route and status",
		}, []string{"method", "route", "status"}),
		durations: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "amendtrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request durations, labeled by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// HTTPMetrics records a counter and duration histogram per request. The
// route label is the registered template, not the raw path, to keep
// cardinality bounded.
func HTTPMetrics() gin.HandlerFunc {
	m := globalHTTPMetrics()
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.durations.WithLabelValues(
			c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
