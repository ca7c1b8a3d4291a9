package middleware

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credence_http_requests_total",
		Help: "HTTP requests served, by method and status class",
	}, []string{"method", "status_class"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "credence_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// MetricsCollector counts requests both in prometheus and in plain atomic
// counters for the /stats endpoint.
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
}

func NewMetricsCollector(requestCount, errorCount *atomic.Int64) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
	}
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// Middleware counts requests and errors (4xx and 5xx).
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode >= 400 {
			mc.errorCount.Add(1)
		}
		httpRequests.WithLabelValues(r.Method, statusClass(rw.statusCode)).Inc()
		httpDuration.WithLabelValues(routePattern(r)).Observe(time.Since(start).Seconds())
	})
}
