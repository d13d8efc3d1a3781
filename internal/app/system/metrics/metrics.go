// Package metrics holds the Prometheus collectors for the REST API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Resource API requests by resource, operation and HTTP status.",
	}, []string{"resource", "operation", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fittrack",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Resource API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource", "operation"})

	cascadeDeletes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "store",
		Name:      "cascade_deleted_total",
		Help:      "Dependent records removed by cascading deletes, by collection.",
	}, []string{"collection"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, cascadeDeletes)
}

// ObserveRequest records one finished resource request.
func ObserveRequest(resource, operation string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(resource, operation, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(resource, operation).Observe(elapsed.Seconds())
}

// RecordCascade adds n to the cascade counter for collection. Zero is a no-op.
func RecordCascade(collection string, n int64) {
	if n <= 0 {
		return
	}
	cascadeDeletes.WithLabelValues(collection).Add(float64(n))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
