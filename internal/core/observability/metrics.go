// Package observability holds the process-wide Prometheus collectors of the service
// and small helpers to record into them.
package observability

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	dispatchCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_calls_total",
			Help: "Bulk operations run by the batch dispatcher.",
		},
		[]string{"operation", "strategy"},
	)

	dispatchElementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_elements_total",
			Help: "Elements processed by bulk operations.",
		},
		[]string{"operation"},
	)

	dispatchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_duration_seconds",
			Help:    "Wall time of bulk operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
		},
		[]string{"operation", "strategy"},
	)

	storeOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_ops_total",
			Help: "Coverage store operations by result.",
		},
		[]string{"op", "result"},
	)

	storeOpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_op_duration_seconds",
			Help:    "Latency of coverage store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"op"},
	)

	storeLRUResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_lru_results_total",
			Help: "In-process coverage cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Collectors returns every collector owned by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDurationSeconds,
		dispatchCallsTotal,
		dispatchElementsTotal,
		dispatchDurationSeconds,
		storeOpsTotal,
		storeOpDurationSeconds,
		storeLRUResults,
	}
}

// Register adds the collectors to reg. Registering twice on the same registry is a no-op.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveDispatch(operation, strategy string, elements int, durationSeconds float64) {
	dispatchCallsTotal.WithLabelValues(operation, strategy).Inc()
	dispatchElementsTotal.WithLabelValues(operation).Add(float64(elements))
	dispatchDurationSeconds.WithLabelValues(operation, strategy).Observe(durationSeconds)
}

// Store results.
const (
	ResultOK    = "ok"
	ResultMiss  = "miss"
	ResultError = "error"
)

func ObserveStoreOp(op, result string, durationSeconds float64) {
	storeOpsTotal.WithLabelValues(op, result).Inc()
	storeOpDurationSeconds.WithLabelValues(op).Observe(durationSeconds)
}

func IncLRUHit()  { storeLRUResults.WithLabelValues("hit").Inc() }
func IncLRUMiss() { storeLRUResults.WithLabelValues("miss").Inc() }
