package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagingOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "messaging",
		Name:      "operations_total",
		Help:      "Count of broker operations (kafka sink, redis notifications).",
	}, []string{"backend", "operation", "status"})
	messagingOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "messaging",
		Name:      "operation_duration_seconds",
		Help:      "Duration of broker operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "operation", "status"})
)

// Messaging tracks metrics for one broker backend.
type Messaging struct {
	backend string
}

// NewMessaging constructs a Messaging collector, e.g. NewMessaging("kafka").
func NewMessaging(backend string) *Messaging {
	if backend == "" {
		backend = "unknown"
	}
	return &Messaging{backend: backend}
}

// Observe records a broker operation outcome and duration.
func (m Messaging) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	messagingOperationsTotal.WithLabelValues(m.backend, operation, status).Inc()
	messagingOperationDuration.WithLabelValues(m.backend, operation, status).Observe(time.Since(started).Seconds())
}
