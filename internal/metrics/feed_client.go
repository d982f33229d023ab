package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "feed_client",
		Name:      "operations_total",
		Help:      "Count of feed client operations.",
	}, []string{"operation", "chain", "status"})
	feedRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "feed_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of feed client operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "chain", "status"})
)

// FeedClient tracks metrics for calls to the upstream block feed.
type FeedClient struct {
	chain model.Chain
}

// NewFeedClient constructs a metrics collector for feed calls.
func NewFeedClient(chain model.Chain) *FeedClient {
	if chain == "" {
		chain = "unknown"
	}
	return &FeedClient{chain: chain}
}

// Observe records a single feed operation outcome and duration.
func (m FeedClient) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	feedRequestsTotal.WithLabelValues(operation, string(m.chain), status).Inc()
	feedRequestDuration.WithLabelValues(operation, string(m.chain), status).Observe(time.Since(started).Seconds())
}
