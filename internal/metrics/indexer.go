package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexerEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "indexer",
		Name:      "events_total",
		Help:      "Count of stream events handled by the indexer.",
	}, []string{"deployment", "kind", "status"})
	indexerEventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "indexer",
		Name:      "event_duration_seconds",
		Help:      "Duration of handling a stream event.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"deployment", "kind", "status"})
	indexerTriggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "indexer",
		Name:      "triggers_total",
		Help:      "Count of triggers published downstream.",
	}, []string{"deployment"})
	indexerBlockNumber = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "indexer",
		Name:      "block_number",
		Help:      "Block number of the deployment position.",
	}, []string{"deployment"})
)

// Indexer tracks metrics for a deployment consuming a block stream.
type Indexer struct {
	deployment string
}

// NewIndexer constructs an Indexer with defaults.
func NewIndexer(deployment string) *Indexer {
	if deployment == "" {
		deployment = "unknown"
	}
	return &Indexer{deployment: deployment}
}

// ObserveEvent records handling of one event and moves the position gauge.
func (m Indexer) ObserveEvent(event model.Event, err error, started time.Time) {
	status := statusOf(err)
	indexerEventsTotal.WithLabelValues(m.deployment, event.Kind.String(), status).Inc()
	indexerEventDuration.WithLabelValues(m.deployment, event.Kind.String(), status).Observe(time.Since(started).Seconds())
	if err != nil {
		return
	}
	indexerBlockNumber.WithLabelValues(m.deployment).Set(float64(event.Pointer().Number))
	if event.Kind == model.EventProcessBlock {
		indexerTriggersTotal.WithLabelValues(m.deployment).Add(float64(len(event.Block.Triggers)))
	}
}
