package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blockStreamReconcileTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_stream",
		Name:      "reconciliations_total",
		Help:      "Count of reconciliation steps by outcome.",
	}, []string{"chain", "deployment", "outcome"})

	blockStreamReconcileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_stream",
		Name:      "reconciliation_duration_seconds",
		Help:      "Duration of a reconciliation step.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"chain", "deployment", "outcome"})

	blockStreamBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_stream",
		Name:      "blocks_total",
		Help:      "Count of blocks yielded to the consumer.",
	}, []string{"chain", "deployment"})

	blockStreamRangeSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "block_stream",
		Name:      "max_block_range_size",
		Help:      "Current adaptive cap on blocks per reconciliation step.",
	}, []string{"chain", "deployment"})
)

// BlockStream tracks metrics for a reconciliation block stream.
type BlockStream struct {
	chain      model.Chain
	deployment string
}

// NewBlockStream constructs a BlockStream with defaults.
func NewBlockStream(chain model.Chain, deployment string) *BlockStream {
	if chain == "" {
		chain = "unknown"
	}
	if deployment == "" {
		deployment = "unknown"
	}
	return &BlockStream{chain: chain, deployment: deployment}
}

// ObserveReconciliation records one reconciliation step. Outcome is one of
// blocks, done, revert, error.
func (m BlockStream) ObserveReconciliation(outcome string, started time.Time) {
	blockStreamReconcileTotal.WithLabelValues(string(m.chain), m.deployment, outcome).Inc()
	blockStreamReconcileDuration.WithLabelValues(string(m.chain), m.deployment, outcome).
		Observe(time.Since(started).Seconds())
}

// ObserveBlockYielded counts one block handed to the consumer.
func (m BlockStream) ObserveBlockYielded() {
	blockStreamBlocksTotal.WithLabelValues(string(m.chain), m.deployment).Inc()
}

// ObserveRangeSize records the adaptive range cap.
func (m BlockStream) ObserveRangeSize(size int) {
	blockStreamRangeSize.WithLabelValues(string(m.chain), m.deployment).Set(float64(size))
}
