package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestorStreamTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "firehose_ingestor",
		Name:      "stream_iterations_total",
		Help:      "Count of feed stream iterations by outcome.",
	}, []string{"chain", "loop", "status"})

	ingestorStreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "firehose_ingestor",
		Name:      "stream_iteration_duration_seconds",
		Help:      "Lifetime of a feed stream iteration.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 4, 10),
	}, []string{"chain", "loop", "status"})

	ingestorBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "firehose_ingestor",
		Name:      "blocks_total",
		Help:      "Count of feed blocks handled by fork step.",
	}, []string{"chain", "loop", "step", "status"})

	ingestorBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "firehose_ingestor",
		Name:      "block_duration_seconds",
		Help:      "Duration of handling a single feed block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"chain", "loop", "step", "status"})

	ingestorChainHead = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "firehose_ingestor",
		Name:      "chain_head_number",
		Help:      "Block number of the locally known chain head.",
	}, []string{"chain"})

	ingestorBackfillBlock = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "firehose_ingestor",
		Name:      "backfill_block_number",
		Help:      "Last block number written by the backfill loop.",
	}, []string{"chain"})

	ingestorBackfillTarget = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "firehose_ingestor",
		Name:      "backfill_target_number",
		Help:      "Block number the backfill loop stops at.",
	}, []string{"chain"})
)

// Ingestor tracks metrics for the live-tail and backfill loops of one chain.
type Ingestor struct {
	chain model.Chain
}

// NewIngestor constructs an Ingestor with defaults.
func NewIngestor(chain model.Chain) *Ingestor {
	if chain == "" {
		chain = "unknown"
	}
	return &Ingestor{chain: chain}
}

// ObserveStream records the outcome of one stream iteration of the given loop.
func (m Ingestor) ObserveStream(loop string, err error, started time.Time) {
	status := statusOf(err)
	ingestorStreamTotal.WithLabelValues(string(m.chain), loop, status).Inc()
	ingestorStreamDuration.WithLabelValues(string(m.chain), loop, status).
		Observe(time.Since(started).Seconds())
}

// ObserveBlock records handling of a single envelope.
func (m Ingestor) ObserveBlock(loop string, step model.ForkStep, err error, started time.Time) {
	status := statusOf(err)
	ingestorBlocksTotal.WithLabelValues(string(m.chain), loop, step.String(), status).Inc()
	ingestorBlockDuration.WithLabelValues(string(m.chain), loop, step.String(), status).
		Observe(time.Since(started).Seconds())
}

// ObserveChainHead records the recomputed chain head.
func (m Ingestor) ObserveChainHead(number int64) {
	ingestorChainHead.WithLabelValues(string(m.chain)).Set(float64(number))
}

// ObserveBackfill records backfill progress.
func (m Ingestor) ObserveBackfill(number, target int64) {
	ingestorBackfillBlock.WithLabelValues(string(m.chain)).Set(float64(number))
	ingestorBackfillTarget.WithLabelValues(string(m.chain)).Set(float64(target))
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
