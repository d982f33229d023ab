package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clickhouseRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "clickhouse_repository",
		Name:      "operations_total",
		Help:      "Count of repository operations.",
	}, []string{"operation", "chain", "status"})
	clickhouseRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "clickhouse_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of repository operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"operation", "chain", "status"})

	postgresRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "postgres_repository",
		Name:      "operations_total",
		Help:      "Count of deployment store operations.",
	}, []string{"operation", "deployment", "status"})
	postgresRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "postgres_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of deployment store operations.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"operation", "deployment", "status"})
)

// ClickhouseRepository tracks metrics for ClickHouse chain store operations.
type ClickhouseRepository struct{}

// NewClickhouseRepository creates a ClickhouseRepository metrics collector.
func NewClickhouseRepository() *ClickhouseRepository {
	return &ClickhouseRepository{}
}

// Observe records duration and status of a repository operation.
func (m ClickhouseRepository) Observe(operation string, chain model.Chain, err error, started time.Time) {
	if chain == "" {
		chain = "unknown"
	}
	status := statusOf(err)
	clickhouseRepositoryRequestsTotal.WithLabelValues(operation, string(chain), status).Inc()
	clickhouseRepositoryRequestDuration.WithLabelValues(operation, string(chain), status).Observe(time.Since(started).Seconds())
}

// PostgresRepository tracks metrics for the deployment position store.
type PostgresRepository struct{}

func NewPostgresRepository() *PostgresRepository {
	return &PostgresRepository{}
}

func (m PostgresRepository) Observe(operation string, deployment string, err error, started time.Time) {
	if deployment == "" {
		deployment = "unknown"
	}
	status := statusOf(err)
	postgresRepositoryRequestsTotal.WithLabelValues(operation, deployment, status).Inc()
	postgresRepositoryRequestDuration.WithLabelValues(operation, deployment, status).Observe(time.Since(started).Seconds())
}
