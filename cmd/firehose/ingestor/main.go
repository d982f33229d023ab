package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/chain/registry"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/feed"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/ingestor"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/notify/redis"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/httpserver"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/metrics"
)

type config struct {
	ClickhouseDSN string `long:"clickhouse-dsn" env:"FIREHOSE_INGESTOR_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	Chain         string `long:"chain" env:"FIREHOSE_INGESTOR_CHAIN" description:"chain name, e.g. bitcoin-mainnet" required:"true"`
	Family        string `long:"family" env:"FIREHOSE_INGESTOR_FAMILY" description:"chain family" choice:"bitcoin" choice:"ethereum" required:"true"`

	FirehoseEndpoint   string        `long:"firehose-endpoint" env:"FIREHOSE_INGESTOR_ENDPOINT" description:"firehose gRPC endpoint (host:port)" required:"true"`
	FirehoseAPIToken   string        `long:"firehose-api-token" env:"FIREHOSE_INGESTOR_API_TOKEN" description:"bearer token sent to the firehose"`
	Plaintext          bool          `long:"plaintext" env:"FIREHOSE_INGESTOR_PLAINTEXT" description:"connect without TLS"`
	InsecureSkipVerify bool          `long:"insecure-skip-verify" env:"FIREHOSE_INGESTOR_INSECURE_SKIP_VERIFY" description:"skip TLS certificate verification"`
	ConnectTimeout     time.Duration `long:"connect-timeout" env:"FIREHOSE_INGESTOR_CONNECT_TIMEOUT" description:"firehose stream open timeout" default:"30s"`
	RecvTimeout        time.Duration `long:"recv-timeout" env:"FIREHOSE_INGESTOR_RECV_TIMEOUT" description:"max wait for one firehose message" default:"5m"`

	RedisURL string `long:"redis-url" env:"FIREHOSE_INGESTOR_REDIS_URL" description:"redis URL for chain head notifications, disabled when empty"`

	AncestorCount         int32         `long:"ancestor-count" env:"FIREHOSE_INGESTOR_ANCESTOR_COUNT" description:"blocks behind the tip kept as a complete chain" default:"50"`
	BackfillBatchSize     int           `long:"backfill-batch-size" env:"FIREHOSE_INGESTOR_BACKFILL_BATCH_SIZE" description:"blocks per backfill write" default:"500"`
	BackfillFlushInterval time.Duration `long:"backfill-flush-interval" env:"FIREHOSE_INGESTOR_BACKFILL_FLUSH_INTERVAL" description:"max delay of a partial backfill batch" default:"1s"`
	BackfillIdleDelay     time.Duration `long:"backfill-idle-delay" env:"FIREHOSE_INGESTOR_BACKFILL_IDLE_DELAY" description:"wait while the backfill target is unknown" default:"10s"`
	NoBackfill            bool          `long:"no-backfill" env:"FIREHOSE_INGESTOR_NO_BACKFILL" description:"only follow the chain head"`

	MetricsAddr string `long:"metrics-addr" env:"FIREHOSE_INGESTOR_METRICS_ADDR" description:"metrics listen address" default:":9102"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("firehose ingestor failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	chain := model.Chain(cfg.Chain)
	logger = logger.With(zap.String("chain", cfg.Chain))

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close repository", zap.Error(err))
		}
	}()

	conn, streamClient, err := feed.Dial(feed.DialConfig{
		Endpoint:           cfg.FirehoseEndpoint,
		Plaintext:          cfg.Plaintext,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	client, err := feed.NewClient(streamClient, metrics.NewFeedClient(chain), logger,
		feed.WithAPIToken(cfg.FirehoseAPIToken),
		feed.WithTimeouts(cfg.ConnectTimeout, cfg.RecvTimeout),
	)
	if err != nil {
		return fmt.Errorf("init feed client: %w", err)
	}

	decoder, err := registry.Decoder(cfg.Family)
	if err != nil {
		return err
	}

	var notifier ingestor.HeadNotifier
	if cfg.RedisURL != "" {
		n, err := redis.Dial(ctx, cfg.RedisURL, metrics.NewMessaging("redis"), logger)
		if err != nil {
			return fmt.Errorf("init head notifier: %w", err)
		}
		defer func() {
			_ = n.Close()
		}()
		notifier = n
	}

	ing, err := ingestor.NewIngestor(chain, repo, client, decoder, notifier, metrics.NewIngestor(chain), ingestor.Config{
		AncestorCount:         cfg.AncestorCount,
		BackfillIdleDelay:     cfg.BackfillIdleDelay,
		BackfillBatchSize:     cfg.BackfillBatchSize,
		BackfillFlushInterval: cfg.BackfillFlushInterval,
	}, logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ing.RunLiveTail(ctx)
	})
	if !cfg.NoBackfill {
		g.Go(func() error {
			return ing.RunBackfill(ctx)
		})
	}
	g.Go(func() error {
		return httpserver.Serve(ctx, cfg.MetricsAddr, promhttp.Handler(), logger)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
