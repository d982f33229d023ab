package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/blockstream"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/chain"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/chain/registry"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/feed"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/indexer"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/notify/redis"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/sink/kafka"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/httpserver"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/metrics"
)

const (
	modeStore    = "store"
	modeFirehose = "firehose"
)

type config struct {
	Deployment  string             `long:"deployment" env:"FIREHOSE_INDEXER_DEPLOYMENT" description:"deployment id" required:"true"`
	Chain       string             `long:"chain" env:"FIREHOSE_INDEXER_CHAIN" description:"chain name, e.g. bitcoin-mainnet" required:"true"`
	Family      string             `long:"family" env:"FIREHOSE_INDEXER_FAMILY" description:"chain family" choice:"bitcoin" choice:"ethereum" required:"true"`
	Network     string             `long:"network" env:"FIREHOSE_INDEXER_NETWORK" description:"bitcoin network used to derive addresses" default:"mainnet"`
	DataSources []chain.DataSource `long:"data-source" env:"FIREHOSE_INDEXER_DATA_SOURCES" env-delim:";" description:"name:start_block[:address,...][:block], repeatable" required:"true"`
	Mode        string             `long:"mode" env:"FIREHOSE_INDEXER_MODE" description:"block source" choice:"store" choice:"firehose" default:"store"`

	ClickhouseDSN string `long:"clickhouse-dsn" env:"FIREHOSE_INDEXER_CLICKHOUSE_DSN" description:"ClickHouse DSN of the chain store" required:"true"`
	PostgresDSN   string `long:"postgres-dsn" env:"FIREHOSE_INDEXER_POSTGRES_DSN" description:"Postgres DSN of the deployment store" required:"true"`
	RedisURL      string `long:"redis-url" env:"FIREHOSE_INDEXER_REDIS_URL" description:"redis URL for chain head notifications, polling only when empty"`

	KafkaBrokers []string `long:"kafka-broker" env:"FIREHOSE_INDEXER_KAFKA_BROKERS" env-delim:"," description:"kafka broker address, repeatable" required:"true"`
	KafkaTopic   string   `long:"kafka-topic" env:"FIREHOSE_INDEXER_KAFKA_TOPIC" description:"kafka topic for triggers" default:"blockinsight7000.triggers"`

	FirehoseEndpoint   string        `long:"firehose-endpoint" env:"FIREHOSE_INDEXER_FIREHOSE_ENDPOINT" description:"firehose gRPC endpoint, firehose mode only"`
	FirehoseAPIToken   string        `long:"firehose-api-token" env:"FIREHOSE_INDEXER_FIREHOSE_API_TOKEN" description:"bearer token sent to the firehose"`
	Plaintext          bool          `long:"plaintext" env:"FIREHOSE_INDEXER_PLAINTEXT" description:"connect without TLS"`
	InsecureSkipVerify bool          `long:"insecure-skip-verify" env:"FIREHOSE_INDEXER_INSECURE_SKIP_VERIFY" description:"skip TLS certificate verification"`
	ConnectTimeout     time.Duration `long:"connect-timeout" env:"FIREHOSE_INDEXER_CONNECT_TIMEOUT" description:"firehose stream open timeout" default:"30s"`
	RecvTimeout        time.Duration `long:"recv-timeout" env:"FIREHOSE_INDEXER_RECV_TIMEOUT" description:"max wait for one firehose message" default:"5m"`

	MaxBlockRangeSize int           `long:"max-block-range-size" env:"FIREHOSE_INDEXER_MAX_BLOCK_RANGE_SIZE" description:"max block numbers per reconciliation step" default:"1000"`
	TargetTriggers    int           `long:"target-triggers" env:"FIREHOSE_INDEXER_TARGET_TRIGGERS" description:"triggers one reconciliation step aims for" default:"100"`
	ReorgThreshold    int64         `long:"reorg-threshold" env:"FIREHOSE_INDEXER_REORG_THRESHOLD" description:"distance from the head handled one block at a time" default:"50"`
	IdlePollInterval  time.Duration `long:"idle-poll-interval" env:"FIREHOSE_INDEXER_IDLE_POLL_INTERVAL" description:"head poll interval while idle" default:"5s"`

	HTTPAddr string `long:"http-addr" env:"FIREHOSE_INDEXER_HTTP_ADDR" description:"metrics and status listen address" default:":9103"`
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

	if cfg.Mode == modeFirehose && cfg.FirehoseEndpoint == "" {
		logger.Fatal("firehose endpoint is required in firehose mode")
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("firehose indexer failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	chainName := model.Chain(cfg.Chain)
	logger = logger.With(zap.String("deployment", cfg.Deployment), zap.String("chain", cfg.Chain))

	positions, err := postgres.NewRepository(ctx, cfg.PostgresDSN, metrics.NewPostgresRepository())
	if err != nil {
		return fmt.Errorf("init position store: %w", err)
	}
	defer positions.Close()

	position, err := positions.Position(ctx, cfg.Deployment)
	if err != nil {
		return err
	}
	idxCfg := indexer.Config{Deployment: cfg.Deployment, Chain: chainName}
	if position != nil {
		if position.Chain != chainName {
			return fmt.Errorf("deployment %s indexes %s, not %s", cfg.Deployment, position.Chain, chainName)
		}
		idxCfg.Start = &position.Pointer
		idxCfg.Cursor = position.Cursor
		logger.Info("resuming deployment", zap.Stringer("position", position.Pointer))
	}

	store, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init chain store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close chain store", zap.Error(err))
		}
	}()

	decoder, err := registry.Decoder(cfg.Family)
	if err != nil {
		return err
	}
	triggers, err := registry.TriggersAdapter(cfg.Family, cfg.Network, cfg.DataSources)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	var source blockstream.EventStream
	switch cfg.Mode {
	case modeFirehose:
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
		client, err := feed.NewClient(streamClient, metrics.NewFeedClient(chainName), logger,
			feed.WithAPIToken(cfg.FirehoseAPIToken),
			feed.WithTimeouts(cfg.ConnectTimeout, cfg.RecvTimeout),
		)
		if err != nil {
			return fmt.Errorf("init feed client: %w", err)
		}
		fs, err := blockstream.NewFeedStream(chainName, client, store, decoder, triggers,
			chain.MinStartBlock(cfg.DataSources), idxCfg.Cursor, logger)
		if err != nil {
			return err
		}
		defer fs.Close()
		source = fs
	default:
		var headUpdates <-chan struct{}
		if cfg.RedisURL != "" {
			notifier, err := redis.Dial(ctx, cfg.RedisURL, metrics.NewMessaging("redis"), logger)
			if err != nil {
				return fmt.Errorf("init head subscription: %w", err)
			}
			defer func() {
				_ = notifier.Close()
			}()
			if headUpdates, err = notifier.Subscribe(ctx, chainName); err != nil {
				return err
			}
		}
		reconciler, err := blockstream.NewStoreReconciler(chainName, store, decoder, triggers, blockstream.ReconcilerConfig{
			StartBlock:     chain.MinStartBlock(cfg.DataSources),
			ReorgThreshold: cfg.ReorgThreshold,
		})
		if err != nil {
			return err
		}
		bs, err := blockstream.NewBlockStream(reconciler, headUpdates, metrics.NewBlockStream(chainName, cfg.Deployment), blockstream.Config{
			StartPosition:     idxCfg.Start,
			MaxBlockRangeSize: cfg.MaxBlockRangeSize,
			TargetTriggers:    cfg.TargetTriggers,
			IdlePollInterval:  cfg.IdlePollInterval,
		}, logger)
		if err != nil {
			return err
		}
		source = bs
	}

	stream := blockstream.NewBufferedStream(ctx, source, logger)
	defer stream.Close()

	writer, err := kafka.NewWriter(kafka.Config{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
	if err != nil {
		return err
	}
	sink, err := kafka.NewSink(writer, chainName, cfg.Deployment, metrics.NewMessaging("kafka"))
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("close kafka writer", zap.Error(err))
		}
	}()

	idx, err := indexer.NewIndexer(stream, sink, positions, metrics.NewIndexer(cfg.Deployment), idxCfg, logger)
	if err != nil {
		return err
	}
	status, err := indexer.NewStatusHandler(idx, logger)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", status)

	g.Go(func() error {
		return idx.Run(ctx)
	})
	g.Go(func() error {
		return httpserver.Serve(ctx, cfg.HTTPAddr, mux, logger)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
