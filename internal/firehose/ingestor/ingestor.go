// Package ingestor keeps the chain store in sync with a firehose feed.
package ingestor

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"go.uber.org/zap"
)

// ErrUnexpectedStep is returned for a fork step the loop did not subscribe to.
var ErrUnexpectedStep = errors.New("unexpected fork step")

// Config holds the tunables of an Ingestor. Zero values fall back to defaults.
type Config struct {
	AncestorCount         int32
	BackfillIdleDelay     time.Duration
	BackfillBatchSize     int
	BackfillFlushInterval time.Duration
}

// Ingestor runs the live-tail and backfill loops of one chain.
// Each loop must run in at most one goroutine at a time.
type Ingestor struct {
	logger   *zap.Logger
	chain    model.Chain
	store    ChainStore
	feed     Feed
	decoder  Decoder
	notifier HeadNotifier
	metrics  Metrics

	sleep      func(context.Context, time.Duration) error
	newBackoff func() *clock.Backoff

	ancestorCount         int32
	backfillIdleDelay     time.Duration
	backfillBatchSize     int
	backfillFlushInterval time.Duration

	// owned by the live-tail loop
	backfillTargetKnown bool
	lastHead            *model.ChainHead
}

// NewIngestor builds an Ingestor. notifier may be nil.
func NewIngestor(
	chain model.Chain,
	store ChainStore,
	feed Feed,
	decoder Decoder,
	notifier HeadNotifier,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
) (*Ingestor, error) {
	if chain == "" {
		return nil, errors.New("chain is required")
	}
	if store == nil || feed == nil || decoder == nil {
		return nil, errors.New("store, feed and decoder are required")
	}
	if metrics == nil {
		return nil, errors.New("ingestor metrics is required")
	}
	if cfg.AncestorCount <= 0 {
		cfg.AncestorCount = defaultAncestorCount
	}
	if cfg.BackfillIdleDelay <= 0 {
		cfg.BackfillIdleDelay = backfillIdleDelay
	}
	if cfg.BackfillBatchSize <= 0 {
		cfg.BackfillBatchSize = backfillBatchSize
	}
	if cfg.BackfillFlushInterval <= 0 {
		cfg.BackfillFlushInterval = backfillFlushInterval
	}

	return &Ingestor{
		logger:                logger.Named("ingestor").With(zap.String("chain", string(chain))),
		chain:                 chain,
		store:                 store,
		feed:                  feed,
		decoder:               decoder,
		notifier:              notifier,
		metrics:               metrics,
		sleep:                 clock.SleepWithContext,
		newBackoff:            defaultBackoff,
		ancestorCount:         cfg.AncestorCount,
		backfillIdleDelay:     cfg.BackfillIdleDelay,
		backfillBatchSize:     cfg.BackfillBatchSize,
		backfillFlushInterval: cfg.BackfillFlushInterval,
	}, nil
}

func defaultBackoff() *clock.Backoff {
	return clock.NewBackoff(backoffFloor, backoffCeiling)
}

// retryRead keeps calling read until it succeeds or ctx is done. Store errors only delay.
func retryRead[T any](ctx context.Context, i *Ingestor, what string, read func(context.Context) (T, error)) (T, error) {
	bo := i.newBackoff()
	for {
		v, err := read(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			var zero T
			return zero, ctx.Err()
		}
		delay := bo.Next()
		i.logger.Warn("store read failed, backing off",
			zap.String("read", what), zap.Error(err), zap.Duration("sleep", delay))
		if sleepErr := i.sleep(ctx, delay); sleepErr != nil {
			var zero T
			return zero, sleepErr
		}
	}
}
