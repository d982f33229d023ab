package ingestor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/feed"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/batcher"
	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/safe"
	"go.uber.org/zap"
)

var (
	backfillSteps = []model.ForkStep{model.StepIrreversible}

	errNoBackfillTarget = errors.New("backfill target not set")
)

// RunBackfill ingests irreversible blocks from genesis up to the backfill target and
// returns nil once the stored backfill progress reaches the target. A stream that ends
// early, with or without blocks, is reopened after a backoff. It never touches the
// chain head.
func (i *Ingestor) RunBackfill(ctx context.Context) error {
	bo := i.newBackoff()
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		started := time.Now()
		done, written, err := i.runBackfill(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, errNoBackfillTarget) {
			i.logger.Debug("no backfill target yet, waiting", zap.Duration("sleep", i.backfillIdleDelay))
			if err := i.sleep(ctx, i.backfillIdleDelay); err != nil {
				return err
			}
			continue
		}
		i.metrics.ObserveStream(loopBackfill, err, started)
		if done {
			i.logger.Info("backfill complete")
			return nil
		}
		if written > 0 {
			bo.Reset()
		}

		delay := bo.Next()
		if err != nil {
			i.logger.Warn("backfill iteration failed, backing off", zap.Error(err), zap.Duration("sleep", delay))
		} else {
			i.logger.Info("backfill stream closed before target, reconnecting", zap.Duration("sleep", delay))
		}
		if err := i.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (i *Ingestor) runBackfill(ctx context.Context) (done bool, written int, err error) {
	cursor, err := retryRead(ctx, i, "backfill_cursor", func(ctx context.Context) (string, error) {
		return i.store.BackfillCursor(ctx, i.chain)
	})
	if err != nil {
		return false, 0, err
	}
	target, err := retryRead(ctx, i, "backfill_target", func(ctx context.Context) (int64, error) {
		return i.store.BackfillTarget(ctx, i.chain)
	})
	if err != nil {
		return false, 0, err
	}
	if target <= 0 {
		return false, 0, errNoBackfillTarget
	}
	last, err := retryRead(ctx, i, "backfill_progress", func(ctx context.Context) (int64, error) {
		return i.store.BackfillProgress(ctx, i.chain)
	})
	if err != nil {
		return false, 0, err
	}
	if last >= target {
		return true, 0, nil
	}
	stop, err := safe.Uint64(target)
	if err != nil {
		return false, 0, err
	}

	stream, err := i.feed.Stream(ctx, feed.Request{
		StartBlockNum: 0,
		StopBlockNum:  stop,
		StartCursor:   cursor,
		ForkSteps:     backfillSteps,
	})
	if err != nil {
		return false, 0, fmt.Errorf("open backfill stream: %w", err)
	}
	defer stream.Close()

	b := batcher.New(i.logger.Named("backfillBatcher"), func(ctx context.Context, records []model.BlockRecord) error {
		return i.flushBackfill(ctx, records, target)
	}, i.backfillBatchSize, i.backfillFlushInterval, backfillFlushRPS)
	b.Start(ctx)

	received, streamErr := i.consumeBackfill(ctx, stream, b, &last)
	if flushErr := b.Stop(); flushErr != nil && streamErr == nil {
		streamErr = fmt.Errorf("flush backfill blocks: %w", flushErr)
	}
	if streamErr != nil {
		return false, received, streamErr
	}

	// Every received block is stored once Stop returns without error.
	return last >= target, received, nil
}

func (i *Ingestor) consumeBackfill(ctx context.Context, stream feed.BlockStream, b *batcher.Batcher[model.BlockRecord], last *int64) (int, error) {
	received := 0
	for {
		env, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return received, nil
		}
		if err != nil {
			return received, err
		}

		started := time.Now()
		block, err := i.decodeBackfill(env)
		if err == nil {
			err = b.Add(ctx, model.NewBlockRecord(block, env.Cursor))
		}
		i.metrics.ObserveBlock(loopBackfill, env.Step, err, started)
		if err != nil {
			return received, err
		}
		*last = block.Number()
		received++
	}
}

func (i *Ingestor) decodeBackfill(env model.BlockEnvelope) (model.Block, error) {
	if env.Step != model.StepIrreversible {
		return nil, fmt.Errorf("%w: %s on backfill stream", ErrUnexpectedStep, env.Step)
	}
	block, err := i.decoder.Decode(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode backfill block: %w", err)
	}
	return block, nil
}

// flushBackfill stores a batch, then records its last block as backfill progress and
// only then moves the backfill cursor to it.
func (i *Ingestor) flushBackfill(ctx context.Context, records []model.BlockRecord, target int64) error {
	if err := i.store.UpsertBlocks(ctx, i.chain, records); err != nil {
		return fmt.Errorf("upsert backfill blocks: %w", err)
	}
	last := records[len(records)-1]
	if err := i.store.SetBackfillProgress(ctx, i.chain, last.Pointer.Number); err != nil {
		return fmt.Errorf("write backfill progress: %w", err)
	}
	if err := i.store.SetBackfillCursor(ctx, i.chain, last.Cursor); err != nil {
		return fmt.Errorf("write backfill cursor: %w", err)
	}
	i.metrics.ObserveBackfill(last.Pointer.Number, target)
	i.logger.Debug("backfill batch stored",
		zap.Int("blocks", len(records)), zap.Stringer("last", last.Pointer))
	return nil
}
