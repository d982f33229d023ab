package ingestor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/feed"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"go.uber.org/zap"
)

var liveSteps = []model.ForkStep{model.StepNew, model.StepUndo}

// RunLiveTail follows the chain head until ctx is canceled. Feed, decode and store
// failures restart the stream from the last persisted cursor after a backoff.
func (i *Ingestor) RunLiveTail(ctx context.Context) error {
	bo := i.newBackoff()
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		cursor, err := retryRead(ctx, i, "resume_cursor", func(ctx context.Context) (string, error) {
			return i.store.ResumeCursor(ctx, i.chain)
		})
		if err != nil {
			return err
		}

		started := time.Now()
		processed, err := i.runLiveTail(ctx, cursor)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		i.metrics.ObserveStream(loopLive, err, started)
		if processed > 0 {
			bo.Reset()
		}

		delay := bo.Next()
		if err != nil {
			i.logger.Warn("live tail iteration failed, backing off",
				zap.Error(err), zap.Int("processed", processed), zap.Duration("sleep", delay))
		} else {
			i.logger.Info("live stream closed, reconnecting",
				zap.Int("processed", processed), zap.Duration("sleep", delay))
		}
		if err := i.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (i *Ingestor) runLiveTail(ctx context.Context, cursor string) (int, error) {
	stream, err := i.feed.Stream(ctx, feed.Request{
		StartBlockNum: -1,
		StartCursor:   cursor,
		ForkSteps:     liveSteps,
	})
	if err != nil {
		return 0, fmt.Errorf("open live stream: %w", err)
	}
	defer stream.Close()

	processed := 0
	for {
		env, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return processed, nil
		}
		if err != nil {
			return processed, err
		}
		if err := i.processLiveEnvelope(ctx, env); err != nil {
			return processed, err
		}
		processed++
	}
}

func (i *Ingestor) processLiveEnvelope(ctx context.Context, env model.BlockEnvelope) (err error) {
	started := time.Now()
	defer func() {
		i.metrics.ObserveBlock(loopLive, env.Step, err, started)
	}()

	block, err := i.decoder.Decode(env.Payload)
	if err != nil {
		return fmt.Errorf("decode %s block: %w", env.Step, err)
	}

	switch env.Step {
	case model.StepNew:
		err = i.applyNew(ctx, block, env.Cursor)
	case model.StepUndo:
		err = i.applyUndo(ctx, block, env.Cursor)
	default:
		err = fmt.Errorf("%w: %s on live stream", ErrUnexpectedStep, env.Step)
	}
	return err
}

// applyNew writes the block, then the head, then the cursor. A crash in between is
// repaired by replaying from the previous cursor since upserts are idempotent.
func (i *Ingestor) applyNew(ctx context.Context, block model.Block, cursor string) error {
	if err := i.seedBackfillTarget(ctx, block); err != nil {
		return err
	}
	if err := i.store.UpsertBlock(ctx, i.chain, model.NewBlockRecord(block, cursor)); err != nil {
		return fmt.Errorf("upsert block %s: %w", block.Ptr(), err)
	}
	if err := i.recomputeHead(ctx); err != nil {
		return err
	}
	if err := i.store.SetResumeCursor(ctx, i.chain, cursor); err != nil {
		return fmt.Errorf("write resume cursor: %w", err)
	}
	i.logger.Debug("block ingested", zap.Stringer("block", block.Ptr()))
	return nil
}

func (i *Ingestor) applyUndo(ctx context.Context, block model.Block, cursor string) error {
	if err := i.store.RevertBlock(ctx, i.chain, block.Ptr()); err != nil {
		return fmt.Errorf("revert block %s: %w", block.Ptr(), err)
	}
	i.logger.Info("block undone by feed", zap.Stringer("block", block.Ptr()))
	if err := i.recomputeHead(ctx); err != nil {
		return err
	}
	if err := i.store.SetResumeCursor(ctx, i.chain, cursor); err != nil {
		return fmt.Errorf("write resume cursor: %w", err)
	}
	return nil
}

func (i *Ingestor) seedBackfillTarget(ctx context.Context, block model.Block) error {
	if i.backfillTargetKnown {
		return nil
	}
	target, err := i.store.BackfillTarget(ctx, i.chain)
	if err != nil {
		return fmt.Errorf("read backfill target: %w", err)
	}
	if target == 0 {
		if err := i.store.SetBackfillTarget(ctx, i.chain, block.Number()); err != nil {
			return fmt.Errorf("write backfill target: %w", err)
		}
		i.logger.Info("backfill target seeded from first live block", zap.Int64("target", block.Number()))
	}
	i.backfillTargetKnown = true
	return nil
}

func (i *Ingestor) recomputeHead(ctx context.Context) error {
	head, err := i.store.RecomputeChainHead(ctx, i.chain, i.ancestorCount)
	if err != nil {
		return fmt.Errorf("recompute chain head: %w", err)
	}
	if head == nil {
		return nil
	}
	prev := i.lastHead
	if prev != nil && prev.Pointer.Equal(head.Pointer) {
		return nil
	}
	if prev != nil && head.Pointer.Number < prev.Pointer.Number {
		i.logger.Info("chain head reverted",
			zap.Stringer("from", prev.Pointer), zap.Stringer("to", head.Pointer))
	}
	i.lastHead = head
	i.metrics.ObserveChainHead(head.Pointer.Number)
	i.notifyHead(ctx, *head)
	return nil
}

func (i *Ingestor) notifyHead(ctx context.Context, head model.ChainHead) {
	if i.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := i.notifier.NotifyChainHead(notifyCtx, i.chain, head); err != nil {
		i.logger.Warn("chain head notification failed", zap.Error(err), zap.Stringer("head", head.Pointer))
	}
}
