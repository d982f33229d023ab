package blockstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/feed"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"go.uber.org/zap"
)

const (
	feedBackoffFloor   = 250 * time.Millisecond
	feedBackoffCeiling = 30 * time.Second
)

var (
	feedStreamSteps = []model.ForkStep{model.StepNew, model.StepUndo}

	// ErrUnsupportedStep is returned for feed steps a consumer cannot act on.
	ErrUnsupportedStep = errors.New("unsupported fork step")
)

// FeedStream maps a live feed straight to consumer events, bypassing the chain store
// except to resolve revert parents.
type FeedStream struct {
	logger   *zap.Logger
	chain    model.Chain
	feed     Feed
	store    ChainStore
	decoder  Decoder
	triggers TriggersAdapter
	sleep    func(context.Context, time.Duration) error
	backoff  *clock.Backoff

	startBlock int64
	cursor     string
	stream     feed.BlockStream
}

// NewFeedStream resumes from cursor when set, otherwise from startBlock.
func NewFeedStream(
	chain model.Chain,
	f Feed,
	store ChainStore,
	decoder Decoder,
	triggers TriggersAdapter,
	startBlock int64,
	cursor string,
	logger *zap.Logger,
) (*FeedStream, error) {
	if f == nil || store == nil || decoder == nil || triggers == nil {
		return nil, errors.New("feed, store, decoder and triggers adapter are required")
	}
	return &FeedStream{
		logger:     logger.Named("feedStream").With(zap.String("chain", string(chain))),
		chain:      chain,
		feed:       f,
		store:      store,
		decoder:    decoder,
		triggers:   triggers,
		sleep:      clock.SleepWithContext,
		backoff:    clock.NewBackoff(feedBackoffFloor, feedBackoffCeiling),
		startBlock: startBlock,
		cursor:     cursor,
	}, nil
}

// Next reconnects on stream failures by itself. Envelopes that cannot be mapped are
// returned as errors and the stream restarts from the last delivered cursor.
func (f *FeedStream) Next(ctx context.Context) (model.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			f.reset()
			return model.Event{}, err
		}

		if f.stream == nil {
			stream, err := f.feed.Stream(ctx, feed.Request{
				StartBlockNum: f.startBlock,
				StartCursor:   f.cursor,
				ForkSteps:     feedStreamSteps,
			})
			if err != nil {
				if err := f.backOff(ctx, fmt.Errorf("open feed stream: %w", err)); err != nil {
					return model.Event{}, err
				}
				continue
			}
			f.stream = stream
		}

		env, err := f.stream.Recv()
		if err != nil {
			f.reset()
			if errors.Is(err, io.EOF) {
				err = errors.New("feed stream closed")
			}
			if err := f.backOff(ctx, err); err != nil {
				return model.Event{}, err
			}
			continue
		}

		event, err := f.toEvent(ctx, env)
		if err != nil {
			f.reset()
			return model.Event{}, err
		}
		f.backoff.Reset()
		f.cursor = env.Cursor
		return event, nil
	}
}

// Close releases the underlying feed stream.
func (f *FeedStream) Close() {
	f.reset()
}

func (f *FeedStream) reset() {
	if f.stream != nil {
		f.stream.Close()
		f.stream = nil
	}
}

func (f *FeedStream) backOff(ctx context.Context, cause error) error {
	delay := f.backoff.Next()
	f.logger.Warn("feed stream failed, backing off", zap.Error(cause), zap.Duration("sleep", delay))
	return f.sleep(ctx, delay)
}

func (f *FeedStream) toEvent(ctx context.Context, env model.BlockEnvelope) (model.Event, error) {
	switch env.Step {
	case model.StepNew, model.StepUndo:
	default:
		return model.Event{}, fmt.Errorf("%w: %s", ErrUnsupportedStep, env.Step)
	}

	block, err := f.decoder.Decode(env.Payload)
	if err != nil {
		return model.Event{}, fmt.Errorf("decode %s block: %w", env.Step, err)
	}

	if env.Step == model.StepUndo {
		parent, err := f.resolveParent(ctx, block)
		if err != nil {
			return model.Event{}, err
		}
		return model.RevertEvent(block.Ptr(), parent, env.Cursor), nil
	}

	triggers, err := f.triggers.TriggersInBlock(ctx, block)
	if err != nil {
		return model.Event{}, fmt.Errorf("match triggers in block %s: %w", block.Ptr(), err)
	}
	return model.ProcessBlockEvent(model.NewBlockWithTriggers(block, triggers), env.Cursor), nil
}

// resolveParent prefers the parent carried by the block and falls back to the store.
func (f *FeedStream) resolveParent(ctx context.Context, block model.Block) (model.BlockPointer, error) {
	if parent := block.ParentPtr(); parent != nil {
		return *parent, nil
	}
	record, err := f.store.BlockByHash(ctx, f.chain, block.Ptr().Hash)
	if err != nil {
		return model.BlockPointer{}, fmt.Errorf("resolve parent of undone block %s: %w", block.Ptr(), err)
	}
	if record.Parent == nil {
		return model.BlockPointer{}, fmt.Errorf("%w: undone block %s has no parent", ErrNoCommonAncestor, block.Ptr())
	}
	return *record.Parent, nil
}
