// Package indexer consumes the block stream of one deployment: every event is published to
// the sink and then recorded as the deployment position.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/blockstream"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"go.uber.org/zap"
)

const (
	backoffFloor   = 250 * time.Millisecond
	backoffCeiling = 30 * time.Second
)

// ErrUnknownEvent is logged for events the indexer cannot handle; they are skipped.
var ErrUnknownEvent = errors.New("unknown event kind")

// Config describes where the deployment resumes. Start is nil for a fresh deployment.
type Config struct {
	Deployment string
	Chain      model.Chain
	Start      *model.BlockPointer
	Cursor     string
}

// Status is the position the indexer reports.
type Status struct {
	Deployment string              `json:"deployment"`
	Chain      model.Chain         `json:"chain"`
	Block      *model.BlockPointer `json:"block,omitempty"`
	Cursor     string              `json:"cursor,omitempty"`
	Events     uint64              `json:"events"`
	Reverts    uint64              `json:"reverts"`
	UpdatedAt  *time.Time          `json:"updated_at,omitempty"`
}

type Indexer struct {
	logger     *zap.Logger
	deployment string
	chain      model.Chain
	stream     EventStream
	sink       Sink
	positions  PositionStore
	metrics    Metrics

	sleep      func(context.Context, time.Duration) error
	now        func() time.Time
	newBackoff func() *clock.Backoff

	mu     sync.RWMutex
	status Status
}

func NewIndexer(
	stream EventStream,
	sink Sink,
	positions PositionStore,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
) (*Indexer, error) {
	if cfg.Deployment == "" {
		return nil, errors.New("deployment is required")
	}
	if cfg.Chain == "" {
		return nil, errors.New("chain is required")
	}
	if stream == nil || sink == nil || positions == nil {
		return nil, errors.New("stream, sink and position store are required")
	}
	if metrics == nil {
		return nil, errors.New("indexer metrics is required")
	}

	status := Status{Deployment: cfg.Deployment, Chain: cfg.Chain, Cursor: cfg.Cursor}
	if cfg.Start != nil {
		start := model.NewBlockPointer(cfg.Start.Hash, cfg.Start.Number)
		status.Block = &start
	}

	return &Indexer{
		logger:     logger.Named("indexer").With(zap.String("deployment", cfg.Deployment), zap.String("chain", string(cfg.Chain))),
		deployment: cfg.Deployment,
		chain:      cfg.Chain,
		stream:     stream,
		sink:       sink,
		positions:  positions,
		metrics:    metrics,
		sleep:      clock.SleepWithContext,
		now:        time.Now,
		newBackoff: func() *clock.Backoff { return clock.NewBackoff(backoffFloor, backoffCeiling) },
		status:     status,
	}, nil
}

// Run handles events until ctx is canceled or the stream is closed. Stream errors are
// logged and retried after a backoff.
func (i *Indexer) Run(ctx context.Context) error {
	i.logger.Info("indexer started", zap.Stringer("position", i.position()))

	bo := i.newBackoff()
	for {
		event, err := i.stream.Next(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, blockstream.ErrStreamClosed) {
			return err
		}
		if err != nil {
			delay := bo.Next()
			i.logger.Warn("stream error, backing off", zap.Error(err), zap.Duration("sleep", delay))
			if err := i.sleep(ctx, delay); err != nil {
				return err
			}
			continue
		}
		bo.Reset()

		if err := i.handle(ctx, event); err != nil {
			return err
		}
	}
}

// handle retries until the event is both published and recorded. The event is not
// published again once the sink accepted it.
func (i *Indexer) handle(ctx context.Context, event model.Event) error {
	if event.Kind != model.EventProcessBlock && event.Kind != model.EventRevert {
		i.logger.Error("skipping event", zap.Error(fmt.Errorf("%w: %d", ErrUnknownEvent, event.Kind)))
		return nil
	}

	bo := i.newBackoff()
	published := false
	for {
		started := time.Now()
		err := i.apply(ctx, event, &published)
		i.metrics.ObserveEvent(event, err, started)
		if err == nil {
			i.record(event)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := bo.Next()
		i.logger.Warn("event handling failed, backing off",
			zap.Stringer("kind", event.Kind), zap.Stringer("block", event.Pointer()),
			zap.Bool("published", published), zap.Error(err), zap.Duration("sleep", delay))
		if err := i.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (i *Indexer) apply(ctx context.Context, event model.Event, published *bool) error {
	if !*published {
		if err := i.sink.Publish(ctx, event); err != nil {
			return fmt.Errorf("publish event: %w", err)
		}
		*published = true
	}

	if event.Kind == model.EventRevert {
		if err := i.positions.SaveRevert(ctx, i.deployment, i.chain, event.Reverted, event.Parent, event.Cursor); err != nil {
			return fmt.Errorf("save revert position: %w", err)
		}
		return nil
	}
	if err := i.positions.SaveProcessed(ctx, i.deployment, i.chain, event.Block.Ptr(), event.Cursor); err != nil {
		return fmt.Errorf("save processed position: %w", err)
	}
	return nil
}

func (i *Indexer) record(event model.Event) {
	ptr := event.Pointer()
	if event.Kind == model.EventRevert {
		i.logger.Info("reverted",
			zap.Stringer("from", event.Reverted), zap.Stringer("to", ptr))
	} else {
		i.logger.Debug("processed block",
			zap.Stringer("block", ptr), zap.Int("triggers", len(event.Block.Triggers)))
	}

	now := i.now()
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status.Block = &ptr
	i.status.Cursor = event.Cursor
	i.status.Events++
	if event.Kind == model.EventRevert {
		i.status.Reverts++
	}
	i.status.UpdatedAt = &now
}

// Status returns a snapshot of the current position. Safe for concurrent use.
func (i *Indexer) Status() Status {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.status
}

func (i *Indexer) position() fmt.Stringer {
	st := i.Status()
	if st.Block == nil {
		return noPosition{}
	}
	return *st.Block
}

type noPosition struct{}

func (noPosition) String() string { return "none" }
