// Package blockstream turns the chain store into an ordered, revert-aware event stream
// for one deployment.
package blockstream

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"go.uber.org/zap"
)

type state int

const (
	stateBeginReconciliation state = iota
	stateReconciliation
	stateYieldingBlocks
	stateRetryAfterDelay
	stateIdle
)

func (s state) String() string {
	switch s {
	case stateBeginReconciliation:
		return "begin_reconciliation"
	case stateReconciliation:
		return "reconciliation"
	case stateYieldingBlocks:
		return "yielding_blocks"
	case stateRetryAfterDelay:
		return "retry_after_delay"
	case stateIdle:
		return "idle"
	default:
		return "unknown"
	}
}

const (
	defaultMaxBlockRangeSize = 1000
	defaultTargetTriggers    = 1000
	defaultIdlePollInterval  = 30 * time.Second
	defaultRetryDelayBase    = 500 * time.Millisecond
	defaultRetryDelayMax     = 30 * time.Second
)

type Config struct {
	// StartPosition is the last block the consumer processed, nil when starting fresh.
	StartPosition *model.BlockPointer
	// MaxBlockRangeSize caps how many block numbers one step covers.
	MaxBlockRangeSize int
	// TargetTriggers is the number of triggers one step aims for.
	TargetTriggers int
	// IdlePollInterval wakes an idle stream when no head update arrives. Negative disables it.
	IdlePollInterval time.Duration
	RetryDelayBase   time.Duration
	RetryDelayMax    time.Duration
}

// BlockStream is the reconciliation state machine. It is not safe for concurrent use;
// wrap it in a BufferedStream to decouple it from the consumer.
type BlockStream struct {
	logger      *zap.Logger
	reconciler  Reconciler
	metrics     Metrics
	headUpdates <-chan struct{}
	sleep       func(context.Context, time.Duration) error

	targetTriggers   int
	idlePollInterval time.Duration
	retryDelayBase   time.Duration
	retryDelayMax    time.Duration

	state      state
	rc         ReconciliationContext
	position   *model.BlockPointer
	request    Request
	started    time.Time
	pending    []CursoredBlock
	retryDelay time.Duration
}

// NewBlockStream builds a stream that starts in BeginReconciliation. headUpdates may be nil,
// in which case an idle stream only wakes on IdlePollInterval.
func NewBlockStream(reconciler Reconciler, headUpdates <-chan struct{}, metrics Metrics, cfg Config, logger *zap.Logger) (*BlockStream, error) {
	if reconciler == nil {
		return nil, errors.New("reconciler is required")
	}
	if metrics == nil {
		return nil, errors.New("block stream metrics is required")
	}
	if cfg.MaxBlockRangeSize <= 0 {
		cfg.MaxBlockRangeSize = defaultMaxBlockRangeSize
	}
	if cfg.TargetTriggers <= 0 {
		cfg.TargetTriggers = defaultTargetTriggers
	}
	if cfg.IdlePollInterval == 0 {
		cfg.IdlePollInterval = defaultIdlePollInterval
	}
	if headUpdates == nil && cfg.IdlePollInterval < 0 {
		return nil, errors.New("idle poll interval is required without head updates")
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = defaultRetryDelayBase
	}
	if cfg.RetryDelayMax <= 0 {
		cfg.RetryDelayMax = defaultRetryDelayMax
	}

	var position *model.BlockPointer
	if cfg.StartPosition != nil {
		p := model.NewBlockPointer(cfg.StartPosition.Hash, cfg.StartPosition.Number)
		position = &p
	}

	return &BlockStream{
		logger:           logger.Named("blockStream"),
		reconciler:       reconciler,
		metrics:          metrics,
		headUpdates:      headUpdates,
		sleep:            clock.SleepWithContext,
		targetTriggers:   cfg.TargetTriggers,
		idlePollInterval: cfg.IdlePollInterval,
		retryDelayBase:   cfg.RetryDelayBase,
		retryDelayMax:    cfg.RetryDelayMax,
		state:            stateBeginReconciliation,
		rc:               NewReconciliationContext(cfg.MaxBlockRangeSize),
		position:         position,
	}, nil
}

// Next returns the next event. It blocks while the consumer is caught up and only
// returns an error when ctx is done. Reconciliation failures are retried internally.
func (s *BlockStream) Next(ctx context.Context) (model.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return model.Event{}, err
		}

		switch s.state {
		case stateBeginReconciliation:
			s.beginReconciliation()

		case stateReconciliation:
			if event, ok := s.reconcile(ctx); ok {
				return event, nil
			}

		case stateYieldingBlocks:
			if event, ok := s.yieldBlock(); ok {
				return event, nil
			}

		case stateRetryAfterDelay:
			if err := s.sleep(ctx, s.retryDelay); err != nil {
				return model.Event{}, err
			}
			s.state = stateBeginReconciliation

		case stateIdle:
			if err := s.waitForHeadUpdate(ctx); err != nil {
				return model.Event{}, err
			}
			s.state = stateBeginReconciliation
		}
	}
}

func (s *BlockStream) beginReconciliation() {
	s.request = Request{Position: s.position, RangeSize: s.rc.NextRangeSize(s.targetTriggers)}
	s.started = time.Now()
	s.metrics.ObserveRangeSize(s.rc.MaxBlockRangeSize)
	s.state = stateReconciliation
}

// reconcile runs one reconciliation step. It returns an event only for a revert.
func (s *BlockStream) reconcile(ctx context.Context) (model.Event, bool) {
	next, err := s.reconciler.NextBlocks(ctx, s.request)
	if err != nil {
		if ctx.Err() != nil {
			// Next reports the cancellation; the step is retried if the stream is reused.
			s.state = stateBeginReconciliation
			return model.Event{}, false
		}
		s.rc.OnError()
		s.retryDelay = s.retryDelayFor(s.rc.ConsecutiveErrors)
		s.metrics.ObserveReconciliation("error", s.started)
		s.logger.Warn("reconciliation failed, retrying",
			zap.Error(err),
			zap.Int("consecutive_errors", s.rc.ConsecutiveErrors),
			zap.Duration("sleep", s.retryDelay))
		s.state = stateRetryAfterDelay
		return model.Event{}, false
	}

	switch next.Kind {
	case NextBlocksReady:
		if len(next.Blocks) == 0 {
			break
		}
		s.rc.OnBlocks(next.Blocks, next.RangeSize)
		s.metrics.ObserveReconciliation(next.Kind.String(), s.started)
		s.logger.Debug("reconciled blocks",
			zap.Stringer("first", next.Blocks[0].Block.Ptr()),
			zap.Int("count", len(next.Blocks)),
			zap.Int("range_size", next.RangeSize),
			zap.Int("max_range_size", s.rc.MaxBlockRangeSize))
		s.pending = next.Blocks
		s.state = stateYieldingBlocks
		return model.Event{}, false

	case NextRevert:
		s.metrics.ObserveReconciliation(next.Kind.String(), s.started)
		s.logger.Info("reverting to ancestor",
			zap.Stringer("reverted", next.Reverted), zap.Stringer("parent", next.Parent))
		parent := next.Parent
		s.position = &parent
		s.state = stateBeginReconciliation
		return model.RevertEvent(next.Reverted, next.Parent, next.Cursor), true
	}

	s.rc.OnDone()
	s.metrics.ObserveReconciliation(NextDone.String(), s.started)
	s.state = stateIdle
	return model.Event{}, false
}

func (s *BlockStream) yieldBlock() (model.Event, bool) {
	if len(s.pending) == 0 {
		s.pending = nil
		s.state = stateBeginReconciliation
		return model.Event{}, false
	}

	next := s.pending[0]
	s.pending = s.pending[1:]
	ptr := next.Block.Ptr()
	s.position = &ptr
	s.metrics.ObserveBlockYielded()
	return model.ProcessBlockEvent(next.Block, next.Cursor), true
}

func (s *BlockStream) waitForHeadUpdate(ctx context.Context) error {
	var fallback <-chan time.Time
	if s.idlePollInterval > 0 {
		timer := time.NewTimer(s.idlePollInterval)
		defer timer.Stop()
		fallback = timer.C
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-s.headUpdates:
		if !ok {
			s.logger.Warn("chain head updates closed, falling back to polling")
			s.headUpdates = nil
			if s.idlePollInterval <= 0 {
				s.idlePollInterval = defaultIdlePollInterval
			}
		}
	case <-fallback:
	}
	return nil
}

func (s *BlockStream) retryDelayFor(errorCount int) time.Duration {
	delay := s.retryDelayBase * time.Duration(errorCount)
	if delay > s.retryDelayMax || delay <= 0 {
		return s.retryDelayMax
	}
	return delay
}
