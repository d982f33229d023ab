package blockstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/workerpool"
)

const (
	defaultReorgThreshold = 50
	defaultDecodeWorkers  = 4
	defaultMaxRevertDepth = 1000
)

var (
	// ErrMissingBlocks means the store has no canonical block right after the position,
	// typically because backfill has not reached it yet.
	ErrMissingBlocks = errors.New("missing canonical blocks")
	// ErrNoCommonAncestor means the position could not be walked back to the canonical chain.
	ErrNoCommonAncestor = errors.New("no common ancestor with canonical chain")
)

type ReconcilerConfig struct {
	// StartBlock is the first block delivered when there is no position yet.
	StartBlock int64
	// ReorgThreshold is the distance from the head within which blocks are
	// delivered one at a time.
	ReorgThreshold int64
	DecodeWorkers  int
	MaxRevertDepth int
}

// StoreReconciler computes the next blocks for a consumer from the chain store.
type StoreReconciler struct {
	chain    model.Chain
	store    ChainStore
	decoder  Decoder
	triggers TriggersAdapter

	startBlock     int64
	reorgThreshold int64
	decodeWorkers  int
	maxRevertDepth int
}

func NewStoreReconciler(chain model.Chain, store ChainStore, decoder Decoder, triggers TriggersAdapter, cfg ReconcilerConfig) (*StoreReconciler, error) {
	if store == nil || decoder == nil || triggers == nil {
		return nil, errors.New("store, decoder and triggers adapter are required")
	}
	if cfg.StartBlock < 0 {
		return nil, fmt.Errorf("invalid start block %d", cfg.StartBlock)
	}
	if cfg.ReorgThreshold < 0 {
		cfg.ReorgThreshold = defaultReorgThreshold
	}
	if cfg.DecodeWorkers <= 0 {
		cfg.DecodeWorkers = defaultDecodeWorkers
	}
	if cfg.MaxRevertDepth <= 0 {
		cfg.MaxRevertDepth = defaultMaxRevertDepth
	}

	return &StoreReconciler{
		chain:          chain,
		store:          store,
		decoder:        decoder,
		triggers:       triggers,
		startBlock:     cfg.StartBlock,
		reorgThreshold: cfg.ReorgThreshold,
		decodeWorkers:  cfg.DecodeWorkers,
		maxRevertDepth: cfg.MaxRevertDepth,
	}, nil
}

func (r *StoreReconciler) NextBlocks(ctx context.Context, req Request) (NextBlocks, error) {
	head, err := r.store.ChainHead(ctx, r.chain)
	if err != nil {
		return NextBlocks{}, fmt.Errorf("read chain head: %w", err)
	}

	if req.Position != nil {
		canonical, err := r.store.CanonicalHashAt(ctx, r.chain, req.Position.Number)
		if err != nil {
			return NextBlocks{}, fmt.Errorf("read canonical hash at %d: %w", req.Position.Number, err)
		}
		if !bytes.Equal(canonical, req.Position.Hash) {
			return r.revert(ctx, *req.Position)
		}
	}

	if head == nil {
		return Done(), nil
	}

	from := r.startBlock
	if req.Position != nil {
		from = req.Position.Number + 1
	}
	to, ok := r.rangeEnd(from, head.Pointer.Number, req.RangeSize)
	if !ok {
		return Done(), nil
	}

	records, err := r.store.CanonicalBlocks(ctx, r.chain, from, to)
	if err != nil {
		return NextBlocks{}, fmt.Errorf("load blocks %d..%d: %w", from, to, err)
	}
	records, err = linkedPrefix(records, from, req.Position)
	if err != nil {
		return NextBlocks{}, err
	}

	blocks, err := workerpool.Map(ctx, r.decodeWorkers, records, r.withTriggers)
	if err != nil {
		return NextBlocks{}, err
	}
	return Blocks(blocks, int(to-from+1)), nil
}

// rangeEnd returns the last block of the next step, or false when from is past the head.
func (r *StoreReconciler) rangeEnd(from, head int64, rangeSize int) (int64, bool) {
	if from > head {
		return 0, false
	}
	if rangeSize < 1 {
		rangeSize = 1
	}

	to := from + int64(rangeSize) - 1
	if to > head {
		to = head
	}
	if safe := head - r.reorgThreshold; from > safe {
		to = from
	} else if to > safe {
		to = safe
	}
	return to, true
}

// linkedPrefix keeps records from the start of the range up to the first gap or broken
// parent link. The next step picks up from there.
func linkedPrefix(records []model.BlockRecord, from int64, position *model.BlockPointer) ([]model.BlockRecord, error) {
	if len(records) == 0 || records[0].Pointer.Number != from {
		return nil, fmt.Errorf("%w: block %d", ErrMissingBlocks, from)
	}
	if position != nil && (records[0].Parent == nil || !records[0].Parent.Equal(*position)) {
		return nil, fmt.Errorf("block %s does not extend position %s", records[0].Pointer, position)
	}

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if cur.Pointer.Number != prev.Pointer.Number+1 || cur.Parent == nil || !cur.Parent.Equal(prev.Pointer) {
			return records[:i], nil
		}
	}
	return records, nil
}

func (r *StoreReconciler) withTriggers(ctx context.Context, record model.BlockRecord) (CursoredBlock, error) {
	block, err := r.decoder.Decode(record.Payload)
	if err != nil {
		return CursoredBlock{}, fmt.Errorf("decode stored block %s: %w", record.Pointer, err)
	}
	triggers, err := r.triggers.TriggersInBlock(ctx, block)
	if err != nil {
		return CursoredBlock{}, fmt.Errorf("match triggers in block %s: %w", record.Pointer, err)
	}
	return CursoredBlock{Block: model.NewBlockWithTriggers(block, triggers), Cursor: record.Cursor}, nil
}

// revert walks back from a position that left the canonical chain to its closest
// canonical ancestor. The reverted pointer is the oldest non-canonical block.
func (r *StoreReconciler) revert(ctx context.Context, position model.BlockPointer) (NextBlocks, error) {
	current, err := r.store.BlockByHash(ctx, r.chain, position.Hash)
	if err != nil {
		return NextBlocks{}, fmt.Errorf("load reverted block %s: %w", position, err)
	}

	for depth := 0; depth < r.maxRevertDepth; depth++ {
		if current.Parent == nil {
			return NextBlocks{}, fmt.Errorf("%w: reached genesis from %s", ErrNoCommonAncestor, position)
		}
		parent := *current.Parent

		canonical, err := r.store.CanonicalHashAt(ctx, r.chain, parent.Number)
		if err != nil {
			return NextBlocks{}, fmt.Errorf("read canonical hash at %d: %w", parent.Number, err)
		}

		record, err := r.store.BlockByHash(ctx, r.chain, parent.Hash)
		if err != nil {
			return NextBlocks{}, fmt.Errorf("load ancestor %s: %w", parent, err)
		}
		if bytes.Equal(canonical, parent.Hash) {
			return Revert(current.Pointer, record.Pointer, record.Cursor), nil
		}
		current = record
	}
	return NextBlocks{}, fmt.Errorf("%w: more than %d blocks below %s", ErrNoCommonAncestor, r.maxRevertDepth, position)
}
