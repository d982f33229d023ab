package ingestor

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/feed"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// ChainStore persists blocks, the chain head and the cursors of both loops.
	// Live-tail and backfill use disjoint keys, so it is shared without locking.
	ChainStore interface {
		ResumeCursor(ctx context.Context, chain model.Chain) (string, error)
		SetResumeCursor(ctx context.Context, chain model.Chain, cursor string) error
		BackfillCursor(ctx context.Context, chain model.Chain) (string, error)
		SetBackfillCursor(ctx context.Context, chain model.Chain, cursor string) error
		// BackfillProgress returns the highest block stored by backfill, -1 when none.
		BackfillProgress(ctx context.Context, chain model.Chain) (int64, error)
		SetBackfillProgress(ctx context.Context, chain model.Chain, number int64) error
		// BackfillTarget returns 0 when no target is set.
		BackfillTarget(ctx context.Context, chain model.Chain) (int64, error)
		SetBackfillTarget(ctx context.Context, chain model.Chain, number int64) error
		UpsertBlock(ctx context.Context, chain model.Chain, block model.BlockRecord) error
		UpsertBlocks(ctx context.Context, chain model.Chain, blocks []model.BlockRecord) error
		RevertBlock(ctx context.Context, chain model.Chain, ptr model.BlockPointer) error
		// RecomputeChainHead returns nil when the store holds no complete chain yet.
		RecomputeChainHead(ctx context.Context, chain model.Chain, ancestorCount int32) (*model.ChainHead, error)
	}

	Feed interface {
		Stream(ctx context.Context, req feed.Request) (feed.BlockStream, error)
	}

	BlockStream interface {
		Recv() (model.BlockEnvelope, error)
		Close()
	}

	Decoder interface {
		Decode(payload []byte) (model.Block, error)
	}

	HeadNotifier interface {
		NotifyChainHead(ctx context.Context, chain model.Chain, head model.ChainHead) error
	}

	Metrics interface {
		ObserveStream(loop string, err error, started time.Time)
		ObserveBlock(loop string, step model.ForkStep, err error, started time.Time)
		ObserveChainHead(number int64)
		ObserveBackfill(number, target int64)
	}
)
