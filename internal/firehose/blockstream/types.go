package blockstream

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/feed"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// ChainStore is the read side of the chain store used for reconciliation.
	ChainStore interface {
		ChainHead(ctx context.Context, chain model.Chain) (*model.ChainHead, error)
		CanonicalBlocks(ctx context.Context, chain model.Chain, from, to int64) ([]model.BlockRecord, error)
		BlockByHash(ctx context.Context, chain model.Chain, hash []byte) (model.BlockRecord, error)
		CanonicalHashAt(ctx context.Context, chain model.Chain, number int64) ([]byte, error)
	}

	Decoder interface {
		Decode(payload []byte) (model.Block, error)
	}

	// TriggersAdapter returns the triggers a deployment's filter matches in a block.
	TriggersAdapter interface {
		TriggersInBlock(ctx context.Context, block model.Block) ([]model.Trigger, error)
	}

	Reconciler interface {
		NextBlocks(ctx context.Context, req Request) (NextBlocks, error)
	}

	// EventStream is consumed by the indexer one event at a time.
	EventStream interface {
		Next(ctx context.Context) (model.Event, error)
	}

	Feed interface {
		Stream(ctx context.Context, req feed.Request) (feed.BlockStream, error)
	}

	Metrics interface {
		ObserveReconciliation(outcome string, started time.Time)
		ObserveBlockYielded()
		ObserveRangeSize(size int)
	}
)
