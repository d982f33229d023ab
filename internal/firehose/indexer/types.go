package indexer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	EventStream interface {
		Next(ctx context.Context) (model.Event, error)
	}

	Sink interface {
		Publish(ctx context.Context, event model.Event) error
	}

	// PositionStore records the last event a deployment handled.
	PositionStore interface {
		SaveProcessed(ctx context.Context, deployment string, chain model.Chain, ptr model.BlockPointer, cursor string) error
		SaveRevert(ctx context.Context, deployment string, chain model.Chain, reverted, parent model.BlockPointer, cursor string) error
	}

	Metrics interface {
		ObserveEvent(event model.Event, err error, started time.Time)
	}
)
