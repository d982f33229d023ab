package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, chain model.Chain, err error, started time.Time)
	}

	// Conn is the part of the ClickHouse driver connection the repository relies on.
	Conn interface {
		Query(ctx context.Context, query string, args ...any) (Rows, error)
		Exec(ctx context.Context, query string, args ...any) error
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Close() error
	}

	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Err() error
		Close() error
	}

	Batch interface {
		Append(v ...any) error
		Send() error
		Abort() error
	}
)
