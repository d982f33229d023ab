package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, deployment string, err error, started time.Time)
	}

	// DB is the subset of pgxpool.Pool the repository uses.
	DB interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		BeginTx(ctx context.Context) (Tx, error)
		Close()
	}

	Tx interface {
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// Row mirrors pgx.Row.
	Row interface {
		Scan(dest ...any) error
	}
)
