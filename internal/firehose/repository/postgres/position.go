package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/jackc/pgx/v5"
)

// Position is where a deployment resumes after a restart.
type Position struct {
	Chain   model.Chain
	Pointer model.BlockPointer
	Cursor  string
}

const positionQuery = `SELECT chain, block_number, block_hash, cursor
FROM deployment_positions
WHERE deployment = $1`

const upsertPositionQuery = `INSERT INTO deployment_positions (deployment, chain, block_number, block_hash, cursor, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (deployment) DO UPDATE SET
    chain        = EXCLUDED.chain,
    block_number = EXCLUDED.block_number,
    block_hash   = EXCLUDED.block_hash,
    cursor       = EXCLUDED.cursor,
    updated_at   = EXCLUDED.updated_at`

const insertRevertQuery = `INSERT INTO deployment_reverts (deployment, from_number, from_hash, to_number, to_hash)
VALUES ($1, $2, $3, $4, $5)`

// Position returns the stored position of deployment, nil when it never processed a block.
func (r *Repository) Position(ctx context.Context, deployment string) (pos *Position, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("position", deployment, err, start)
	}()

	var (
		chain  string
		number int64
		hash   []byte
		cursor string
	)
	err = r.db.QueryRow(ctx, positionQuery, deployment).Scan(&chain, &number, &hash, &cursor)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query deployment position: %w", err)
	}

	return &Position{
		Chain:   model.Chain(chain),
		Pointer: model.NewBlockPointer(hash, number),
		Cursor:  cursor,
	}, nil
}

// SaveProcessed records that deployment handled the block at ptr.
func (r *Repository) SaveProcessed(ctx context.Context, deployment string, chain model.Chain, ptr model.BlockPointer, cursor string) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("save_processed", deployment, err, start)
	}()

	return r.inTx(ctx, func(tx Tx) error {
		if _, err := tx.Exec(ctx, upsertPositionQuery, deployment, string(chain), ptr.Number, ptr.Hash, cursor); err != nil {
			return fmt.Errorf("upsert deployment position: %w", err)
		}
		return nil
	})
}

// SaveRevert moves deployment back to parent and logs the revert in the same transaction.
func (r *Repository) SaveRevert(ctx context.Context, deployment string, chain model.Chain, reverted, parent model.BlockPointer, cursor string) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("save_revert", deployment, err, start)
	}()

	return r.inTx(ctx, func(tx Tx) error {
		if _, err := tx.Exec(ctx, upsertPositionQuery, deployment, string(chain), parent.Number, parent.Hash, cursor); err != nil {
			return fmt.Errorf("upsert deployment position: %w", err)
		}
		if _, err := tx.Exec(ctx, insertRevertQuery, deployment, reverted.Number, reverted.Hash, parent.Number, parent.Hash); err != nil {
			return fmt.Errorf("insert deployment revert: %w", err)
		}
		return nil
	})
}
