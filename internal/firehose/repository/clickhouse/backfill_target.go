package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// BackfillTarget returns the block number backfill runs up to; 0 means unset.
func (r *Repository) BackfillTarget(ctx context.Context, chain model.Chain) (target int64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("backfill_target", chain, err, start)
	}()

	const query = `
SELECT argMax(target, updated_at)
FROM chain_backfill_targets
WHERE chain = ?`

	rows, err := r.conn.Query(ctx, query, string(chain))
	if err != nil {
		return 0, fmt.Errorf("query backfill target: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		return 0, nil
	}
	if err = rows.Scan(&target); err != nil {
		return 0, fmt.Errorf("scan backfill target: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate backfill target: %w", err)
	}
	return target, nil
}

func (r *Repository) SetBackfillTarget(ctx context.Context, chain model.Chain, target int64) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("set_backfill_target", chain, err, start)
	}()

	const query = `
INSERT INTO chain_backfill_targets (chain, target, updated_at)
VALUES (?, ?, ?)`

	if err = r.conn.Exec(ctx, query, string(chain), target, time.Now().UTC()); err != nil {
		return fmt.Errorf("write backfill target: %w", err)
	}
	return nil
}
