package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// BackfillProgress returns the highest block number backfill has stored, or -1 when it
// has stored nothing yet.
func (r *Repository) BackfillProgress(ctx context.Context, chain model.Chain) (number int64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("backfill_progress", chain, err, start)
	}()

	const query = `
SELECT max(number), count()
FROM chain_backfill_progress
WHERE chain = ?`

	rows, err := r.conn.Query(ctx, query, string(chain))
	if err != nil {
		return 0, fmt.Errorf("query backfill progress: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		return -1, nil
	}
	var count uint64
	if err = rows.Scan(&number, &count); err != nil {
		return 0, fmt.Errorf("scan backfill progress: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate backfill progress: %w", err)
	}
	if count == 0 {
		return -1, nil
	}
	return number, nil
}

// SetBackfillProgress records number as stored. Progress is the maximum ever recorded, so
// a replay from an older cursor never moves it back.
func (r *Repository) SetBackfillProgress(ctx context.Context, chain model.Chain, number int64) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("set_backfill_progress", chain, err, start)
	}()

	const query = `
INSERT INTO chain_backfill_progress (chain, number, updated_at)
VALUES (?, ?, ?)`

	if err = r.conn.Exec(ctx, query, string(chain), number, time.Now().UTC()); err != nil {
		return fmt.Errorf("write backfill progress: %w", err)
	}
	return nil
}
