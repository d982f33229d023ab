package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// CanonicalBlocks returns the canonical blocks numbered from..to inclusive, ascending.
// Missing numbers are simply absent from the result.
func (r *Repository) CanonicalBlocks(ctx context.Context, chain model.Chain, from, to int64) (records []model.BlockRecord, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("canonical_blocks", chain, err, start)
	}()

	if to < from {
		return nil, nil
	}

	const query = `
SELECT ` + blockColumns + `
FROM chain_blocks FINAL
WHERE chain = ? AND undone = 0 AND number >= ? AND number <= ?
ORDER BY number`

	rows, err := r.conn.Query(ctx, query, string(chain), from, to)
	if err != nil {
		return nil, fmt.Errorf("query canonical blocks: %w", err)
	}
	defer closeRows(rows, &err)

	records = make([]model.BlockRecord, 0, to-from+1)
	for rows.Next() {
		record, scanErr := scanBlockRecord(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate canonical blocks: %w", err)
	}
	return records, nil
}
