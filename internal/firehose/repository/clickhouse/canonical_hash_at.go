package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// CanonicalHashAt returns the hash of the canonical block at number, or nil if there is none.
func (r *Repository) CanonicalHashAt(ctx context.Context, chain model.Chain, number int64) (hash []byte, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("canonical_hash_at", chain, err, start)
	}()

	const query = `
SELECT hash
FROM chain_blocks FINAL
WHERE chain = ? AND number = ? AND undone = 0
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, string(chain), number)
	if err != nil {
		return nil, fmt.Errorf("query canonical hash: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate canonical hash: %w", err)
		}
		return nil, nil
	}
	var value string
	if err = rows.Scan(&value); err != nil {
		return nil, fmt.Errorf("scan canonical hash: %w", err)
	}
	return decodeHash(value)
}
