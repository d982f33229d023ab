package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// ChainHead returns the last persisted chain head, or nil before the first block.
func (r *Repository) ChainHead(ctx context.Context, chain model.Chain) (head *model.ChainHead, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("chain_head", chain, err, start)
	}()

	const query = `
SELECT number, hash, timestamp
FROM chain_heads FINAL
WHERE chain = ?`

	rows, err := r.conn.Query(ctx, query, string(chain))
	if err != nil {
		return nil, fmt.Errorf("query chain head: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate chain head: %w", err)
		}
		return nil, nil
	}

	var (
		number    int64
		hash      string
		timestamp time.Time
	)
	if err = rows.Scan(&number, &hash, &timestamp); err != nil {
		return nil, fmt.Errorf("scan chain head: %w", err)
	}
	ptr, err := model.BlockPointerFromHex(hash, number)
	if err != nil {
		return nil, err
	}
	return &model.ChainHead{Pointer: ptr, Timestamp: timestamp.UTC()}, nil
}
