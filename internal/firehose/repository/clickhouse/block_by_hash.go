package clickhouse

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// BlockByHash returns a stored block whether or not it is still canonical.
func (r *Repository) BlockByHash(ctx context.Context, chain model.Chain, hash []byte) (record model.BlockRecord, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("block_by_hash", chain, err, start)
	}()

	const query = `
SELECT ` + blockColumns + `
FROM chain_blocks FINAL
WHERE chain = ? AND hash = ?
ORDER BY undone
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, string(chain), hex.EncodeToString(hash))
	if err != nil {
		return model.BlockRecord{}, fmt.Errorf("query block by hash: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.BlockRecord{}, fmt.Errorf("iterate block by hash: %w", err)
		}
		err = fmt.Errorf("%w: %x", model.ErrBlockNotFound, hash)
		return model.BlockRecord{}, err
	}
	if record, err = scanBlockRecord(rows); err != nil {
		return model.BlockRecord{}, err
	}
	return record, nil
}
