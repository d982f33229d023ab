package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// RevertBlock marks ptr and every canonical block above it as undone.
func (r *Repository) RevertBlock(ctx context.Context, chain model.Chain, ptr model.BlockPointer) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("revert_block", chain, err, start)
	}()

	const query = `
INSERT INTO chain_blocks (chain, number, hash, parent_hash, parent_number, timestamp, payload, cursor, undone, updated_at)
SELECT chain, number, hash, parent_hash, parent_number, timestamp, payload, cursor, 1, ?
FROM chain_blocks FINAL
WHERE chain = ? AND number >= ? AND undone = 0`

	if err = r.conn.Exec(ctx, query, time.Now().UTC(), string(chain), ptr.Number); err != nil {
		return fmt.Errorf("revert blocks from %s: %w", ptr, err)
	}
	return nil
}
