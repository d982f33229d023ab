package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

const upsertBlocksQuery = `
INSERT INTO chain_blocks (
	chain,
	number,
	hash,
	parent_hash,
	parent_number,
	timestamp,
	payload,
	cursor,
	undone,
	updated_at
) VALUES`

// UpsertBlock stores one block as canonical. Writing the same block again replaces the row.
func (r *Repository) UpsertBlock(ctx context.Context, chain model.Chain, record model.BlockRecord) error {
	return r.upsertBlocks(ctx, "upsert_block", chain, []model.BlockRecord{record})
}

// UpsertBlocks stores a batch of canonical blocks in one insert.
func (r *Repository) UpsertBlocks(ctx context.Context, chain model.Chain, records []model.BlockRecord) error {
	return r.upsertBlocks(ctx, "upsert_blocks", chain, records)
}

func (r *Repository) upsertBlocks(ctx context.Context, operation string, chain model.Chain, records []model.BlockRecord) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(operation, chain, err, start)
	}()

	if len(records) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, upsertBlocksQuery)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	updatedAt := time.Now().UTC()
	for _, record := range records {
		parentHash, parentNumber := parentColumns(record.Parent)
		if err = batch.Append(
			string(chain),
			record.Pointer.Number,
			record.Pointer.HashHex(),
			parentHash,
			parentNumber,
			record.Timestamp,
			string(record.Payload),
			record.Cursor,
			uint8(0),
			updatedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append block %s: %w", record.Pointer, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}
