package clickhouse

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

type headCandidate struct {
	pointer    model.BlockPointer
	parentHash []byte
	timestamp  time.Time
}

// RecomputeChainHead picks the highest canonical block whose last ancestorCount ancestors
// are stored and linked, persists it as the chain head and returns it. It returns nil when
// the chain has no canonical blocks.
func (r *Repository) RecomputeChainHead(ctx context.Context, chain model.Chain, ancestorCount int32) (head *model.ChainHead, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("recompute_chain_head", chain, err, start)
	}()

	if ancestorCount < 0 {
		ancestorCount = 0
	}
	candidates, err := r.recentCanonicalBlocks(ctx, chain, 2*int64(ancestorCount)+1)
	if err != nil {
		return nil, err
	}

	head = selectChainHead(candidates, int(ancestorCount))
	if head == nil {
		return nil, nil
	}

	const query = `
INSERT INTO chain_heads (chain, number, hash, timestamp, updated_at)
VALUES (?, ?, ?, ?, ?)`

	if err = r.conn.Exec(ctx, query, string(chain), head.Pointer.Number, head.Pointer.HashHex(), head.Timestamp, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("write chain head: %w", err)
	}
	return head, nil
}

func (r *Repository) recentCanonicalBlocks(ctx context.Context, chain model.Chain, limit int64) (candidates []headCandidate, err error) {
	const query = `
SELECT number, hash, parent_hash, timestamp
FROM chain_blocks FINAL
WHERE chain = ? AND undone = 0
ORDER BY number DESC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, string(chain), limit)
	if err != nil {
		return nil, fmt.Errorf("query recent blocks: %w", err)
	}
	defer closeRows(rows, &err)

	for rows.Next() {
		var (
			number     int64
			hash       string
			parentHash string
			timestamp  time.Time
		)
		if err = rows.Scan(&number, &hash, &parentHash, &timestamp); err != nil {
			return nil, fmt.Errorf("scan recent block: %w", err)
		}
		ptr, convErr := model.BlockPointerFromHex(hash, number)
		if convErr != nil {
			err = convErr
			return nil, err
		}
		parent, convErr := decodeHash(parentHash)
		if convErr != nil {
			err = convErr
			return nil, err
		}
		candidates = append(candidates, headCandidate{pointer: ptr, parentHash: parent, timestamp: timestamp.UTC()})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent blocks: %w", err)
	}
	return candidates, nil
}

// selectChainHead expects candidates ordered by number descending.
func selectChainHead(candidates []headCandidate, ancestorCount int) *model.ChainHead {
	for i := range candidates {
		if linkedAncestry(candidates[i:], ancestorCount) {
			return &model.ChainHead{Pointer: candidates[i].pointer, Timestamp: candidates[i].timestamp}
		}
	}
	return nil
}

// linkedAncestry reports whether chain[0] links to its stored ancestors for up to depth
// steps. Running out of stored blocks or reaching genesis counts as linked.
func linkedAncestry(chain []headCandidate, depth int) bool {
	for j := 0; j < depth && j+1 < len(chain); j++ {
		child, parent := chain[j], chain[j+1]
		if child.pointer.Number == 0 {
			return true
		}
		if parent.pointer.Number != child.pointer.Number-1 || !bytes.Equal(parent.pointer.Hash, child.parentHash) {
			return false
		}
	}
	return true
}
