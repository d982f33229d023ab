package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

const (
	cursorResume   = "resume"
	cursorBackfill = "backfill"
)

// ResumeCursor returns the live-tail cursor, or "" when none was stored.
func (r *Repository) ResumeCursor(ctx context.Context, chain model.Chain) (string, error) {
	return r.readCursor(ctx, "resume_cursor", chain, cursorResume)
}

func (r *Repository) SetResumeCursor(ctx context.Context, chain model.Chain, cursor string) error {
	return r.writeCursor(ctx, "set_resume_cursor", chain, cursorResume, cursor)
}

// BackfillCursor returns the backfill cursor, or "" when none was stored.
func (r *Repository) BackfillCursor(ctx context.Context, chain model.Chain) (string, error) {
	return r.readCursor(ctx, "backfill_cursor", chain, cursorBackfill)
}

func (r *Repository) SetBackfillCursor(ctx context.Context, chain model.Chain, cursor string) error {
	return r.writeCursor(ctx, "set_backfill_cursor", chain, cursorBackfill, cursor)
}

func (r *Repository) readCursor(ctx context.Context, operation string, chain model.Chain, name string) (cursor string, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(operation, chain, err, start)
	}()

	const query = `
SELECT argMax(value, updated_at)
FROM chain_cursors
WHERE chain = ? AND name = ?`

	rows, err := r.conn.Query(ctx, query, string(chain), name)
	if err != nil {
		return "", fmt.Errorf("query %s cursor: %w", name, err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		return "", nil
	}
	if err = rows.Scan(&cursor); err != nil {
		return "", fmt.Errorf("scan %s cursor: %w", name, err)
	}
	if err = rows.Err(); err != nil {
		return "", fmt.Errorf("iterate %s cursor: %w", name, err)
	}
	return cursor, nil
}

func (r *Repository) writeCursor(ctx context.Context, operation string, chain model.Chain, name, cursor string) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(operation, chain, err, start)
	}()

	const query = `
INSERT INTO chain_cursors (chain, name, value, updated_at)
VALUES (?, ?, ?, ?)`

	if err = r.conn.Exec(ctx, query, string(chain), name, cursor, time.Now().UTC()); err != nil {
		return fmt.Errorf("write %s cursor: %w", name, err)
	}
	return nil
}
