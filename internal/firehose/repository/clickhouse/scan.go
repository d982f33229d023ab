package clickhouse

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

const blockColumns = `number, hash, parent_hash, parent_number, timestamp, payload, cursor`

// genesisParentNumber marks a stored block without a parent.
const genesisParentNumber int64 = -1

func scanBlockRecord(rows Rows) (model.BlockRecord, error) {
	var (
		number       int64
		hash         string
		parentHash   string
		parentNumber int64
		timestamp    time.Time
		payload      string
		cursor       string
	)
	if err := rows.Scan(&number, &hash, &parentHash, &parentNumber, &timestamp, &payload, &cursor); err != nil {
		return model.BlockRecord{}, fmt.Errorf("scan block: %w", err)
	}

	ptr, err := model.BlockPointerFromHex(hash, number)
	if err != nil {
		return model.BlockRecord{}, err
	}
	record := model.BlockRecord{
		Pointer:   ptr,
		Timestamp: timestamp.UTC(),
		Payload:   []byte(payload),
		Cursor:    cursor,
	}
	if parentNumber != genesisParentNumber {
		parent, err := model.BlockPointerFromHex(parentHash, parentNumber)
		if err != nil {
			return model.BlockRecord{}, err
		}
		record.Parent = &parent
	}
	return record, nil
}

func parentColumns(parent *model.BlockPointer) (string, int64) {
	if parent == nil {
		return "", genesisParentNumber
	}
	return parent.HashHex(), parent.Number
}

func decodeHash(value string) ([]byte, error) {
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode hash %q: %w", value, err)
	}
	return raw, nil
}

func closeRows(rows Rows, err *error) {
	if closeErr := rows.Close(); closeErr != nil && *err == nil {
		*err = fmt.Errorf("close rows: %w", closeErr)
	}
}
