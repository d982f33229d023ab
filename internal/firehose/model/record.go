package model

import "time"

// BlockRecord is a block as persisted by the chain store.
type BlockRecord struct {
	Pointer   BlockPointer
	Parent    *BlockPointer
	Timestamp time.Time
	Payload   []byte
	// Cursor is the feed cursor the block was received with.
	Cursor string
}

// NewBlockRecord snapshots a decoded block together with the cursor it arrived with.
func NewBlockRecord(block Block, cursor string) BlockRecord {
	return BlockRecord{
		Pointer:   block.Ptr(),
		Parent:    block.ParentPtr(),
		Timestamp: block.Timestamp(),
		Payload:   block.Data(),
		Cursor:    cursor,
	}
}
