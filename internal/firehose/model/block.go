package model

import (
	"slices"
	"sort"
	"time"
)

// Block is a decoded, chain-specific block. Implementations are immutable once constructed.
type Block interface {
	Ptr() BlockPointer
	// ParentPtr is nil for the genesis block.
	ParentPtr() *BlockPointer
	Number() int64
	Timestamp() time.Time
	// Data returns the raw payload the block was decoded from.
	Data() []byte
}

// Trigger is a handler-relevant event extracted from a block.
type Trigger interface {
	// BlockLevel reports whether the trigger applies to the whole block rather than to a
	// transaction or instruction inside it.
	BlockLevel() bool
	ErrorContext() string
}

// BlockWithTriggers pairs a block with the ordered triggers matched in it.
type BlockWithTriggers struct {
	Block    Block
	Triggers []Trigger
}

// NewBlockWithTriggers moves block-level triggers after all intra-block triggers,
// keeping the relative order produced by the matcher. The caller's slice is left as is.
func NewBlockWithTriggers(block Block, triggers []Trigger) BlockWithTriggers {
	triggers = slices.Clone(triggers)
	sort.SliceStable(triggers, func(i, j int) bool {
		return !triggers[i].BlockLevel() && triggers[j].BlockLevel()
	})
	return BlockWithTriggers{Block: block, Triggers: triggers}
}

func (b BlockWithTriggers) Ptr() BlockPointer {
	return b.Block.Ptr()
}

// ChainHead is the highest block the store considers part of the canonical chain.
type ChainHead struct {
	Pointer   BlockPointer
	Timestamp time.Time
}
