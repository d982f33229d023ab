package blockstream

import "github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"

// NextKind is the outcome of one reconciliation step.
type NextKind int

const (
	NextBlocksReady NextKind = iota + 1
	NextDone
	NextRevert
)

func (k NextKind) String() string {
	switch k {
	case NextBlocksReady:
		return "blocks"
	case NextDone:
		return "done"
	case NextRevert:
		return "revert"
	default:
		return "unknown"
	}
}

// Request asks for the blocks following Position. A nil Position means nothing was
// processed yet.
type Request struct {
	Position  *model.BlockPointer
	RangeSize int
}

// CursoredBlock is a block ready for the consumer together with its feed cursor.
type CursoredBlock struct {
	Block  model.BlockWithTriggers
	Cursor string
}

// NextBlocks is the result of one reconciliation step.
type NextBlocks struct {
	Kind NextKind

	// Set for NextBlocksReady. Blocks are ascending and RangeSize is the number of
	// block numbers the step covered.
	Blocks    []CursoredBlock
	RangeSize int

	// Set for NextRevert.
	Reverted model.BlockPointer
	Parent   model.BlockPointer
	Cursor   string
}

func Blocks(blocks []CursoredBlock, rangeSize int) NextBlocks {
	return NextBlocks{Kind: NextBlocksReady, Blocks: blocks, RangeSize: rangeSize}
}

func Done() NextBlocks {
	return NextBlocks{Kind: NextDone}
}

func Revert(reverted, parent model.BlockPointer, cursor string) NextBlocks {
	return NextBlocks{Kind: NextRevert, Reverted: reverted, Parent: parent, Cursor: cursor}
}
