package bitcoin

import (
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// OutputTrigger fires for a transaction output paying a watched address.
type OutputTrigger struct {
	Block   model.BlockPointer
	TxID    string
	TxIndex int
	Vout    uint32
	Addr    string
	Value   uint64
}

func (t OutputTrigger) BlockLevel() bool { return false }
func (t OutputTrigger) Address() string  { return t.Addr }

func (t OutputTrigger) ErrorContext() string {
	return fmt.Sprintf("output %s:%d to %s in block %s", t.TxID, t.Vout, t.Addr, t.Block)
}

// BlockTrigger fires once per block for sources with a block handler.
type BlockTrigger struct {
	Block model.BlockPointer
}

func (t BlockTrigger) BlockLevel() bool { return true }

func (t BlockTrigger) ErrorContext() string {
	return "block " + t.Block.String()
}
