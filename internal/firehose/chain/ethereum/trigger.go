package ethereum

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// TransactionTrigger fires for a transaction sent to a watched address.
type TransactionTrigger struct {
	Block   model.BlockPointer
	TxHash  common.Hash
	TxIndex int
	To      common.Address
	Value   *big.Int
}

func (t TransactionTrigger) BlockLevel() bool { return false }
func (t TransactionTrigger) Address() string  { return t.To.Hex() }

func (t TransactionTrigger) ErrorContext() string {
	return fmt.Sprintf("transaction %s to %s in block %s", t.TxHash.Hex(), t.To.Hex(), t.Block)
}

// BlockTrigger fires once per block for sources with a block handler.
type BlockTrigger struct {
	Block model.BlockPointer
}

func (t BlockTrigger) BlockLevel() bool { return true }

func (t BlockTrigger) ErrorContext() string {
	return "block " + t.Block.String()
}
