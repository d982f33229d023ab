// Package ethereum decodes RLP-encoded Ethereum blocks and extracts transaction triggers.
package ethereum

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/safe"
)

// Block wraps a decoded go-ethereum block together with its raw payload.
type Block struct {
	block     *types.Block
	ptr       model.BlockPointer
	parent    *model.BlockPointer
	timestamp time.Time
	data      []byte
}

func newBlock(block *types.Block, timestamp int64, payload []byte) *Block {
	b := &Block{
		block:     block,
		ptr:       model.BlockPointer{Hash: block.Hash().Bytes(), Number: block.Number().Int64()},
		timestamp: time.Unix(timestamp, 0).UTC(),
		data:      payload,
	}
	if b.ptr.Number > 0 {
		b.parent = &model.BlockPointer{Hash: block.ParentHash().Bytes(), Number: b.ptr.Number - 1}
	}
	return b
}

func (b *Block) Ptr() model.BlockPointer        { return b.ptr }
func (b *Block) ParentPtr() *model.BlockPointer { return b.parent }
func (b *Block) Number() int64                  { return b.ptr.Number }
func (b *Block) Timestamp() time.Time           { return b.timestamp }
func (b *Block) Data() []byte                   { return b.data }

func (b *Block) Transactions() types.Transactions {
	return b.block.Transactions()
}

// Decoder turns feed payloads into Blocks.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Decode(payload []byte) (model.Block, error) {
	var block types.Block
	if err := rlp.DecodeBytes(payload, &block); err != nil {
		return nil, fmt.Errorf("decode rlp block: %w", err)
	}
	if block.Number() == nil || !block.Number().IsInt64() {
		return nil, fmt.Errorf("block number %v out of range", block.Number())
	}
	timestamp, err := safe.Int64(block.Time())
	if err != nil {
		return nil, fmt.Errorf("block %d time: %w", block.Number(), err)
	}
	return newBlock(&block, timestamp, payload), nil
}
