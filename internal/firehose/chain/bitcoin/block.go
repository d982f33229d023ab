// Package bitcoin decodes verbose Bitcoin block payloads and extracts output-address triggers.
package bitcoin

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"github.com/goodnatureofminers/blockinsight7000-indexer/pkg/safe"
)

// Block is a verbose block as returned by getblock with verbosity 2.
type Block struct {
	ptr       model.BlockPointer
	parent    *model.BlockPointer
	timestamp time.Time
	data      []byte

	Txs []btcjson.TxRawResult
}

func (b *Block) Ptr() model.BlockPointer        { return b.ptr }
func (b *Block) ParentPtr() *model.BlockPointer { return b.parent }
func (b *Block) Number() int64                  { return b.ptr.Number }
func (b *Block) Timestamp() time.Time           { return b.timestamp }
func (b *Block) Data() []byte                   { return b.data }

// Decoder turns feed payloads into Blocks.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Decode(payload []byte) (model.Block, error) {
	var src btcjson.GetBlockVerboseTxResult
	if err := json.Unmarshal(payload, &src); err != nil {
		return nil, fmt.Errorf("unmarshal verbose block: %w", err)
	}
	return BuildBlockFromVerbose(src, payload)
}

// BuildBlockFromVerbose maps a btcjson block result into a Block keeping payload as its raw data.
func BuildBlockFromVerbose(src btcjson.GetBlockVerboseTxResult, payload []byte) (*Block, error) {
	if _, err := safe.Uint32(src.Height); err != nil {
		return nil, fmt.Errorf("block height %d overflow: %w", src.Height, err)
	}

	hash, err := hashBytes(src.Hash)
	if err != nil {
		return nil, fmt.Errorf("block %d hash: %w", src.Height, err)
	}

	var parent *model.BlockPointer
	switch {
	case src.PreviousHash != "":
		prev, err := hashBytes(src.PreviousHash)
		if err != nil {
			return nil, fmt.Errorf("block %d previous hash: %w", src.Height, err)
		}
		p := model.BlockPointer{Hash: prev, Number: src.Height - 1}
		parent = &p
	case src.Height != 0:
		return nil, fmt.Errorf("block %d has no previous hash", src.Height)
	}

	return &Block{
		ptr:       model.BlockPointer{Hash: hash, Number: src.Height},
		parent:    parent,
		timestamp: time.Unix(src.Time, 0).UTC(),
		data:      payload,
		Txs:       src.Tx,
	}, nil
}

// hashBytes parses a hash in RPC display order and keeps that byte order, so the
// pointer's hex form matches what explorers show.
func hashBytes(s string) ([]byte, error) {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return nil, err
	}
	b := h.CloneBytes()
	slices.Reverse(b)
	return b, nil
}
