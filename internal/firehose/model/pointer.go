// Package model holds the chain-agnostic types shared by the ingestion and reconciliation layers.
package model

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Chain identifies an indexed chain, e.g. "bitcoin-mainnet".
type Chain string

// BlockPointer identifies a block by hash; equal numbers with different hashes denote a fork.
type BlockPointer struct {
	Hash   []byte
	Number int64
}

// NewBlockPointer copies hash so the pointer stays immutable.
func NewBlockPointer(hash []byte, number int64) BlockPointer {
	return BlockPointer{Hash: bytes.Clone(hash), Number: number}
}

// BlockPointerFromHex decodes a hex hash, with or without a 0x prefix.
func BlockPointerFromHex(hash string, number int64) (BlockPointer, error) {
	if len(hash) >= 2 && (hash[:2] == "0x" || hash[:2] == "0X") {
		hash = hash[2:]
	}
	raw, err := hex.DecodeString(hash)
	if err != nil {
		return BlockPointer{}, fmt.Errorf("decode block hash %q: %w", hash, err)
	}
	return BlockPointer{Hash: raw, Number: number}, nil
}

func (p BlockPointer) HashHex() string {
	return hex.EncodeToString(p.Hash)
}

func (p BlockPointer) Equal(other BlockPointer) bool {
	return p.Number == other.Number && bytes.Equal(p.Hash, other.Hash)
}

func (p BlockPointer) String() string {
	return fmt.Sprintf("#%d (%s)", p.Number, p.HashHex())
}

type pointerJSON struct {
	Number int64  `json:"number"`
	Hash   string `json:"hash"`
}

// MarshalJSON encodes the hash as hex.
func (p BlockPointer) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointerJSON{Number: p.Number, Hash: p.HashHex()})
}

func (p *BlockPointer) UnmarshalJSON(data []byte) error {
	var raw pointerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ptr, err := BlockPointerFromHex(raw.Hash, raw.Number)
	if err != nil {
		return err
	}
	*p = ptr
	return nil
}
