// Package registry resolves the decoder and triggers adapter of a chain family.
package registry

import (
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/blockstream"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/chain"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/chain/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/chain/ethereum"
)

const (
	FamilyBitcoin  = "bitcoin"
	FamilyEthereum = "ethereum"
)

// Families lists the supported values, for flag choices.
var Families = []string{FamilyBitcoin, FamilyEthereum}

func Decoder(family string) (blockstream.Decoder, error) {
	switch family {
	case FamilyBitcoin:
		return bitcoin.NewDecoder(), nil
	case FamilyEthereum:
		return ethereum.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported chain family %q", family)
	}
}

// TriggersAdapter builds the adapter matching sources. network is only used by bitcoin,
// to derive output addresses.
func TriggersAdapter(family, network string, sources []chain.DataSource) (blockstream.TriggersAdapter, error) {
	switch family {
	case FamilyBitcoin:
		adapter, err := bitcoin.NewTriggersAdapter(network, sources)
		if err != nil {
			return nil, fmt.Errorf("bitcoin triggers adapter: %w", err)
		}
		return adapter, nil
	case FamilyEthereum:
		adapter, err := ethereum.NewTriggersAdapter(sources)
		if err != nil {
			return nil, fmt.Errorf("ethereum triggers adapter: %w", err)
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("unsupported chain family %q", family)
	}
}
