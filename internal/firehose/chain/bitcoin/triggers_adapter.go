package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/chain"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// ErrUnexpectedBlock is returned for blocks not produced by Decoder.
var ErrUnexpectedBlock = errors.New("unexpected block type")

// TriggersAdapter extracts output-address and block triggers for a set of data sources.
type TriggersAdapter struct {
	scripts *scriptDecoder
	filter  chain.TriggerFilter
	matcher chain.Matcher
}

func NewTriggersAdapter(network string, sources []chain.DataSource) (*TriggersAdapter, error) {
	if len(sources) == 0 {
		return nil, errors.New("at least one data source is required")
	}
	scripts, err := newScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	return &TriggersAdapter{
		scripts: scripts,
		filter:  chain.NewTriggerFilter(sources, nil),
		matcher: chain.NewMatcher(sources, nil),
	}, nil
}

// TriggersInBlock returns output triggers in transaction and output order, followed by the
// block trigger.
func (a *TriggersAdapter) TriggersInBlock(ctx context.Context, block model.Block) ([]model.Trigger, error) {
	b, ok := block.(*Block)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedBlock, block)
	}

	var triggers []model.Trigger
	for i, tx := range b.Txs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, vout := range tx.Vout {
			addrs, err := a.scripts.decodeAddresses(vout)
			if err != nil {
				return nil, fmt.Errorf("decode output %s:%d: %w", tx.Txid, vout.N, err)
			}
			for _, addr := range addrs {
				if !a.filter.WantsAddress(addr) {
					continue
				}
				value, err := BtcToSatoshis(vout.Value)
				if err != nil {
					return nil, fmt.Errorf("output %s:%d value: %w", tx.Txid, vout.N, err)
				}
				triggers = append(triggers, OutputTrigger{
					Block:   b.Ptr(),
					TxID:    tx.Txid,
					TxIndex: i,
					Vout:    vout.N,
					Addr:    addr,
					Value:   value,
				})
			}
		}
	}
	if a.filter.WantsBlocks() {
		triggers = append(triggers, BlockTrigger{Block: b.Ptr()})
	}

	return a.matcher.Filter(triggers, b.Number()), nil
}
