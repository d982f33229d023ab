package ethereum

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/chain"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

// ErrUnexpectedBlock is returned for blocks not produced by Decoder.
var ErrUnexpectedBlock = errors.New("unexpected block type")

// TriggersAdapter extracts transaction and block triggers for a set of data sources.
// Addresses compare case-insensitively.
type TriggersAdapter struct {
	filter  chain.TriggerFilter
	matcher chain.Matcher
}

func NewTriggersAdapter(sources []chain.DataSource) (*TriggersAdapter, error) {
	if len(sources) == 0 {
		return nil, errors.New("at least one data source is required")
	}
	return &TriggersAdapter{
		filter:  chain.NewTriggerFilter(sources, strings.ToLower),
		matcher: chain.NewMatcher(sources, strings.ToLower),
	}, nil
}

// TriggersInBlock returns transaction triggers in block order, followed by the block trigger.
// Contract creations have no recipient and never match.
func (a *TriggersAdapter) TriggersInBlock(ctx context.Context, block model.Block) ([]model.Trigger, error) {
	b, ok := block.(*Block)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedBlock, block)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var triggers []model.Trigger
	for i, tx := range b.Transactions() {
		to := tx.To()
		if to == nil || !a.filter.WantsAddress(to.Hex()) {
			continue
		}
		triggers = append(triggers, TransactionTrigger{
			Block:   b.Ptr(),
			TxHash:  tx.Hash(),
			TxIndex: i,
			To:      *to,
			Value:   tx.Value(),
		})
	}
	if a.filter.WantsBlocks() {
		triggers = append(triggers, BlockTrigger{Block: b.Ptr()})
	}

	return a.matcher.Filter(triggers, b.Number()), nil
}
