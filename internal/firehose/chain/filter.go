package chain

import "github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"

// AddressTrigger is a trigger tied to one address, such as a transaction recipient.
type AddressTrigger interface {
	model.Trigger
	Address() string
}

// NormalizeFunc maps an address to the form it is compared in.
type NormalizeFunc func(string) string

func identity(s string) string { return s }

// TriggerFilter is the union of what all data sources of a deployment want. Adapters use it
// to skip work before the per-source matcher runs.
type TriggerFilter struct {
	normalize    NormalizeFunc
	addresses    map[string]struct{}
	blockHandler bool
}

// NewTriggerFilter builds the filter for sources. A nil normalize compares addresses as is.
func NewTriggerFilter(sources []DataSource, normalize NormalizeFunc) TriggerFilter {
	if normalize == nil {
		normalize = identity
	}
	f := TriggerFilter{normalize: normalize, addresses: make(map[string]struct{})}
	for _, s := range sources {
		f.blockHandler = f.blockHandler || s.BlockHandler
		for _, addr := range s.Addresses {
			f.addresses[normalize(addr)] = struct{}{}
		}
	}
	return f
}

func (f TriggerFilter) WantsAddress(addr string) bool {
	_, ok := f.addresses[f.normalize(addr)]
	return ok
}

func (f TriggerFilter) WantsBlocks() bool {
	return f.blockHandler
}
