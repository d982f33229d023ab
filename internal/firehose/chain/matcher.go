package chain

import "github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"

// Matcher decides which data sources handle a trigger.
type Matcher struct {
	normalize NormalizeFunc
	sources   []matchSource
}

type matchSource struct {
	DataSource
	addresses map[string]struct{}
}

func NewMatcher(sources []DataSource, normalize NormalizeFunc) Matcher {
	if normalize == nil {
		normalize = identity
	}
	m := Matcher{normalize: normalize, sources: make([]matchSource, 0, len(sources))}
	for _, s := range sources {
		ms := matchSource{DataSource: s, addresses: make(map[string]struct{}, len(s.Addresses))}
		for _, addr := range s.Addresses {
			ms.addresses[normalize(addr)] = struct{}{}
		}
		m.sources = append(m.sources, ms)
	}
	return m
}

// Handlers returns the names of the sources handling trigger in block number, in source order.
func (m Matcher) Handlers(trigger model.Trigger, number int64) []string {
	var names []string
	for _, s := range m.sources {
		if m.matches(s, trigger, number) {
			names = append(names, s.Name)
		}
	}
	return names
}

// Filter keeps the triggers at least one source handles, preserving their order.
func (m Matcher) Filter(triggers []model.Trigger, number int64) []model.Trigger {
	kept := triggers[:0]
	for _, t := range triggers {
		for _, s := range m.sources {
			if m.matches(s, t, number) {
				kept = append(kept, t)
				break
			}
		}
	}
	return kept
}

func (m Matcher) matches(s matchSource, trigger model.Trigger, number int64) bool {
	if number < s.StartBlock {
		return false
	}
	if trigger.BlockLevel() {
		return s.BlockHandler
	}
	addressed, ok := trigger.(AddressTrigger)
	if !ok {
		return false
	}
	_, ok = s.addresses[m.normalize(addressed.Address())]
	return ok
}
