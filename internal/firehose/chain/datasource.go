// Package chain holds the chain-agnostic part of trigger matching: data sources, the
// filter built from them and the matcher deciding which source handles a trigger.
package chain

import (
	"fmt"
	"strconv"
	"strings"
)

// DataSource describes the blocks and addresses one deployment source handles.
type DataSource struct {
	Name       string
	StartBlock int64
	// Addresses is matched against address triggers. Empty means no address handler.
	Addresses []string
	// BlockHandler is set when the source wants one block-level trigger per block.
	BlockHandler bool
}

// UnmarshalFlag parses name:start_block[:address,...][:block] so sources can be passed
// as repeated command line options.
func (s *DataSource) UnmarshalFlag(value string) error {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 4 || parts[0] == "" {
		return fmt.Errorf("invalid data source %q, want name:start_block[:addresses][:block]", value)
	}

	start, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || start < 0 {
		return fmt.Errorf("invalid start block in data source %q", value)
	}

	parsed := DataSource{Name: parts[0], StartBlock: start}
	for _, part := range parts[2:] {
		if part == "block" {
			parsed.BlockHandler = true
			continue
		}
		for _, addr := range strings.Split(part, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				parsed.Addresses = append(parsed.Addresses, addr)
			}
		}
	}
	if !parsed.BlockHandler && len(parsed.Addresses) == 0 {
		return fmt.Errorf("data source %q has no handlers", parsed.Name)
	}

	*s = parsed
	return nil
}

// MinStartBlock is the first block any of sources needs, 0 without sources.
func MinStartBlock(sources []DataSource) int64 {
	if len(sources) == 0 {
		return 0
	}
	lowest := sources[0].StartBlock
	for _, s := range sources[1:] {
		if s.StartBlock < lowest {
			lowest = s.StartBlock
		}
	}
	return lowest
}
