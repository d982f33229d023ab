package blockstream

import "math"

const (
	minBlockRangeSize = 10
	rangeShrinkFactor = 0.9
	// rangeGrowthLimit caps how much a range may grow compared to the previous one.
	rangeGrowthLimit = 10
)

// ReconciliationContext adapts the requested block range between reconciliation steps.
// It is owned by a single BlockStream.
type ReconciliationContext struct {
	MaxBlockRangeSize        int
	PreviousTriggersPerBlock float64
	PreviousBlockRangeSize   int
	ConsecutiveErrors        int
}

func NewReconciliationContext(maxBlockRangeSize int) ReconciliationContext {
	if maxBlockRangeSize < minBlockRangeSize {
		maxBlockRangeSize = minBlockRangeSize
	}
	return ReconciliationContext{MaxBlockRangeSize: maxBlockRangeSize}
}

// NextRangeSize aims for targetTriggers triggers per step based on the last trigger density.
func (rc *ReconciliationContext) NextRangeSize(targetTriggers int) int {
	upper := rc.MaxBlockRangeSize
	if rc.PreviousBlockRangeSize > 0 && rc.PreviousBlockRangeSize*rangeGrowthLimit < upper {
		upper = rc.PreviousBlockRangeSize * rangeGrowthLimit
	}
	if rc.PreviousTriggersPerBlock <= 0 || targetTriggers <= 0 {
		return upper
	}

	size := int(float64(targetTriggers) / rc.PreviousTriggersPerBlock)
	switch {
	case size < 1:
		return 1
	case size > upper:
		return upper
	default:
		return size
	}
}

// OnBlocks records a successful step. A single failure right before it is blamed on
// the range size, so the maximum shrinks by 10% down to the floor.
func (rc *ReconciliationContext) OnBlocks(blocks []CursoredBlock, rangeSize int) {
	if rc.ConsecutiveErrors == 1 {
		shrunk := int(math.Floor(float64(rc.MaxBlockRangeSize) * rangeShrinkFactor))
		if shrunk < minBlockRangeSize {
			shrunk = minBlockRangeSize
		}
		rc.MaxBlockRangeSize = shrunk
	}
	rc.ConsecutiveErrors = 0

	if rangeSize > 0 {
		rc.PreviousTriggersPerBlock = float64(countTriggers(blocks)) / float64(rangeSize)
	}
	rc.PreviousBlockRangeSize = rangeSize
}

func (rc *ReconciliationContext) OnDone() {
	rc.ConsecutiveErrors = 0
}

func (rc *ReconciliationContext) OnError() {
	rc.ConsecutiveErrors++
}

func countTriggers(blocks []CursoredBlock) int {
	n := 0
	for _, b := range blocks {
		n += len(b.Block.Triggers)
	}
	return n
}
