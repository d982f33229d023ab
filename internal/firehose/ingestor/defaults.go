package ingestor

import "time"

const (
	loopLive     = "live"
	loopBackfill = "backfill"

	defaultAncestorCount int32 = 50

	backoffFloor   = 250 * time.Millisecond
	backoffCeiling = 30 * time.Second

	backfillIdleDelay     = 10 * time.Second
	backfillBatchSize     = 500
	backfillFlushInterval = time.Second
	backfillFlushRPS      = 100
	notifyTimeout         = 5 * time.Second
)
