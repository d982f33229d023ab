package ingestor

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"go.uber.org/zap"
)

const testChain model.Chain = "test-chain"

type testBlock struct {
	ptr    model.BlockPointer
	parent *model.BlockPointer
}

func newTestBlock(number int64) testBlock {
	b := testBlock{ptr: model.BlockPointer{Hash: []byte{0xaa, byte(number)}, Number: number}}
	if number > 0 {
		b.parent = &model.BlockPointer{Hash: []byte{0xaa, byte(number - 1)}, Number: number - 1}
	}
	return b
}

func (b testBlock) Ptr() model.BlockPointer        { return b.ptr }
func (b testBlock) ParentPtr() *model.BlockPointer { return b.parent }
func (b testBlock) Number() int64                  { return b.ptr.Number }
func (b testBlock) Timestamp() time.Time           { return time.Unix(1_700_000_000+b.ptr.Number, 0).UTC() }
func (b testBlock) Data() []byte                   { return payloadOf(b.ptr.Number) }

func payloadOf(number int64) []byte {
	return []byte{0xbb, byte(number)}
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestIngestor(store ChainStore, f Feed, decoder Decoder, notifier HeadNotifier, metrics Metrics, sleep func(context.Context, time.Duration) error) *Ingestor {
	return &Ingestor{
		logger:                zap.NewNop(),
		chain:                 testChain,
		store:                 store,
		feed:                  f,
		decoder:               decoder,
		notifier:              notifier,
		metrics:               metrics,
		sleep:                 sleep,
		newBackoff:            defaultBackoff,
		ancestorCount:         defaultAncestorCount,
		backfillIdleDelay:     time.Second,
		backfillBatchSize:     100,
		backfillFlushInterval: time.Hour,
	}
}
