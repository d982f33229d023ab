package clickhouse

import (
	"reflect"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
)

const testChain model.Chain = "bitcoin-testnet"

// assign copies values into the Scan destinations in order.
func assign(values ...any) func(dest ...any) {
	return func(dest ...any) {
		for i, v := range values {
			reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
		}
	}
}

func hashOf(number int64, fork byte) []byte {
	h := make([]byte, 32)
	h[0] = fork
	h[30] = byte(number >> 8)
	h[31] = byte(number)
	return h
}

func newRecord(number int64, fork, parentFork byte, ts time.Time) model.BlockRecord {
	record := model.BlockRecord{
		Pointer:   model.BlockPointer{Hash: hashOf(number, fork), Number: number},
		Timestamp: ts,
		Payload:   []byte{0xde, 0xad, byte(number)},
		Cursor:    "cursor-" + model.BlockPointer{Hash: hashOf(number, fork)}.HashHex()[:8],
	}
	if number > 0 {
		record.Parent = &model.BlockPointer{Hash: hashOf(number-1, parentFork), Number: number - 1}
	}
	return record
}
