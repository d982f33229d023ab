package feed

import (
	"context"
	"time"

	pbfirehose "github.com/streamingfast/pbgo/sf/firehose/v1"
	"google.golang.org/grpc"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// StreamClient is the generated sf.firehose.v1.Stream client.
	StreamClient interface {
		Blocks(ctx context.Context, in *pbfirehose.Request, opts ...grpc.CallOption) (pbfirehose.Stream_BlocksClient, error)
	}
)
