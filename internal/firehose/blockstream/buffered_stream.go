package blockstream

import (
	"context"
	"errors"
	"sync"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	"go.uber.org/zap"
)

// bufferSize is the number of events produced ahead of the consumer.
const bufferSize = 4

// ErrStreamClosed is returned by BufferedStream.Next after Close.
var ErrStreamClosed = errors.New("block stream closed")

type streamResult struct {
	event model.Event
	err   error
}

// BufferedStream polls a source EventStream on a background goroutine, started on the
// first Next, and keeps at most bufferSize events ready for the consumer.
type BufferedStream struct {
	logger *zap.Logger
	source EventStream

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	events chan streamResult
	done   chan struct{}
}

// NewBufferedStream wraps source. Canceling ctx or calling Close stops the producer.
func NewBufferedStream(ctx context.Context, source EventStream, logger *zap.Logger) *BufferedStream {
	ctx, cancel := context.WithCancel(ctx)
	return &BufferedStream{
		logger: logger.Named("bufferedStream"),
		source: source,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan streamResult, bufferSize),
		done:   make(chan struct{}),
	}
}

// Next returns the next buffered event, waiting for the producer if the buffer is empty.
// Events still buffered when the stream is closed are dropped.
func (b *BufferedStream) Next(ctx context.Context) (model.Event, error) {
	b.once.Do(b.start)
	if b.ctx.Err() != nil {
		return model.Event{}, ErrStreamClosed
	}

	select {
	case <-ctx.Done():
		return model.Event{}, ctx.Err()
	case res, ok := <-b.events:
		if !ok {
			return model.Event{}, ErrStreamClosed
		}
		return res.event, res.err
	}
}

// Close stops the producer and waits for it to exit.
func (b *BufferedStream) Close() {
	b.cancel()
	b.once.Do(func() {
		close(b.events)
		close(b.done)
	})
	<-b.done
}

func (b *BufferedStream) start() {
	go func() {
		defer close(b.done)
		defer close(b.events)

		for {
			event, err := b.source.Next(b.ctx)
			if b.ctx.Err() != nil {
				b.logger.Debug("consumer gone, stopping producer")
				return
			}

			select {
			case b.events <- streamResult{event: event, err: err}:
			case <-b.ctx.Done():
				return
			}
		}
	}()
}
