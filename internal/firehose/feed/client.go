// Package feed implements the client side of a firehose block stream.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	pbfirehose "github.com/streamingfast/pbgo/sf/firehose/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc/metadata"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultRecvTimeout    = 5 * time.Minute
)

var (
	// ErrTimeout is returned when connecting or waiting for the next message takes too long.
	ErrTimeout = errors.New("feed timeout")
	// ErrEmptyBlock is returned for a response without a block payload.
	ErrEmptyBlock = errors.New("feed response without block")
)

// Request describes one stream. StartBlockNum -1 resumes from StartCursor; StopBlockNum 0 follows the head.
type Request struct {
	StartBlockNum int64
	StopBlockNum  uint64
	StartCursor   string
	ForkSteps     []model.ForkStep
}

// Client opens block streams. It never retries; reconnecting is up to the caller.
type Client struct {
	client         StreamClient
	metrics        Metrics
	logger         *zap.Logger
	apiToken       string
	connectTimeout time.Duration
	recvTimeout    time.Duration
}

// NewClient wraps a generated stream client.
func NewClient(client StreamClient, metrics Metrics, logger *zap.Logger, opts ...Option) (*Client, error) {
	if client == nil {
		return nil, errors.New("stream client is required")
	}
	if metrics == nil {
		return nil, errors.New("feed metrics is required")
	}
	c := &Client{
		client:         client,
		metrics:        metrics,
		logger:         logger.Named("feed"),
		connectTimeout: defaultConnectTimeout,
		recvTimeout:    defaultRecvTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Option configures a Client.
type Option func(*Client)

// WithAPIToken sends the token as a bearer authorization header.
func WithAPIToken(token string) Option {
	return func(c *Client) { c.apiToken = token }
}

// WithTimeouts bounds stream establishment and the wait for each message. A non-positive
// value keeps the default bound.
func WithTimeouts(connect, recv time.Duration) Option {
	return func(c *Client) {
		if connect > 0 {
			c.connectTimeout = connect
		}
		if recv > 0 {
			c.recvTimeout = recv
		}
	}
}

// BlockStream yields envelopes of one open stream.
type BlockStream interface {
	Recv() (model.BlockEnvelope, error)
	Close()
}

// Stream opens a block stream. The returned stream must be closed by the caller.
func (c *Client) Stream(ctx context.Context, req Request) (s BlockStream, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("connect", err, started)
	}()

	steps, err := toProtoSteps(req.ForkSteps)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	if c.apiToken != "" {
		streamCtx = metadata.AppendToOutgoingContext(streamCtx, "authorization", "Bearer "+c.apiToken)
	}

	timedOut := &atomic.Bool{}
	stopWatchdog := watchdog(c.connectTimeout, cancel, timedOut)
	blocks, err := c.client.Blocks(streamCtx, &pbfirehose.Request{
		StartBlockNum: req.StartBlockNum,
		StopBlockNum:  req.StopBlockNum,
		StartCursor:   req.StartCursor,
		ForkSteps:     steps,
	})
	stopWatchdog()
	if err != nil {
		cancel()
		if timedOut.Load() {
			err = fmt.Errorf("%w: connect after %s", ErrTimeout, c.connectTimeout)
		}
		return nil, fmt.Errorf("open block stream: %w", err)
	}

	c.logger.Debug("block stream opened",
		zap.Int64("start_block", req.StartBlockNum),
		zap.Uint64("stop_block", req.StopBlockNum),
		zap.Bool("has_cursor", req.StartCursor != ""),
	)

	return &Stream{
		blocks:      blocks,
		cancel:      cancel,
		metrics:     c.metrics,
		recvTimeout: c.recvTimeout,
	}, nil
}

// Stream is one open block stream.
type Stream struct {
	blocks      pbfirehose.Stream_BlocksClient
	cancel      context.CancelFunc
	metrics     Metrics
	recvTimeout time.Duration
}

// Recv returns the next envelope, or io.EOF once the server closes the stream.
func (s *Stream) Recv() (model.BlockEnvelope, error) {
	started := time.Now()
	timedOut := &atomic.Bool{}
	stopWatchdog := watchdog(s.recvTimeout, s.cancel, timedOut)
	resp, err := s.blocks.Recv()
	stopWatchdog()

	if errors.Is(err, io.EOF) {
		return model.BlockEnvelope{}, io.EOF
	}
	if err != nil {
		if timedOut.Load() {
			err = fmt.Errorf("%w: no message within %s", ErrTimeout, s.recvTimeout)
		}
		s.metrics.Observe("recv", err, started)
		return model.BlockEnvelope{}, fmt.Errorf("receive block: %w", err)
	}

	env, err := toEnvelope(resp)
	s.metrics.Observe("recv", err, started)
	return env, err
}

// Close releases the underlying RPC.
func (s *Stream) Close() {
	s.cancel()
}

func watchdog(timeout time.Duration, cancel context.CancelFunc, fired *atomic.Bool) func() {
	if timeout <= 0 {
		return func() {}
	}
	timer := time.AfterFunc(timeout, func() {
		fired.Store(true)
		cancel()
	})
	return func() { timer.Stop() }
}

func toEnvelope(resp *pbfirehose.Response) (model.BlockEnvelope, error) {
	if resp.GetBlock() == nil {
		return model.BlockEnvelope{}, ErrEmptyBlock
	}
	return model.BlockEnvelope{
		Step:    fromProtoStep(resp.GetStep()),
		Cursor:  resp.GetCursor(),
		Payload: resp.GetBlock().GetValue(),
	}, nil
}

func fromProtoStep(step pbfirehose.ForkStep) model.ForkStep {
	switch step {
	case pbfirehose.ForkStep_STEP_NEW:
		return model.StepNew
	case pbfirehose.ForkStep_STEP_UNDO:
		return model.StepUndo
	case pbfirehose.ForkStep_STEP_IRREVERSIBLE:
		return model.StepIrreversible
	default:
		return model.StepUnknown
	}
}

func toProtoSteps(steps []model.ForkStep) ([]pbfirehose.ForkStep, error) {
	out := make([]pbfirehose.ForkStep, 0, len(steps))
	for _, step := range steps {
		switch step {
		case model.StepNew:
			out = append(out, pbfirehose.ForkStep_STEP_NEW)
		case model.StepUndo:
			out = append(out, pbfirehose.ForkStep_STEP_UNDO)
		case model.StepIrreversible:
			out = append(out, pbfirehose.ForkStep_STEP_IRREVERSIBLE)
		default:
			return nil, fmt.Errorf("unsupported fork step %s", step)
		}
	}
	return out, nil
}
