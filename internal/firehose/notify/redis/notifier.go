// Package redis publishes chain head updates over redis pub/sub and turns a subscription
// into the wake-up channel the reconciliation idle state waits on.
//
// Pub/sub delivery is best effort: a consumer that misses a message catches up on its
// next poll.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/firehose/model"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "blockinsight7000:chain_head:"

// ChannelFor returns the pub/sub channel carrying head updates of chain.
func ChannelFor(chain model.Chain) string {
	return channelPrefix + string(chain)
}

type headMessage struct {
	Number    int64  `json:"number"`
	Hash      string `json:"hash"`
	Timestamp int64  `json:"timestamp"`
}

type Notifier struct {
	client  Client
	metrics Metrics
	logger  *zap.Logger
}

// Dial connects to the redis server at url, e.g. "redis://localhost:6379/0".
func Dial(ctx context.Context, url string, metrics Metrics, logger *zap.Logger) (*Notifier, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewNotifier(universalClient{client: client}, metrics, logger)
}

func NewNotifier(client Client, metrics Metrics, logger *zap.Logger) (*Notifier, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if metrics == nil {
		return nil, errors.New("redis metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		client:  client,
		metrics: metrics,
		logger:  logger.Named("head_notifier"),
	}, nil
}

func (n *Notifier) Close() error {
	return n.client.Close()
}

// NotifyChainHead publishes head on the channel of chain.
func (n *Notifier) NotifyChainHead(ctx context.Context, chain model.Chain, head model.ChainHead) (err error) {
	start := time.Now()
	defer func() {
		n.metrics.Observe("publish", err, start)
	}()

	payload, err := json.Marshal(headMessage{
		Number:    head.Pointer.Number,
		Hash:      head.Pointer.HashHex(),
		Timestamp: head.Timestamp.Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode chain head: %w", err)
	}
	if err = n.client.Publish(ctx, ChannelFor(chain), payload); err != nil {
		return fmt.Errorf("publish chain head: %w", err)
	}
	return nil
}

// Subscribe returns a channel that receives a value after one or more head updates of
// chain. Updates arriving while a value is pending are coalesced. The channel is closed
// when ctx is done or the subscription drops.
func (n *Notifier) Subscribe(ctx context.Context, chain model.Chain) (_ <-chan struct{}, err error) {
	start := time.Now()
	defer func() {
		n.metrics.Observe("subscribe", err, start)
	}()

	sub, err := n.client.Subscribe(ctx, ChannelFor(chain))
	if err != nil {
		return nil, fmt.Errorf("subscribe chain head: %w", err)
	}

	updates := make(chan struct{}, 1)
	go n.forward(ctx, sub, updates, n.logger.With(zap.String("chain", string(chain))))
	return updates, nil
}

func (n *Notifier) forward(ctx context.Context, sub Subscription, updates chan<- struct{}, logger *zap.Logger) {
	defer close(updates)
	defer func() {
		if err := sub.Close(); err != nil {
			logger.Warn("close head subscription", zap.Error(err))
		}
	}()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				logger.Warn("head subscription dropped")
				return
			}
			var head headMessage
			if err := json.Unmarshal([]byte(msg.Payload), &head); err != nil {
				logger.Warn("malformed head update", zap.Error(err))
			} else {
				logger.Debug("head update", zap.Int64("number", head.Number), zap.String("hash", head.Hash))
			}
			select {
			case updates <- struct{}{}:
			default:
			}
		}
	}
}
