package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Client is the subset of the redis client the notifier uses.
	Client interface {
		Publish(ctx context.Context, channel string, payload []byte) error
		Subscribe(ctx context.Context, channel string) (Subscription, error)
		Close() error
	}

	// Subscription is satisfied by *goredis.PubSub.
	Subscription interface {
		Channel(opts ...goredis.ChannelOption) <-chan *goredis.Message
		Close() error
	}
)
