package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

type universalClient struct {
	client goredis.UniversalClient
}

func (c universalClient) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.client.Publish(ctx, channel, payload).Err()
}

// Subscribe waits for the subscription confirmation so that a missing server is reported
// to the caller instead of being retried silently in the background.
func (c universalClient) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	ps := c.client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}
	return ps, nil
}

func (c universalClient) Close() error {
	return c.client.Close()
}
