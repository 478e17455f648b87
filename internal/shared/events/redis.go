package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultChannelPrefix = "insurance.events"

// RedisPublisher publishes events as JSON on a Redis pub/sub channel per
// event kind, e.g. "insurance.events.contract.created".
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: defaultChannelPrefix}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Kind(), err)
	}

	channel := p.prefix + "." + event.Kind()
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Kind(), err)
	}

	return nil
}
