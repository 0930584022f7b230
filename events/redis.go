package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"supportdesk/models"
)

const DefaultChannel = "supportdesk:events"

// RedisBus publishes envelopes on a Redis pub/sub channel so every API
// instance sharing the Redis server sees every change.
type RedisBus struct {
	rdb     *redis.Client
	channel string
}

func NewRedisBus(rdb *redis.Client, channel string) *RedisBus {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBus{rdb: rdb, channel: channel}
}

// DialRedis parses url, connects and pings.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (b *RedisBus) Publish(ctx context.Context, env models.EventEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, string(data)).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe waits until Redis confirms the subscription before returning, so
// events published afterwards are not missed.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan models.EventEnvelope, func(), error) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	msgs := pubsub.Channel()
	out := make(chan models.EventEnvelope, subscriberBuffer)
	go func() {
		defer close(out)
		for msg := range msgs {
			var env models.EventEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("Failed to unmarshal event: %v", err)
				continue
			}
			select {
			case out <- env:
			default:
				log.Printf("Dropping %s event for slow subscriber", env.Type)
			}
		}
	}()

	return out, func() { _ = pubsub.Close() }, nil
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}
