package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fortuna/danglers/internal/notify"
	"github.com/redis/go-redis/v9"
)

// DefaultStream is the stream notifications are appended to
const DefaultStream = "danglers.notifications"

// RedisStreamPublisher publishes notifications to a Redis stream
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: 1000,
	}
}

// Stream returns the target stream name
func (p *RedisStreamPublisher) Stream() string {
	return p.stream
}

// Send appends n to the stream as JSON. The stream is trimmed to roughly maxLen entries.
func (p *RedisStreamPublisher) Send(ctx context.Context, n notify.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"kind":      string(n.Kind),
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", p.stream, err)
	}
	return nil
}
