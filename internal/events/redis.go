package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisPublisher is the subset of the go-redis client RedisPublisher needs.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes each notification as a JSON message on the
// channel "<prefix><name>".
type RedisPublisher struct {
	client redisPublisher
	prefix string
}

// NewRedisPublisher wraps an existing go-redis client.
//
// Precondition: client must not be nil.
func NewRedisPublisher(client redis.UniversalClient, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the pub/sub channel name for notification name.
func (r *RedisPublisher) Channel(name string) string {
	return r.prefix + name
}

// Publish encodes payload as JSON and publishes it.
//
// Postcondition: returns a non-nil error if encoding or the PUBLISH command fails.
func (r *RedisPublisher) Publish(ctx context.Context, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", name, err)
	}
	if err := r.client.Publish(ctx, r.Channel(name), data).Err(); err != nil {
		return fmt.Errorf("publishing %s: %w", name, err)
	}
	return nil
}
