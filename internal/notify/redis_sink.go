package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes notifications on a per-user Redis channel.
type RedisSink struct {
	client *redis.Client
	prefix string
}

func NewRedisSink(client *redis.Client, prefix string) *RedisSink {
	return &RedisSink{client: client, prefix: prefix}
}

func (s *RedisSink) Name() string {
	return "redis"
}

// Channel returns the channel notifications for userID are published on.
func (s *RedisSink) Channel(userID uint64) string {
	return fmt.Sprintf("%s:user:%d", s.prefix, userID)
}

func (s *RedisSink) Deliver(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	return s.client.Publish(ctx, s.Channel(n.UserID), payload).Err()
}
