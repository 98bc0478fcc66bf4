package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisProgressPublisher stores the latest progress snapshot per run under
// progress:run:<id> with a TTL, so dashboards can poll without touching the
// database.
type RedisProgressPublisher struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProgressPublisher(client *redis.Client, ttl time.Duration) *RedisProgressPublisher {
	return &RedisProgressPublisher{client: client, ttl: ttl}
}

func (p *RedisProgressPublisher) Publish(ctx context.Context, runID uuid.UUID, progress Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	key := fmt.Sprintf("progress:run:%s", runID)
	if err := p.client.Set(ctx, key, data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store progress: %w", err)
	}
	return nil
}
