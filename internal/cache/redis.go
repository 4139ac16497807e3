// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jason-s-yu/throneroom/internal/config"
	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client and verifies it with a PING.
func Connect(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RecordPublisher pushes match records onto the historian queue.
type RecordPublisher struct {
	rdb   redis.Cmdable
	queue string
}

// NewRecordPublisher returns a publisher writing to queue.
func NewRecordPublisher(rdb redis.Cmdable, queue string) *RecordPublisher {
	return &RecordPublisher{rdb: rdb, queue: queue}
}

// PublishGameRecord serializes rec to JSON and RPUSHes it to the queue.
// It does not block beyond the network round trip.
func (p *RecordPublisher) PublishGameRecord(ctx context.Context, rec models.GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal GameRecord: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}
