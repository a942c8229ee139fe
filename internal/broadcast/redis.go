package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const recentKey = "placements:recent"

// Redis publishes placement events on a Redis channel for SSE gateways and
// keeps a capped most-recent-first list for the ticker.
type Redis struct {
	rdb *redis.Client
}

// NewRedis connects to the Redis at url and verifies the connection.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

// PlacementUpdate publishes the event and pushes it onto the rolling window.
func (r *Redis) PlacementUpdate(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if err := r.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, recentKey, payload)
	pipe.LTrim(ctx, recentKey, 0, Window-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns the rolling window, most recent first.
func (r *Redis) Recent(ctx context.Context) ([]Event, error) {
	raw, err := r.rdb.LRange(ctx, recentKey, 0, Window-1).Result()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(raw))
	for _, item := range raw {
		var ev Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Close releases the Redis connection.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
