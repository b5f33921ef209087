package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snackwise/backend/internal/domain"
)

const keyPrefix = "session:"

// RedisStore keeps session histories in Redis lists. RPUSH makes appends
// atomic, so concurrent requests for the same session id cannot interleave
// turns. Each append refreshes the key's TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// Append pushes a turn onto the session list and refreshes its TTL.
func (r *RedisStore) Append(ctx context.Context, sessionID string, turn domain.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("encode turn: %w", err)
	}

	key := keyPrefix + sessionID
	if err := r.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			return fmt.Errorf("refresh session ttl: %w", err)
		}
	}
	return nil
}

// History returns the session's ordered turns, or ErrSessionNotFound when
// the key is absent or expired.
func (r *RedisStore) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	items, err := r.client.LRange(ctx, keyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	turns := make([]domain.Turn, 0, len(items))
	for _, item := range items {
		var turn domain.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
