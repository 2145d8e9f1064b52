package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"sonmez-voice-agent/internal/config"
)

const redisKeyPrefix = "session:"

// RedisStore keeps session history in Redis lists, one list per session.
// It survives process restarts, which the in-memory store does not.
type RedisStore struct {
	client   *redis.Client
	maxTurns int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, maxTurns int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{client: rdb, maxTurns: maxTurns}, nil
}

// History reads the full session list and decodes each turn.
func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	raw, err := s.client.LRange(ctx, redisKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}

	turns := make([]Turn, 0, len(raw))
	for _, item := range raw {
		var t Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("failed to decode turn in session %s: %w", sessionID, err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Append pushes the turns and trims the list in a single pipeline, so the
// pair lands as one unit and the cap is enforced atomically.
func (s *RedisStore) Append(ctx context.Context, sessionID string, turns ...Turn) error {
	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
		values = append(values, data)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, redisKeyPrefix+sessionID, values...)
	if s.maxTurns > 0 {
		pipe.LTrim(ctx, redisKeyPrefix+sessionID, int64(-s.maxTurns), -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to session %s: %w", sessionID, err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
