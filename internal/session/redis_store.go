package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefixSession is the prefix for session hashes
	KeyPrefixSession = "brainlink:session:"
)

// SessionKey returns the Redis key for a session id
func SessionKey(id string) string {
	return KeyPrefixSession + id
}

// RedisStore keeps sessions as Redis hashes with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis backed session store. ttl is refreshed on
// every read; 0 disables expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the token of a session and slides its expiry
func (s *RedisStore) Get(ctx context.Context, id string) (string, error) {
	key := SessionKey(id)

	token, err := s.client.HGet(ctx, key, TokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get session: %w", err)
	}

	if s.ttl > 0 {
		// best effort, a failed refresh only shortens the session
		_ = s.client.Expire(ctx, key, s.ttl).Err()
	}
	return token, nil
}

// Set stores the token of a session
func (s *RedisStore) Set(ctx context.Context, id, token string, ttl time.Duration) error {
	key := SessionKey(id)
	if ttl <= 0 {
		ttl = s.ttl
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, TokenKey, token)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the token of a session
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, SessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
