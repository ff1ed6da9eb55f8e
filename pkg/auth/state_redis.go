package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const statePrefix = "oauth:state:"

// RedisStateStore implements StateStore on Redis with one-time consume
// semantics via GETDEL.
type RedisStateStore struct {
	client redis.UniversalClient
}

func NewRedisStateStore(client redis.UniversalClient) *RedisStateStore {
	return &RedisStateStore{client: client}
}

var _ StateStore = (*RedisStateStore)(nil)

func (s *RedisStateStore) StoreState(ctx context.Context, state, payload string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, statePrefix+state, payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	if !ok {
		// A colliding 256-bit state means something is very wrong.
		return ErrInvalidState
	}
	return nil
}

func (s *RedisStateStore) ConsumeState(ctx context.Context, state string) (string, error) {
	payload, err := s.client.GetDel(ctx, statePrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrStateNotFound
		}
		return "", fmt.Errorf("consume oauth state: %w", err)
	}
	return payload, nil
}
