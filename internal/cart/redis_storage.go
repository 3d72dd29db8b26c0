package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/llatelier/storefront/pkg/redis"
)

// RedisStorage keeps each cart as one JSON blob under a namespaced key, the
// closest analog of the browser's localStorage entry the original UI used.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStorage{client: client, ttl: ttl}, nil
}

func (s *RedisStorage) Load(ctx context.Context, cartID string) ([]LineItem, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(cartID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart snapshot: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return items, nil
}

func (s *RedisStorage) Save(ctx context.Context, cartID string, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(cartID), string(encoded), s.ttl); err != nil {
		return fmt.Errorf("saving cart snapshot: %w", err)
	}
	return nil
}
