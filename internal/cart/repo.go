package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/blackboxinc/storefront-backend/pkg/redis"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(shopperID string) string
}

// RedisRepository persists one JSON cart record per shopper under the cart
// key prefix, refreshed with the configured TTL on every save.
type RedisRepository struct {
	kv  kvStore
	ttl time.Duration
}

// NewRedisRepository builds the Redis-backed persistence port.
func NewRedisRepository(kv kvStore, ttl time.Duration) (*RedisRepository, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisRepository{kv: kv, ttl: ttl}, nil
}

// Load rehydrates the shopper's cart. A missing key is an empty cart;
// unreadable payloads surface as errors so the store can degrade.
func (r *RedisRepository) Load(ctx context.Context, shopperID string) (State, error) {
	raw, err := r.kv.Get(ctx, r.kv.CartKey(shopperID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return State{Lines: []Line{}}, nil
		}
		return State{}, fmt.Errorf("load cart: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, fmt.Errorf("decode cart record: %w", err)
	}
	if state.Lines == nil {
		state.Lines = []Line{}
	}
	return state, nil
}

// Save serializes the full state and writes it synchronously.
func (r *RedisRepository) Save(ctx context.Context, shopperID string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode cart record: %w", err)
	}
	if err := r.kv.Set(ctx, r.kv.CartKey(shopperID), string(payload), r.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
