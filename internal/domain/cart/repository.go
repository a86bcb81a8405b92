// internal/domain/cart/repository.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Repository persists carts by key. Implementations are injected into the
// Store so tests can substitute an in-memory fake.
type Repository interface {
	// Load returns the persisted cart for key, or (nil, nil) when absent
	Load(ctx context.Context, key string) (*Cart, error)
	Save(ctx context.Context, key string, c *Cart) error
	Delete(ctx context.Context, key string) error
}

// RedisRepository stores carts as JSON blobs in Redis with an expiration
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed cart repository
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisRepository) redisKey(key string) string {
	return fmt.Sprintf("cart:%s", key)
}

// Load retrieves a cart from Redis
func (r *RedisRepository) Load(ctx context.Context, key string) (*Cart, error) {
	data, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", key, err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", key, err)
	}

	// Unknown schema versions are discarded rather than migrated
	if c.SchemaVersion != SchemaVersion {
		return nil, nil
	}

	return &c, nil
}

// Save stores a cart in Redis with the configured expiration
func (r *RedisRepository) Save(ctx context.Context, key string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", key, err)
	}

	if err := r.client.Set(ctx, r.redisKey(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", key, err)
	}

	return nil
}

// Delete removes a cart from Redis
func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", key, err)
	}
	return nil
}

// MemoryRepository is an in-memory cart repository used by tests and as a
// degraded fallback when Redis is unavailable. Carts round-trip through
// JSON so persistence bugs surface the same way they would against Redis.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryRepository creates an in-memory cart repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[string][]byte),
	}
}

// Load retrieves a cart from memory
func (r *MemoryRepository) Load(ctx context.Context, key string) (*Cart, error) {
	r.mu.RLock()
	data, ok := r.carts[key]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", key, err)
	}

	if c.SchemaVersion != SchemaVersion {
		return nil, nil
	}

	return &c, nil
}

// Save stores a cart in memory
func (r *MemoryRepository) Save(ctx context.Context, key string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", key, err)
	}

	r.mu.Lock()
	r.carts[key] = data
	r.mu.Unlock()

	return nil
}

// Delete removes a cart from memory
func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.carts, key)
	r.mu.Unlock()
	return nil
}
