package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/go-redis/redis/v8"
)

const DefaultTaskTTL = 30 * time.Second

// TaskCache memoizes chef task pages by query key.
type TaskCache interface {
	Get(ctx context.Context, key string) ([]orders.Payload, bool, error)
	Set(ctx context.Context, key string, tasks []orders.Payload) error
}

type memoryEntry struct {
	tasks   []orders.Payload
	expires time.Time
}

type MemoryTaskCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryTaskCache(ttl time.Duration) *MemoryTaskCache {
	if ttl <= 0 {
		ttl = DefaultTaskTTL
	}
	return &MemoryTaskCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryTaskCache) Get(_ context.Context, key string) ([]orders.Payload, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.tasks, true, nil
}

func (c *MemoryTaskCache) Set(_ context.Context, key string, tasks []orders.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{tasks: tasks, expires: c.now().Add(c.ttl)}
	return nil
}

// RedisTaskCache shares memoized task pages between desk instances.
type RedisTaskCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisTaskCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisTaskCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisTaskCacheWithClient(rdb, ttl), nil
}

func NewRedisTaskCacheWithClient(rdb *redis.Client, ttl time.Duration) *RedisTaskCache {
	if ttl <= 0 {
		ttl = DefaultTaskTTL
	}
	return &RedisTaskCache{rdb: rdb, prefix: "orderdesk:tasks:", ttl: ttl}
}

func (c *RedisTaskCache) Get(ctx context.Context, key string) ([]orders.Payload, bool, error) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get tasks: %w", err)
	}

	var tasks []orders.Payload
	if err := json.Unmarshal([]byte(data), &tasks); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal tasks: %w", err)
	}
	return tasks, true, nil
}

func (c *RedisTaskCache) Set(ctx context.Context, key string, tasks []orders.Payload) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	if err := c.rdb.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set tasks: %w", err)
	}
	return nil
}

func (c *RedisTaskCache) Close() error {
	return c.rdb.Close()
}
