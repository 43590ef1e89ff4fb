package enrich

import (
	stdctx "context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the TTL response cache consulted before issuing an
// enrichment HTTP call (§4.13).
type Cache interface {
	Get(std stdctx.Context, key string) (value []byte, ok bool)
	Set(std stdctx.Context, key string, value []byte, ttl time.Duration)
}

// MemoryCache is an in-process TTL cache — the default adapter, and
// the one used in tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ stdctx.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) Set(_ stdctx.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expires: time.Now().Add(ttl)}
}

// RedisCache backs the response cache with go-redis, for deployments
// that share cache state across process instances.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(std stdctx.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(std, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(std stdctx.Context, key string, value []byte, ttl time.Duration) {
	c.client.Set(std, c.prefix+key, value, ttl)
}
