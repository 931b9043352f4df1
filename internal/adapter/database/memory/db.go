package memory

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"pricelist/internal/core/port"
)

const (
	defaultExpiration = 5 * time.Minute
	cleanupInterval   = 10 * time.Minute
)

// memoryRepository keeps listing pages in process. Used when no Redis address
// is configured.
type memoryRepository struct {
	cache *cache.Cache
}

func NewMemoryRepository() port.CacheRepository {
	return &memoryRepository{cache: cache.New(defaultExpiration, cleanupInterval)}
}

func (c *memoryRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}

	c.cache.Set(key, value, ttl)

	return nil
}

func (c *memoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.cache.Get(key)

	if !found {
		return nil, port.ErrCacheMiss
	}

	data, ok := value.([]byte)

	if !ok {
		c.cache.Delete(key)
		return nil, port.ErrCacheMiss
	}

	return data, nil
}

func (c *memoryRepository) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

func (c *memoryRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}

	return nil
}

func (c *memoryRepository) Close() error {
	c.cache.Flush()
	return nil
}
