package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pricelist/internal/core/port"
)

const scanBatch = 100

type Options struct {
	Addr     string
	Password string
	DB       int
}

type cacheRepository struct {
	client *redis.Client
}

// NewCacheRepository connects to Redis and fails fast when the server is not
// reachable.
func NewCacheRepository(ctx context.Context, opts Options) (port.CacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	return &cacheRepository{client: client}, nil
}

func NewCacheRepositoryFromClient(client *redis.Client) port.CacheRepository {
	return &cacheRepository{client: client}
}

func (c *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, port.ErrCacheMiss
	}

	if err != nil {
		return nil, err
	}

	return data, nil
}

func (c *cacheRepository) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeleteByPrefix walks the keyspace with SCAN so a large cache never blocks
// the server the way KEYS would.
func (c *cacheRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()

		if err != nil {
			return fmt.Errorf("scan %s*: %w", prefix, err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete %s*: %w", prefix, err)
			}
		}

		if next == 0 {
			return nil
		}

		cursor = next
	}
}

func (c *cacheRepository) Close() error {
	return c.client.Close()
}
