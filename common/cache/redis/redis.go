package redis

import (
	"context"
	"encoding"
	"errors"
	"time"

	"dsjobs/common/cache"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	opts   cache.Options
}

func New(opts cache.Options) *Cache {
	defaults := cache.DefaultOptions()
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = defaults.DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	return &Cache{client: client, opts: opts}
}

func (c *Cache) key(k string) (string, error) {
	if k == "" {
		return "", cache.ErrInvalidKey
	}
	return c.opts.KeyPrefix + k, nil
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	k, err := c.key(key)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = c.opts.DefaultTTL
	}
	return c.client.Set(ctx, k, value, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, key string, value interface{}) error {
	k, err := c.key(key)
	if err != nil {
		return err
	}
	val, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return cache.ErrNotFound
	}
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case *string:
		*v = string(val)
	case *[]byte:
		*v = val
	case encoding.BinaryUnmarshaler:
		return v.UnmarshalBinary(val)
	default:
		return cache.ErrInvalidValue
	}

	return nil
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	k, err := c.key(key)
	if err != nil {
		return false, err
	}
	n, err := c.client.Exists(ctx, k).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	k, err := c.key(key)
	if err != nil {
		return err
	}
	return c.client.Del(ctx, k).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
