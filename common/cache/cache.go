package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
	ErrInvalidKey   = errors.New("invalid cache key")
)

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Get(ctx context.Context, key string, value interface{}) error

	Exists(ctx context.Context, key string) (bool, error)

	Delete(ctx context.Context, key string) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	RedisAddr string

	RedisPassword string

	RedisDB int

	// KeyPrefix namespaces every key so several pipelines can share one database.
	KeyPrefix string
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL: 24 * time.Hour,
		KeyPrefix:  "dsjobs:",
	}
}
