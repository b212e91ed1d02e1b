package services

import (
	"context"
	"time"
)

// CacheService is the cache surface the engine needs: record caching for the
// repositories and SetNX for the per-provider assignment lock. pkg/cache's
// Redis client satisfies it.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	GetTTL(ctx context.Context, key string) (time.Duration, error)
}
