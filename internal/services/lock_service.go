package services

import (
	"context"
	"fmt"
	"time"

	"serendibgo/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderLocker serializes assignment attempts per provider. Holding the
// lock for the duration of Assign is what makes the availability check and
// the commit read the same snapshot.
type ProviderLocker interface {
	// Lock acquires the provider's lock, retrying briefly, and returns a
	// release function. utils.ErrLockNotAcquired when it stays contended.
	Lock(ctx context.Context, providerID primitive.ObjectID) (release func(), err error)
}

type redisProviderLocker struct {
	cache CacheService
	ttl   time.Duration
}

// NewProviderLocker builds a locker on the cache's SetNX. The TTL bounds how
// long a crashed holder can block other requests.
func NewProviderLocker(cache CacheService) ProviderLocker {
	return &redisProviderLocker{
		cache: cache,
		ttl:   utils.AssignmentLockTTL,
	}
}

func (l *redisProviderLocker) Lock(ctx context.Context, providerID primitive.ObjectID) (func(), error) {
	key := fmt.Sprintf("assign_lock_%s", providerID.Hex())
	token := utils.GenerateRandomString(16)

	for attempt := 0; attempt <= utils.AssignmentLockRetries; attempt++ {
		ok, err := l.cache.SetNX(ctx, key, token, l.ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire provider lock: %w", err)
		}
		if ok {
			release := func() {
				// Only delete our own lock; an expired lock may have been
				// re-acquired by someone else.
				var current string
				if err := l.cache.Get(context.Background(), key, &current); err == nil && current == token {
					l.cache.Delete(context.Background(), key)
				}
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(utils.AssignmentLockRetryWait):
		}
	}

	return nil, utils.ErrLockNotAcquired
}
