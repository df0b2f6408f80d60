package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/viahme/viah/pkg/constant"
)

// CacheRepo holds short-lived redis state: unread badge totals and OAuth states
type CacheRepo struct {
	rdb      *redis.Client
	badgeTTL time.Duration
}

// NewCacheRepo creates a new CacheRepo
func NewCacheRepo(rdb *redis.Client, badgeTTL time.Duration) *CacheRepo {
	return &CacheRepo{rdb: rdb, badgeTTL: badgeTTL}
}

// GetUnreadBadge returns the cached unread total and whether it was present
func (r *CacheRepo) GetUnreadBadge(ctx context.Context, userId string) (int64, bool, error) {
	n, err := r.rdb.Get(ctx, fmt.Sprintf(constant.RedisKeyUnreadBadge(), userId)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// SetUnreadBadge caches the unread total for the badge TTL
func (r *CacheRepo) SetUnreadBadge(ctx context.Context, userId string, total int64) error {
	return r.rdb.Set(ctx, fmt.Sprintf(constant.RedisKeyUnreadBadge(), userId), total, r.badgeTTL).Err()
}

// InvalidateUnreadBadge drops the cached totals of the given users
func (r *CacheRepo) InvalidateUnreadBadge(ctx context.Context, userIds ...string) error {
	if len(userIds) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIds))
	for _, id := range userIds {
		keys = append(keys, fmt.Sprintf(constant.RedisKeyUnreadBadge(), id))
	}
	return r.rdb.Del(ctx, keys...).Err()
}

// SaveOAuthState stores a calendar OAuth state bound to userId
func (r *CacheRepo) SaveOAuthState(ctx context.Context, state, userId string, ttl time.Duration) error {
	return r.rdb.Set(ctx, fmt.Sprintf(constant.RedisKeyOAuthState(), state), userId, ttl).Err()
}

// ConsumeOAuthState returns and deletes the user bound to state, "" when unknown or expired
func (r *CacheRepo) ConsumeOAuthState(ctx context.Context, state string) (string, error) {
	userId, err := r.rdb.GetDel(ctx, fmt.Sprintf(constant.RedisKeyOAuthState(), state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return userId, err
}
