package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	likeCountKeyPrefix = "like:cnt:post"
	likeCountTTL       = 24 * time.Hour
)

// LikeCache caches per-post like counts in Redis. The cache is strictly an
// accelerator for the count endpoint: PostgreSQL stays the source of truth and
// a cold or failed cache falls back to a database count. A nil *LikeCache is
// valid and disables caching.
type LikeCache struct {
	client *redis.Client
}

// NewLikeCache creates a new LikeCache around an existing Redis client
func NewLikeCache(client *redis.Client) *LikeCache {
	return &LikeCache{client: client}
}

func likeCountKey(postID string) string {
	return fmt.Sprintf("%s:%s", likeCountKeyPrefix, postID)
}

// GetLikesCount returns the cached count for a post, or found=false on a miss
func (c *LikeCache) GetLikesCount(ctx context.Context, postID string) (count int64, found bool) {
	if c == nil {
		return 0, false
	}
	n, err := c.client.Get(ctx, likeCountKey(postID)).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetLikesCount seeds the cached count after a database read
func (c *LikeCache) SetLikesCount(ctx context.Context, postID string, count int64) {
	if c == nil {
		return
	}
	c.client.Set(ctx, likeCountKey(postID), count, likeCountTTL)
}

// IncrLikesCount adjusts the cached count after a successful like/unlike
// write. A missing key is left missing; the next read rebuilds it from the
// database.
func (c *LikeCache) IncrLikesCount(ctx context.Context, postID string, delta int64) {
	if c == nil {
		return
	}
	key := likeCountKey(postID)
	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	c.client.IncrBy(ctx, key, delta)
}

// InvalidateLikesCount drops the cached count for a post
func (c *LikeCache) InvalidateLikesCount(ctx context.Context, postID string) {
	if c == nil {
		return
	}
	c.client.Del(ctx, likeCountKey(postID))
}
