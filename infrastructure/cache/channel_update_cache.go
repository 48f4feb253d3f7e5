package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"yt-insights/domain/model"

	"github.com/redis/go-redis/v9"
)

const (
	channelUpdateKeyPrefix = "channel_update_cache:"
	fieldLastFetchedAt     = "last_fetched_at"
	fieldETag              = "etag"
)

// ChannelUpdateCache keeps one hash per channel. A nil client makes every
// operation a no-op so fetching stays allowed.
type ChannelUpdateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewChannelUpdateCache creates the store; entries expire after ttl (0 keeps them forever).
func NewChannelUpdateCache(rdb *redis.Client, ttl time.Duration) *ChannelUpdateCache {
	return &ChannelUpdateCache{rdb: rdb, ttl: ttl}
}

func channelUpdateKey(youtubeChannelID string) string {
	return channelUpdateKeyPrefix + youtubeChannelID
}

func (c *ChannelUpdateCache) Get(ctx context.Context, youtubeChannelID string) (*model.RateLimitEntry, error) {
	if c.rdb == nil {
		return nil, nil
	}
	fields, err := c.rdb.HGetAll(ctx, channelUpdateKey(youtubeChannelID)).Result()
	if err != nil {
		return nil, err
	}
	return entryFromHash(youtubeChannelID, fields)
}

func (c *ChannelUpdateCache) Put(ctx context.Context, entry model.RateLimitEntry) error {
	if c.rdb == nil {
		return nil
	}
	key := channelUpdateKey(entry.YouTubeChannelID)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		values := []any{fieldLastFetchedAt, strconv.FormatInt(entry.LastFetchedAt, 10)}
		if entry.ETag != nil {
			values = append(values, fieldETag, *entry.ETag)
		}
		pipe.HSet(ctx, key, values...)
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	return err
}

func (c *ChannelUpdateCache) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return errors.New("redis rate-limit store not configured")
	}
	return c.rdb.Ping(ctx).Err()
}

// entryFromHash decodes an HGETALL reply; an empty reply means no entry.
func entryFromHash(youtubeChannelID string, fields map[string]string) (*model.RateLimitEntry, error) {
	raw, ok := fields[fieldLastFetchedAt]
	if !ok {
		return nil, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	entry := &model.RateLimitEntry{YouTubeChannelID: youtubeChannelID, LastFetchedAt: ms}
	if etag, ok := fields[fieldETag]; ok {
		entry.ETag = &etag
	}
	return entry, nil
}
