package cache

import (
	"context"
	"testing"
	"time"

	"yt-insights/domain/model"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelUpdateCache_NilClient(t *testing.T) {
	c := NewChannelUpdateCache(nil, 10*time.Minute)
	ctx := context.Background()

	entry, err := c.Get(ctx, "UC1")
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, c.Put(ctx, model.RateLimitEntry{YouTubeChannelID: "UC1", LastFetchedAt: 1}))
	assert.Error(t, c.Ping(ctx))
}

func TestChannelUpdateCache_UnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	c := NewChannelUpdateCache(rdb, time.Minute)

	_, err := c.Get(context.Background(), "UC1")
	assert.Error(t, err)
	assert.Error(t, c.Put(context.Background(), model.RateLimitEntry{YouTubeChannelID: "UC1"}))
}

func TestEntryFromHash(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		want    *model.RateLimitEntry
		wantErr bool
	}{
		{name: "empty reply", fields: map[string]string{}, want: nil},
		{
			name:   "timestamp only",
			fields: map[string]string{"last_fetched_at": "1700000000000"},
			want:   &model.RateLimitEntry{YouTubeChannelID: "UC1", LastFetchedAt: 1700000000000},
		},
		{
			name:   "with etag",
			fields: map[string]string{"last_fetched_at": "5", "etag": "abc"},
			want:   &model.RateLimitEntry{YouTubeChannelID: "UC1", LastFetchedAt: 5, ETag: strPtr("abc")},
		},
		{name: "corrupt timestamp", fields: map[string]string{"last_fetched_at": "soon"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entryFromHash("UC1", tt.fields)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChannelUpdateKey(t *testing.T) {
	assert.Equal(t, "channel_update_cache:UCxyz", channelUpdateKey("UCxyz"))
}

func strPtr(s string) *string { return &s }
