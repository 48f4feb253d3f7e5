package model

import "time"

// RateLimitEntry records the last time a channel was fetched from YouTube.
type RateLimitEntry struct {
	YouTubeChannelID string  `json:"youtube_channel_id" bson:"_id"`
	LastFetchedAt    int64   `json:"last_fetched_at" bson:"last_fetched_at"`
	ETag             *string `json:"etag,omitempty" bson:"etag,omitempty"`
}

// LastFetchedTime converts the epoch millisecond timestamp.
func (e RateLimitEntry) LastFetchedTime() time.Time {
	return time.UnixMilli(e.LastFetchedAt).UTC()
}
