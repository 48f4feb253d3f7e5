package model

import "time"

// Channel is a YouTube channel as persisted in the channels table.
type Channel struct {
	ID               int64      `json:"id"`
	YouTubeChannelID string     `json:"youtube_channel_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	SubscriberCount  int64      `json:"subscriber_count"`
	VideoCount       int64      `json:"video_count"`
	ViewCount        int64      `json:"view_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ChannelInfo is the channel metadata returned by the external API.
type ChannelInfo struct {
	Channel
	UploadsPlaylistID string `json:"uploads_playlist_id"`
	ETag              string `json:"etag"`
}

// ChannelSummary holds totals computed from the latest stats snapshots.
type ChannelSummary struct {
	TotalViews  int64 `json:"total_views"`
	TotalVideos int64 `json:"total_videos"`
}

// ImportResult is what a completed import persisted.
type ImportResult struct {
	ChannelID   int64 `json:"channel_id"`
	TotalViews  int64 `json:"total_views"`
	TotalVideos int64 `json:"total_videos"`
}
