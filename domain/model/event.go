package model

import "time"

// ImportCompletedEvent is published after a channel import is persisted.
type ImportCompletedEvent struct {
	ChannelID        int64     `json:"channelId"`
	YouTubeChannelID string    `json:"youtubeChannelId"`
	TotalVideos      int64     `json:"totalVideos"`
	TotalViews       int64     `json:"totalViews"`
	CompletedAt      time.Time `json:"completedAt"`
}
