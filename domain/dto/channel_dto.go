package dto

import "time"

// ChannelImportRequest is the body of POST /channels/import
type ChannelImportRequest struct {
	ChannelURLOrID string `json:"channelUrlOrId"`
}

type ChannelResponse struct {
	ID               int64      `json:"id"`
	YouTubeChannelID string     `json:"youtubeChannelId"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	PublishedAt      *time.Time `json:"publishedAt"`
	SubscriberCount  int64      `json:"subscriberCount"`
	VideoCount       int64      `json:"videoCount"`
	ViewCount        int64      `json:"viewCount"`
}

type SummaryResponse struct {
	TotalViews    int64     `json:"totalViews"`
	TotalVideos   int64     `json:"totalVideos"`
	LastFetchedAt time.Time `json:"lastFetchedAt"`
}

// ChannelImportResponse is shared by import and channel detail.
type ChannelImportResponse struct {
	Channel ChannelResponse `json:"channel"`
	Summary SummaryResponse `json:"summary"`
}

// ChannelListQuery holds GET /channels query parameters.
type ChannelListQuery struct {
	Q      string `form:"q" url:"q,omitempty"`
	Limit  string `form:"limit" url:"limit,omitempty"`
	Offset string `form:"offset" url:"offset,omitempty"`
}

// ChannelListFilter is the validated form of ChannelListQuery.
type ChannelListFilter struct {
	Q      string
	Limit  int
	Offset int
}

type ChannelListItem struct {
	ID               int64  `json:"id"`
	YouTubeChannelID string `json:"youtubeChannelId"`
	Title            string `json:"title"`
	SubscriberCount  int64  `json:"subscriberCount"`
	ViewCount        int64  `json:"viewCount"`
	VideoCount       int64  `json:"videoCount"`
}

type ChannelListResponse struct {
	Items      []ChannelListItem `json:"items"`
	TotalCount int64             `json:"totalCount"`
}
