package dto

import "time"

// Video list sort orders.
const (
	SortViewsDesc    = "views_desc"
	SortViewsAsc     = "views_asc"
	SortLikesDesc    = "likes_desc"
	SortCommentsDesc = "comments_desc"
	SortDateDesc     = "date_desc"
	SortDateAsc      = "date_asc"
)

// VideoListQuery holds GET /channels/:id/videos query parameters.
type VideoListQuery struct {
	Sort     string `form:"sort" url:"sort,omitempty"`
	Limit    string `form:"limit" url:"limit,omitempty"`
	Offset   string `form:"offset" url:"offset,omitempty"`
	From     string `form:"from" url:"from,omitempty"`
	To       string `form:"to" url:"to,omitempty"`
	MinViews string `form:"minViews" url:"minViews,omitempty"`
}

// VideoListFilter is the validated form of VideoListQuery. From and To are
// inclusive publish dates (UTC midnight).
type VideoListFilter struct {
	Sort     string
	Limit    int
	Offset   int
	From     *time.Time
	To       *time.Time
	MinViews *int64
}

type VideoStats struct {
	ViewCount    int64 `json:"viewCount"`
	LikeCount    int64 `json:"likeCount"`
	CommentCount int64 `json:"commentCount"`
}

type VideoListItem struct {
	ID             int64      `json:"id"`
	YouTubeVideoID string     `json:"youtubeVideoId"`
	Title          string     `json:"title"`
	ThumbnailURL   string     `json:"thumbnailUrl"`
	PublishedAt    time.Time  `json:"publishedAt"`
	DurationSec    *int64     `json:"durationSec"`
	LatestStats    VideoStats `json:"latestStats"`
}

type VideoListResponse struct {
	Items      []VideoListItem `json:"items"`
	TotalCount int64           `json:"totalCount"`
}
