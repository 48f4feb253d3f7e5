package model

import (
	"strings"
	"time"
)

// VideoStats are engagement counters observed at one instant.
type VideoStats struct {
	ViewCount    int64 `json:"view_count"`
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
}

// Video is a channel upload. Stats holds either the freshly fetched counters
// or, when read back from the store, the latest snapshot with NULLs as zero.
type Video struct {
	ID             int64      `json:"id"`
	ChannelID      int64      `json:"channel_id"`
	YouTubeVideoID string     `json:"youtube_video_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	PublishedAt    time.Time  `json:"published_at"`
	DurationSec    *int64     `json:"duration_sec,omitempty"`
	Tags           []string   `json:"tags"`
	ThumbnailURL   string     `json:"thumbnail_url"`
	Stats          VideoStats `json:"stats"`
}

// StatsSnapshot is one row of video_stats_history.
type StatsSnapshot struct {
	ID           int64     `json:"id"`
	VideoID      int64     `json:"video_id"`
	CapturedAt   time.Time `json:"captured_at"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    *int64    `json:"like_count,omitempty"`
	CommentCount *int64    `json:"comment_count,omitempty"`
}

// SnapshotPoint is a history row joined with its video, used by analytics.
type SnapshotPoint struct {
	VideoID        int64      `json:"video_id"`
	YouTubeVideoID string     `json:"youtube_video_id"`
	Title          string     `json:"title"`
	PublishedAt    time.Time  `json:"published_at"`
	CapturedAt     time.Time  `json:"captured_at"`
	Stats          VideoStats `json:"stats"`
}

// DaysSincePublish is the UTC calendar-day distance between publish and capture.
func (p SnapshotPoint) DaysSincePublish() int {
	return CalendarDaysBetween(p.PublishedAt, p.CapturedAt)
}

// CalendarDaysBetween counts UTC date boundaries from a to b.
func CalendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ThumbnailFallback is the hqdefault image every public video has.
func ThumbnailFallback(youtubeVideoID string) string {
	return "https://i.ytimg.com/vi/" + strings.TrimSpace(youtubeVideoID) + "/hqdefault.jpg"
}
