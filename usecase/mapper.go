package usecase

import (
	"time"

	"yt-insights/domain/dto"
	"yt-insights/domain/model"
)

func toChannelResponse(c *model.Channel) dto.ChannelResponse {
	return dto.ChannelResponse{
		ID:               c.ID,
		YouTubeChannelID: c.YouTubeChannelID,
		Title:            c.Title,
		Description:      c.Description,
		PublishedAt:      c.PublishedAt,
		SubscriberCount:  c.SubscriberCount,
		VideoCount:       c.VideoCount,
		ViewCount:        c.ViewCount,
	}
}

func toChannelImportResponse(c *model.Channel, totalViews, totalVideos int64, lastFetchedAt time.Time) *dto.ChannelImportResponse {
	return &dto.ChannelImportResponse{
		Channel: toChannelResponse(c),
		Summary: dto.SummaryResponse{
			TotalViews:    totalViews,
			TotalVideos:   totalVideos,
			LastFetchedAt: lastFetchedAt.UTC(),
		},
	}
}

func toChannelListItem(c model.Channel) dto.ChannelListItem {
	return dto.ChannelListItem{
		ID:               c.ID,
		YouTubeChannelID: c.YouTubeChannelID,
		Title:            c.Title,
		SubscriberCount:  c.SubscriberCount,
		ViewCount:        c.ViewCount,
		VideoCount:       c.VideoCount,
	}
}

func toVideoListItem(v model.Video) dto.VideoListItem {
	thumbnail := v.ThumbnailURL
	if thumbnail == "" {
		thumbnail = model.ThumbnailFallback(v.YouTubeVideoID)
	}
	return dto.VideoListItem{
		ID:             v.ID,
		YouTubeVideoID: v.YouTubeVideoID,
		Title:          v.Title,
		ThumbnailURL:   thumbnail,
		PublishedAt:    v.PublishedAt,
		DurationSec:    v.DurationSec,
		LatestStats: dto.VideoStats{
			ViewCount:    v.Stats.ViewCount,
			LikeCount:    v.Stats.LikeCount,
			CommentCount: v.Stats.CommentCount,
		},
	}
}
