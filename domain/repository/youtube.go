package repository

import (
	"context"

	"yt-insights/domain/model"
)

// IYouTube defines the read-only YouTube Data API operations used by imports
type IYouTube interface {
	// GetChannelInfo returns channel metadata; apperror.NotFound when no item comes back.
	GetChannelInfo(ctx context.Context, channelID string) (*model.ChannelInfo, error)
	// ResolveHandle maps an @handle to its channel id.
	ResolveHandle(ctx context.Context, handle string) (string, error)
	// ListAllVideoIDs drains the uploads playlist until no continuation token remains.
	ListAllVideoIDs(ctx context.Context, uploadsPlaylistID string) ([]string, error)
	// GetVideosInfo fetches videos in batches; any failed batch fails the call.
	GetVideosInfo(ctx context.Context, videoIDs []string) ([]model.Video, error)
}
