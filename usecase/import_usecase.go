package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"yt-insights/domain/apperror"
	"yt-insights/domain/dto"
	"yt-insights/domain/model"
	"yt-insights/domain/repository"
	"yt-insights/infrastructure/metrics"
)

// IImportUseCase imports a channel and all of its uploads.
type IImportUseCase interface {
	Import(ctx context.Context, channelURLOrID string) (*dto.ChannelImportResponse, error)
}

type ImportUseCase struct {
	youtube  repository.IYouTube
	channels repository.IChannel
	limiter  IRateLimiter
	events   repository.IImportEvents
	metrics  *metrics.Metrics
	log      *logrus.Logger
	now      func() time.Time
}

// NewImportUseCase wires the import flow. events may be nil.
func NewImportUseCase(
	youtube repository.IYouTube,
	channels repository.IChannel,
	limiter IRateLimiter,
	events repository.IImportEvents,
	m *metrics.Metrics,
	log *logrus.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		youtube:  youtube,
		channels: channels,
		limiter:  limiter,
		events:   events,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

func (u *ImportUseCase) Import(ctx context.Context, channelURLOrID string) (*dto.ChannelImportResponse, error) {
	input := strings.TrimSpace(channelURLOrID)
	if input == "" {
		return nil, apperror.Validation("channelUrlOrId is required")
	}

	youtubeChannelID, err := u.resolveChannelID(ctx, input)
	if err != nil {
		return nil, err
	}
	logger := u.log.WithField("youtubeChannelId", youtubeChannelID)

	if !u.limiter.ShouldFetch(ctx, youtubeChannelID) {
		logger.Info("Rate limit check: using cached data")
		res, err := u.cached(ctx, youtubeChannelID)
		if err != nil {
			u.metrics.ObserveImport(metrics.OutcomeFailed, 0)
			return nil, err
		}
		u.metrics.ObserveImport(metrics.OutcomeCached, 0)
		return res, nil
	}

	logger.Info("Fetching channel data from YouTube API")
	res, err := u.fetch(ctx, youtubeChannelID)
	if err != nil {
		u.metrics.ObserveImport(metrics.OutcomeFailed, 0)
		return nil, err
	}
	u.metrics.ObserveImport(metrics.OutcomeFetched, int(res.Summary.TotalVideos))
	logger.WithFields(logrus.Fields{
		"channelId":   res.Channel.ID,
		"totalVideos": res.Summary.TotalVideos,
	}).Info("Channel data imported successfully")
	return res, nil
}

func (u *ImportUseCase) resolveChannelID(ctx context.Context, input string) (string, error) {
	if id, ok := ExtractChannelID(input); ok {
		return id, nil
	}
	handle, ok := ExtractHandle(input)
	if !ok {
		return "", apperror.Validation("failed to extract channel id")
	}
	id, err := u.youtube.ResolveHandle(ctx, handle)
	if err != nil {
		return "", fmt.Errorf("resolve handle %s: %w", handle, err)
	}
	return id, nil
}

// cached serves the stored channel without calling YouTube.
func (u *ImportUseCase) cached(ctx context.Context, youtubeChannelID string) (*dto.ChannelImportResponse, error) {
	channel, err := u.channels.GetByYouTubeID(ctx, youtubeChannelID)
	if err != nil {
		return nil, apperror.Internal("failed to load channel", err)
	}
	if channel == nil {
		return nil, apperror.NotFound("channel not found")
	}
	summary, err := u.channels.Summary(ctx, channel.ID)
	if err != nil {
		return nil, apperror.Internal("failed to load channel summary", err)
	}
	lastFetchedAt, ok := u.limiter.LastFetchedAt(ctx, youtubeChannelID)
	if !ok {
		lastFetchedAt = u.now()
	}
	return toChannelImportResponse(channel, summary.TotalViews, summary.TotalVideos, lastFetchedAt), nil
}

func (u *ImportUseCase) fetch(ctx context.Context, youtubeChannelID string) (*dto.ChannelImportResponse, error) {
	info, err := u.youtube.GetChannelInfo(ctx, youtubeChannelID)
	if err != nil {
		return nil, fmt.Errorf("get channel info: %w", err)
	}
	if info.UploadsPlaylistID == "" {
		return nil, apperror.NotFound("channel has no uploads playlist")
	}

	videoIDs, err := u.youtube.ListAllVideoIDs(ctx, info.UploadsPlaylistID)
	if err != nil {
		return nil, fmt.Errorf("list video ids: %w", err)
	}
	videos, err := u.youtube.GetVideosInfo(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("get videos info: %w", err)
	}

	capturedAt := u.now().UTC()
	channelID, err := u.channels.SaveImport(ctx, &info.Channel, videos, capturedAt)
	if err != nil {
		return nil, apperror.Internal("failed to save channel", err)
	}

	var etag *string
	if info.ETag != "" {
		etag = &info.ETag
	}
	u.limiter.UpdateCache(ctx, youtubeChannelID, etag)

	var totalViews int64
	for _, v := range videos {
		totalViews += v.Stats.ViewCount
	}
	totalVideos := int64(len(videos))
	u.publish(ctx, model.ImportCompletedEvent{
		ChannelID:        channelID,
		YouTubeChannelID: youtubeChannelID,
		TotalVideos:      totalVideos,
		TotalViews:       totalViews,
		CompletedAt:      capturedAt,
	})

	channel, err := u.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, apperror.Internal("failed to load channel", err)
	}
	if channel == nil {
		return nil, apperror.Internal("channel missing after import", fmt.Errorf("channel %d not found", channelID))
	}
	return toChannelImportResponse(channel, totalViews, totalVideos, capturedAt), nil
}

func (u *ImportUseCase) publish(ctx context.Context, event model.ImportCompletedEvent) {
	if u.events == nil {
		return
	}
	if err := u.events.PublishImportCompleted(ctx, event); err != nil {
		u.log.WithFields(logrus.Fields{"error": err, "channelId": event.ChannelID}).
			Warn("Failed to publish import event")
	}
}
