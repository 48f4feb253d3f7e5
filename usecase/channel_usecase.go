package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"yt-insights/domain/apperror"
	"yt-insights/domain/dto"
	"yt-insights/domain/repository"
)

// IChannelUseCase serves stored channels and their videos.
type IChannelUseCase interface {
	ListChannels(ctx context.Context, query dto.ChannelListQuery) (*dto.ChannelListResponse, error)
	GetChannelDetail(ctx context.Context, id int64) (*dto.ChannelImportResponse, error)
	ListChannelVideos(ctx context.Context, id int64, query dto.VideoListQuery) (*dto.VideoListResponse, error)
}

type ChannelUseCase struct {
	channels repository.IChannel
	videos   repository.IVideo
	limiter  IRateLimiter
	log      *logrus.Logger
}

func NewChannelUseCase(channels repository.IChannel, videos repository.IVideo, limiter IRateLimiter, log *logrus.Logger) *ChannelUseCase {
	return &ChannelUseCase{channels: channels, videos: videos, limiter: limiter, log: log}
}

func (u *ChannelUseCase) ListChannels(ctx context.Context, query dto.ChannelListQuery) (*dto.ChannelListResponse, error) {
	limit, offset, err := parsePagination(query.Limit, query.Offset)
	if err != nil {
		return nil, err
	}
	filter := dto.ChannelListFilter{Q: strings.TrimSpace(query.Q), Limit: limit, Offset: offset}
	channels, total, err := u.channels.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list channels", err)
	}

	res := &dto.ChannelListResponse{Items: make([]dto.ChannelListItem, 0, len(channels)), TotalCount: total}
	for _, c := range channels {
		res.Items = append(res.Items, toChannelListItem(c))
	}
	return res, nil
}

// GetChannelDetail returns the channel with totals over the latest snapshots.
func (u *ChannelUseCase) GetChannelDetail(ctx context.Context, id int64) (*dto.ChannelImportResponse, error) {
	channel, err := u.channels.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to load channel", err)
	}
	if channel == nil {
		return nil, apperror.NotFound(fmt.Sprintf("channel %d not found", id))
	}
	summary, err := u.channels.Summary(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to load channel summary", err)
	}

	lastFetchedAt := channel.UpdatedAt
	if u.limiter != nil {
		if t, ok := u.limiter.LastFetchedAt(ctx, channel.YouTubeChannelID); ok {
			lastFetchedAt = t
		}
	}
	return toChannelImportResponse(channel, summary.TotalViews, summary.TotalVideos, lastFetchedAt), nil
}

func (u *ChannelUseCase) ListChannelVideos(ctx context.Context, id int64, query dto.VideoListQuery) (*dto.VideoListResponse, error) {
	filter, err := videoFilter(query)
	if err != nil {
		return nil, err
	}
	channel, err := u.channels.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to load channel", err)
	}
	if channel == nil {
		return nil, apperror.NotFound(fmt.Sprintf("channel %d not found", id))
	}

	videos, total, err := u.videos.ListByChannel(ctx, id, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list videos", err)
	}
	res := &dto.VideoListResponse{Items: make([]dto.VideoListItem, 0, len(videos)), TotalCount: total}
	for _, v := range videos {
		res.Items = append(res.Items, toVideoListItem(v))
	}
	return res, nil
}

var videoSorts = map[string]bool{
	dto.SortViewsDesc:    true,
	dto.SortViewsAsc:     true,
	dto.SortLikesDesc:    true,
	dto.SortCommentsDesc: true,
	dto.SortDateDesc:     true,
	dto.SortDateAsc:      true,
}

func videoFilter(query dto.VideoListQuery) (dto.VideoListFilter, error) {
	limit, offset, err := parsePagination(query.Limit, query.Offset)
	if err != nil {
		return dto.VideoListFilter{}, err
	}
	filter := dto.VideoListFilter{Sort: dto.SortDateDesc, Limit: limit, Offset: offset}
	if sort := strings.TrimSpace(query.Sort); videoSorts[sort] {
		filter.Sort = sort
	}
	if filter.From, err = parseDate("from", query.From); err != nil {
		return dto.VideoListFilter{}, err
	}
	if filter.To, err = parseDate("to", query.To); err != nil {
		return dto.VideoListFilter{}, err
	}
	if strings.TrimSpace(query.MinViews) != "" {
		minViews, err := parseInt("minViews", query.MinViews, 0)
		if err != nil {
			return dto.VideoListFilter{}, err
		}
		v := int64(minViews)
		filter.MinViews = &v
	}
	return filter, nil
}
