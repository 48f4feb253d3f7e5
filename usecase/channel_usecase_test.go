package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yt-insights/domain/apperror"
	"yt-insights/domain/dto"
	"yt-insights/domain/model"
)

func newChannelFixture() (*ChannelUseCase, *MockChannelRepository, *MockVideoRepository, *MockRateLimitStore) {
	channels := new(MockChannelRepository)
	videos := new(MockVideoRepository)
	store := new(MockRateLimitStore)
	limiter := NewRateLimiter(store, time.Minute, quietLogger(), nil)
	return NewChannelUseCase(channels, videos, limiter, quietLogger()), channels, videos, store
}

func TestChannelUseCase_ListChannels(t *testing.T) {
	uc, channels, _, _ := newChannelFixture()
	channels.On("List", mock.Anything, dto.ChannelListFilter{Q: "go", Limit: 20, Offset: 0}).
		Return([]model.Channel{
			{ID: 2, YouTubeChannelID: "UC2", Title: "Go B", SubscriberCount: 5},
			{ID: 1, YouTubeChannelID: "UC1", Title: "Go A", SubscriberCount: 9},
		}, int64(2), nil).Once()

	res, err := uc.ListChannels(context.Background(), dto.ChannelListQuery{Q: " go "})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(2), res.Items[0].ID)
	assert.Equal(t, "UC1", res.Items[1].YouTubeChannelID)
	channels.AssertExpectations(t)
}

func TestChannelUseCase_ListChannelsMalformedLimit(t *testing.T) {
	uc, channels, _, _ := newChannelFixture()
	_, err := uc.ListChannels(context.Background(), dto.ChannelListQuery{Limit: "abc"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	channels.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestChannelUseCase_ListChannelsStoreError(t *testing.T) {
	uc, channels, _, _ := newChannelFixture()
	channels.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("db down")).Once()
	_, err := uc.ListChannels(context.Background(), dto.ChannelListQuery{})
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestChannelUseCase_GetChannelDetail(t *testing.T) {
	uc, channels, _, store := newChannelFixture()
	updated := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	fetched := time.Date(2024, 4, 2, 8, 30, 0, 0, time.UTC)
	channels.On("GetByID", mock.Anything, int64(7)).
		Return(&model.Channel{ID: 7, YouTubeChannelID: testChannelID, Title: "Gopher Talks", UpdatedAt: updated}, nil).Once()
	channels.On("Summary", mock.Anything, int64(7)).
		Return(&model.ChannelSummary{TotalViews: 12345, TotalVideos: 12}, nil).Once()
	store.On("Get", mock.Anything, testChannelID).
		Return(&model.RateLimitEntry{YouTubeChannelID: testChannelID, LastFetchedAt: fetched.UnixMilli()}, nil).Once()

	res, err := uc.GetChannelDetail(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Gopher Talks", res.Channel.Title)
	assert.Equal(t, int64(12345), res.Summary.TotalViews)
	assert.Equal(t, int64(12), res.Summary.TotalVideos)
	assert.True(t, fetched.Equal(res.Summary.LastFetchedAt))
}

func TestChannelUseCase_GetChannelDetailFallsBackToUpdatedAt(t *testing.T) {
	uc, channels, _, store := newChannelFixture()
	updated := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	channels.On("GetByID", mock.Anything, int64(7)).
		Return(&model.Channel{ID: 7, YouTubeChannelID: testChannelID, UpdatedAt: updated}, nil).Once()
	channels.On("Summary", mock.Anything, int64(7)).Return(&model.ChannelSummary{}, nil).Once()
	store.On("Get", mock.Anything, testChannelID).Return(nil, errors.New("redis down")).Once()

	res, err := uc.GetChannelDetail(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, updated.Equal(res.Summary.LastFetchedAt))
}

func TestChannelUseCase_GetChannelDetailNotFound(t *testing.T) {
	uc, channels, _, _ := newChannelFixture()
	channels.On("GetByID", mock.Anything, int64(99)).Return(nil, nil).Once()

	_, err := uc.GetChannelDetail(context.Background(), 99)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestChannelUseCase_ListChannelVideos(t *testing.T) {
	uc, channels, videos, _ := newChannelFixture()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	minViews := int64(100)
	duration := int64(65)
	published := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

	channels.On("GetByID", mock.Anything, int64(7)).Return(&model.Channel{ID: 7}, nil).Once()
	videos.On("ListByChannel", mock.Anything, int64(7), dto.VideoListFilter{
		Sort: dto.SortViewsDesc, Limit: 10, Offset: 5, From: &from, To: &to, MinViews: &minViews,
	}).Return([]model.Video{
		{ID: 3, YouTubeVideoID: "abc", Title: "with thumb", ThumbnailURL: "https://i.ytimg.com/vi/abc/default.jpg",
			PublishedAt: published, DurationSec: &duration, Stats: model.VideoStats{ViewCount: 900, LikeCount: 9}},
		{ID: 2, YouTubeVideoID: "def", Title: "no thumb", PublishedAt: published},
	}, int64(14), nil).Once()

	res, err := uc.ListChannelVideos(context.Background(), 7, dto.VideoListQuery{
		Sort: "views_desc", Limit: "10", Offset: "5", From: "2024-01-01", To: "2024-01-31", MinViews: "100",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(14), res.TotalCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(900), res.Items[0].LatestStats.ViewCount)
	assert.Equal(t, &duration, res.Items[0].DurationSec)
	assert.Equal(t, "https://i.ytimg.com/vi/def/hqdefault.jpg", res.Items[1].ThumbnailURL)
	assert.Nil(t, res.Items[1].DurationSec)
	videos.AssertExpectations(t)
}

func TestChannelUseCase_ListChannelVideosEmptyChannel(t *testing.T) {
	uc, channels, videos, _ := newChannelFixture()
	channels.On("GetByID", mock.Anything, int64(7)).Return(&model.Channel{ID: 7}, nil).Once()
	videos.On("ListByChannel", mock.Anything, int64(7), dto.VideoListFilter{Sort: dto.SortDateDesc, Limit: 20}).
		Return([]model.Video{}, int64(0), nil).Once()

	res, err := uc.ListChannelVideos(context.Background(), 7, dto.VideoListQuery{Sort: "random"})
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(0), res.TotalCount)
}

func TestChannelUseCase_ListChannelVideosUnknownChannel(t *testing.T) {
	uc, channels, videos, _ := newChannelFixture()
	channels.On("GetByID", mock.Anything, int64(8)).Return(nil, nil).Once()

	_, err := uc.ListChannelVideos(context.Background(), 8, dto.VideoListQuery{})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	videos.AssertNotCalled(t, "ListByChannel", mock.Anything, mock.Anything, mock.Anything)
}

func TestChannelUseCase_ListChannelVideosInvalidParams(t *testing.T) {
	tests := []dto.VideoListQuery{
		{From: "2024-13-01"},
		{To: "yesterday"},
		{MinViews: "lots"},
		{Offset: "x"},
	}
	for _, q := range tests {
		uc, channels, _, _ := newChannelFixture()
		_, err := uc.ListChannelVideos(context.Background(), 7, q)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), "%+v", q)
		channels.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	}
}
