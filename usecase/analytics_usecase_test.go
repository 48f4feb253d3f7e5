package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yt-insights/domain/analytics"
	"yt-insights/domain/apperror"
	"yt-insights/domain/dto"
	"yt-insights/domain/model"
)

var analyticsNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newAnalyticsFixture() (*AnalyticsUseCase, *MockChannelRepository, *MockVideoRepository) {
	channels := new(MockChannelRepository)
	videos := new(MockVideoRepository)
	uc := NewAnalyticsUseCase(channels, videos, AnalyticsOptions{}, quietLogger())
	uc.now = func() time.Time { return analyticsNow }
	return uc, channels, videos
}

func analyticsVideos() []model.Video {
	// 2024-05-27 is a Monday.
	return []model.Video{
		{ID: 1, YouTubeVideoID: "a", Title: "A", PublishedAt: time.Date(2024, 5, 27, 10, 0, 0, 0, time.UTC),
			Tags: []string{"go", "tips"}, Stats: model.VideoStats{ViewCount: 1000, LikeCount: 100, CommentCount: 10}},
		{ID: 2, YouTubeVideoID: "b", Title: "B", PublishedAt: time.Date(2024, 5, 27, 10, 30, 0, 0, time.UTC),
			Tags: []string{"go"}, Stats: model.VideoStats{ViewCount: 9000}},
	}
}

func TestAnalyticsUseCase_Heatmap(t *testing.T) {
	uc, channels, videos := newAnalyticsFixture()
	channels.On("GetByID", mock.Anything, int64(1)).Return(&model.Channel{ID: 1}, nil).Once()
	videos.On("ListWithLatestStats", mock.Anything, int64(1)).Return(analyticsVideos(), nil).Once()

	h, err := uc.Heatmap(context.Background(), 1, dto.AnalyticsQuery{Metric: "view_count", TZ: "Asia/Tokyo"})
	require.NoError(t, err)
	require.Len(t, h.Rows, 7)
	// 10:00 UTC Monday is 19:00 Monday in Tokyo.
	require.NotNil(t, h.Rows[0].Hours[19])
	assert.Equal(t, 5000.0, *h.Rows[0].Hours[19])
	assert.Nil(t, h.Rows[0].Hours[10])
}

func TestAnalyticsUseCase_InvalidParameters(t *testing.T) {
	uc, channels, _ := newAnalyticsFixture()
	ctx := context.Background()

	_, err := uc.Heatmap(ctx, 1, dto.AnalyticsQuery{Metric: "dislike_count"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	_, err = uc.Heatmap(ctx, 1, dto.AnalyticsQuery{TZ: "Mars/Olympus"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	_, err = uc.Anomalies(ctx, 1, dto.AnalyticsQuery{Window: "0"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	_, err = uc.Anomalies(ctx, 1, dto.AnalyticsQuery{Threshold: "high"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	_, err = uc.Revenue(ctx, 1, dto.AnalyticsQuery{RPM: "-1"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	_, err = uc.Growth(ctx, 1, dto.AnalyticsQuery{})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	_, err = uc.Compare(ctx, dto.CompareQuery{IDs: "1,a"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	channels.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAnalyticsUseCase_UnknownChannel(t *testing.T) {
	uc, channels, videos := newAnalyticsFixture()
	channels.On("GetByID", mock.Anything, int64(5)).Return(nil, nil)

	_, err := uc.Funnel(context.Background(), 5)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	_, err = uc.Cohorts(context.Background(), 5, dto.AnalyticsQuery{})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	videos.AssertNotCalled(t, "ListWithLatestStats", mock.Anything, mock.Anything)
}

func TestAnalyticsUseCase_FunnelAndRevenue(t *testing.T) {
	uc, channels, videos := newAnalyticsFixture()
	channels.On("GetByID", mock.Anything, int64(1)).Return(&model.Channel{ID: 1}, nil)
	videos.On("ListWithLatestStats", mock.Anything, int64(1)).Return([]model.Video{
		{ID: 1, Stats: model.VideoStats{ViewCount: 1000, LikeCount: 100, CommentCount: 10}},
		{ID: 2, Stats: model.VideoStats{ViewCount: 9000}},
	}, nil)

	stages, err := uc.Funnel(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.Equal(t, int64(10000), stages[0].Value)
	assert.InDelta(t, 0.01, stages[1].Conversion, 1e-9)
	assert.InDelta(t, 0.1, stages[2].Conversion, 1e-9)

	sim, err := uc.Revenue(context.Background(), 1, dto.AnalyticsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, sim.RPM)
	assert.InDelta(t, 12000.0, sim.TotalEstimated, 1e-9)
	assert.Equal(t, int64(2), sim.PerVideo[0].VideoID)

	sim, err = uc.Revenue(context.Background(), 1, dto.AnalyticsQuery{RPM: "500"})
	require.NoError(t, err)
	assert.InDelta(t, 5000.0, sim.TotalEstimated, 1e-9)
}

func TestAnalyticsUseCase_AnomaliesUsesHistoryWindow(t *testing.T) {
	uc, channels, videos := newAnalyticsFixture()
	channels.On("GetByID", mock.Anything, int64(1)).Return(&model.Channel{ID: 1}, nil).Once()
	since := analyticsNow.AddDate(0, 0, -60)
	var history []model.SnapshotPoint
	for d := 0; d < 10; d++ {
		history = append(history, model.SnapshotPoint{
			VideoID:     1,
			PublishedAt: analyticsNow.AddDate(0, 0, -30),
			CapturedAt:  analyticsNow.AddDate(0, 0, -10+d),
			Stats:       model.VideoStats{ViewCount: 100},
		})
	}
	videos.On("StatsHistory", mock.Anything, int64(1), []int64(nil), since).Return(history, nil).Once()

	points, err := uc.Anomalies(context.Background(), 1, dto.AnalyticsQuery{Days: "60"})
	require.NoError(t, err)
	require.Len(t, points, 10)
	for _, p := range points {
		assert.Zero(t, p.ChangePct)
		assert.False(t, p.IsAnomaly)
	}
	videos.AssertExpectations(t)
}

func TestAnalyticsUseCase_CohortsDefaultDays(t *testing.T) {
	uc, channels, videos := newAnalyticsFixture()
	channels.On("GetByID", mock.Anything, int64(1)).Return(&model.Channel{ID: 1}, nil).Once()
	published := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	videos.On("StatsHistory", mock.Anything, int64(1), []int64(nil), analyticsNow.AddDate(0, 0, -120)).
		Return([]model.SnapshotPoint{
			{VideoID: 1, PublishedAt: published, CapturedAt: published.AddDate(0, 0, 10), Stats: model.VideoStats{ViewCount: 10}},
			{VideoID: 1, PublishedAt: published, CapturedAt: published.AddDate(0, 0, 29), Stats: model.VideoStats{ViewCount: 30}},
			{VideoID: 1, PublishedAt: published, CapturedAt: published.AddDate(0, 0, 80), Stats: model.VideoStats{ViewCount: 80}},
		}, nil).Once()

	cohorts, err := uc.Cohorts(context.Background(), 1, dto.AnalyticsQuery{})
	require.NoError(t, err)
	assert.Equal(t, []analytics.CohortPoint{
		{Cohort: "2024-01", Days: 30, Value: 30, VideoCount: 1},
		{Cohort: "2024-01", Days: 90, Value: 80, VideoCount: 1},
	}, cohorts)
}

func TestAnalyticsUseCase_Growth(t *testing.T) {
	uc, channels, videos := newAnalyticsFixture()
	channels.On("GetByID", mock.Anything, int64(1)).Return(&model.Channel{ID: 1}, nil).Once()
	published := analyticsNow.AddDate(0, 0, -5)
	videos.On("StatsHistory", mock.Anything, int64(1), []int64{2}, analyticsNow.AddDate(0, 0, -30)).
		Return([]model.SnapshotPoint{
			{VideoID: 2, Title: "B", PublishedAt: published, CapturedAt: published.AddDate(0, 0, 1), Stats: model.VideoStats{LikeCount: 3}},
			{VideoID: 2, Title: "B", PublishedAt: published, CapturedAt: published.AddDate(0, 0, 2), Stats: model.VideoStats{LikeCount: 7}},
		}, nil).Once()

	curves, err := uc.Growth(context.Background(), 1, dto.AnalyticsQuery{Metric: "like_count", VideoIDs: "2"})
	require.NoError(t, err)
	require.Len(t, curves, 1)
	assert.Equal(t, []analytics.GrowthPoint{{DaysSincePublish: 1, Value: 3}, {DaysSincePublish: 2, Value: 7}}, curves[0].Points)
}

func TestAnalyticsUseCase_TagsAndSlots(t *testing.T) {
	uc, channels, videos := newAnalyticsFixture()
	channels.On("GetByID", mock.Anything, int64(1)).Return(&model.Channel{ID: 1}, nil)
	videos.On("ListWithLatestStats", mock.Anything, int64(1)).Return(analyticsVideos(), nil)

	tags, err := uc.TagPerformance(context.Background(), 1, dto.AnalyticsQuery{})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Tag)
	assert.Equal(t, 5000.0, tags[0].Value)

	pairs, err := uc.TagCombinations(context.Background(), 1, dto.AnalyticsQuery{Top: "5"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "go + tips", pairs[0].Combination)

	slots, err := uc.PublishSlots(context.Background(), 1, dto.AnalyticsQuery{})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, analytics.PublishSlot{Weekday: "Monday", Hour: 10, Value: 5000}, slots[0])

	insights, err := uc.Insights(context.Background(), 1, dto.AnalyticsQuery{})
	require.NoError(t, err)
	assert.NotEmpty(t, insights)
}

func TestAnalyticsUseCase_Compare(t *testing.T) {
	uc, channels, _ := newAnalyticsFixture()
	channels.On("GetByIDs", mock.Anything, []int64{1, 2}).Return([]model.Channel{
		{ID: 1, Title: "small", SubscriberCount: 10},
		{ID: 2, Title: "big", SubscriberCount: 1000},
	}, nil).Once()

	res, err := uc.Compare(context.Background(), dto.CompareQuery{IDs: "1,2"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "big", res[0].Title)
}

func TestAnalyticsUseCase_StoreErrorIsInternal(t *testing.T) {
	uc, channels, videos := newAnalyticsFixture()
	channels.On("GetByID", mock.Anything, int64(1)).Return(&model.Channel{ID: 1}, nil).Once()
	videos.On("ListWithLatestStats", mock.Anything, int64(1)).Return(nil, errors.New("db down")).Once()

	_, err := uc.Funnel(context.Background(), 1)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
