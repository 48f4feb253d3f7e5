package http

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"yt-insights/domain/analytics"
	"yt-insights/domain/dto"
	"yt-insights/domain/model"
)

type MockImportUseCase struct {
	mock.Mock
}

func (m *MockImportUseCase) Import(ctx context.Context, channelURLOrID string) (*dto.ChannelImportResponse, error) {
	args := m.Called(ctx, channelURLOrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChannelImportResponse), args.Error(1)
}

type MockChannelUseCase struct {
	mock.Mock
}

func (m *MockChannelUseCase) ListChannels(ctx context.Context, query dto.ChannelListQuery) (*dto.ChannelListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChannelListResponse), args.Error(1)
}

func (m *MockChannelUseCase) GetChannelDetail(ctx context.Context, id int64) (*dto.ChannelImportResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChannelImportResponse), args.Error(1)
}

func (m *MockChannelUseCase) ListChannelVideos(ctx context.Context, id int64, query dto.VideoListQuery) (*dto.VideoListResponse, error) {
	args := m.Called(ctx, id, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoListResponse), args.Error(1)
}

type MockAnalyticsUseCase struct {
	mock.Mock
}

func (m *MockAnalyticsUseCase) Heatmap(ctx context.Context, channelID int64, query dto.AnalyticsQuery) (*analytics.Heatmap, error) {
	args := m.Called(ctx, channelID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Heatmap), args.Error(1)
}

func (m *MockAnalyticsUseCase) TagPerformance(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.TagStat, error) {
	args := m.Called(ctx, channelID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.TagStat), args.Error(1)
}

func (m *MockAnalyticsUseCase) TagCombinations(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.TagPair, error) {
	args := m.Called(ctx, channelID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.TagPair), args.Error(1)
}

func (m *MockAnalyticsUseCase) Cohorts(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.CohortPoint, error) {
	args := m.Called(ctx, channelID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.CohortPoint), args.Error(1)
}

func (m *MockAnalyticsUseCase) Anomalies(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.AnomalyPoint, error) {
	args := m.Called(ctx, channelID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.AnomalyPoint), args.Error(1)
}

func (m *MockAnalyticsUseCase) Funnel(ctx context.Context, channelID int64) ([]analytics.FunnelStage, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.FunnelStage), args.Error(1)
}

func (m *MockAnalyticsUseCase) Revenue(ctx context.Context, channelID int64, query dto.AnalyticsQuery) (*analytics.RevenueSimulation, error) {
	args := m.Called(ctx, channelID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.RevenueSimulation), args.Error(1)
}

func (m *MockAnalyticsUseCase) Insights(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]string, error) {
	args := m.Called(ctx, channelID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAnalyticsUseCase) PublishSlots(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.PublishSlot, error) {
	args := m.Called(ctx, channelID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.PublishSlot), args.Error(1)
}

func (m *MockAnalyticsUseCase) Growth(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.GrowthCurve, error) {
	args := m.Called(ctx, channelID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.GrowthCurve), args.Error(1)
}

func (m *MockAnalyticsUseCase) Compare(ctx context.Context, query dto.CompareQuery) ([]analytics.ChannelComparison, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.ChannelComparison), args.Error(1)
}

type MockRateLimitStore struct {
	mock.Mock
}

func (m *MockRateLimitStore) Get(ctx context.Context, youtubeChannelID string) (*model.RateLimitEntry, error) {
	args := m.Called(ctx, youtubeChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RateLimitEntry), args.Error(1)
}

func (m *MockRateLimitStore) Put(ctx context.Context, entry model.RateLimitEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockRateLimitStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
