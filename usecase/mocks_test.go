package usecase

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"yt-insights/domain/dto"
	"yt-insights/domain/model"
)

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
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRateLimitStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockYouTube struct {
	mock.Mock
}

func (m *MockYouTube) GetChannelInfo(ctx context.Context, channelID string) (*model.ChannelInfo, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChannelInfo), args.Error(1)
}

func (m *MockYouTube) ResolveHandle(ctx context.Context, handle string) (string, error) {
	args := m.Called(ctx, handle)
	return args.String(0), args.Error(1)
}

func (m *MockYouTube) ListAllVideoIDs(ctx context.Context, uploadsPlaylistID string) ([]string, error) {
	args := m.Called(ctx, uploadsPlaylistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockYouTube) GetVideosInfo(ctx context.Context, videoIDs []string) ([]model.Video, error) {
	args := m.Called(ctx, videoIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

type MockChannelRepository struct {
	mock.Mock
}

func (m *MockChannelRepository) SaveImport(ctx context.Context, channel *model.Channel, videos []model.Video, capturedAt time.Time) (int64, error) {
	args := m.Called(ctx, channel, videos, capturedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChannelRepository) GetByID(ctx context.Context, id int64) (*model.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Channel), args.Error(1)
}

func (m *MockChannelRepository) GetByYouTubeID(ctx context.Context, youtubeChannelID string) (*model.Channel, error) {
	args := m.Called(ctx, youtubeChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Channel), args.Error(1)
}

func (m *MockChannelRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Channel, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Channel), args.Error(1)
}

func (m *MockChannelRepository) List(ctx context.Context, filter dto.ChannelListFilter) ([]model.Channel, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Channel), args.Get(1).(int64), args.Error(2)
}

func (m *MockChannelRepository) Summary(ctx context.Context, channelID int64) (*model.ChannelSummary, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChannelSummary), args.Error(1)
}

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) ListByChannel(ctx context.Context, channelID int64, filter dto.VideoListFilter) ([]model.Video, int64, error) {
	args := m.Called(ctx, channelID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Video), args.Get(1).(int64), args.Error(2)
}

func (m *MockVideoRepository) ListWithLatestStats(ctx context.Context, channelID int64) ([]model.Video, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) StatsHistory(ctx context.Context, channelID int64, videoIDs []int64, since time.Time) ([]model.SnapshotPoint, error) {
	args := m.Called(ctx, channelID, videoIDs, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SnapshotPoint), args.Error(1)
}

type MockImportEvents struct {
	mock.Mock
}

func (m *MockImportEvents) PublishImportCompleted(ctx context.Context, event model.ImportCompletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
