package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	// tz names from requests must resolve in minimal images too
	_ "time/tzdata"

	"github.com/sirupsen/logrus"

	"yt-insights/domain/analytics"
	"yt-insights/domain/apperror"
	"yt-insights/domain/dto"
	"yt-insights/domain/model"
	"yt-insights/domain/repository"
)

const (
	defaultHistoryDays = 120
	defaultGrowthDays  = 30
	defaultSlotTop     = 5
)

// IAnalyticsUseCase computes dashboard aggregates for one channel.
type IAnalyticsUseCase interface {
	Heatmap(ctx context.Context, channelID int64, query dto.AnalyticsQuery) (*analytics.Heatmap, error)
	TagPerformance(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.TagStat, error)
	TagCombinations(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.TagPair, error)
	Cohorts(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.CohortPoint, error)
	Anomalies(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.AnomalyPoint, error)
	Funnel(ctx context.Context, channelID int64) ([]analytics.FunnelStage, error)
	Revenue(ctx context.Context, channelID int64, query dto.AnalyticsQuery) (*analytics.RevenueSimulation, error)
	Insights(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]string, error)
	PublishSlots(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.PublishSlot, error)
	Growth(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.GrowthCurve, error)
	Compare(ctx context.Context, query dto.CompareQuery) ([]analytics.ChannelComparison, error)
}

// AnalyticsOptions carries the configured defaults.
type AnalyticsOptions struct {
	DefaultRPM float64
	Timezone   string
}

type AnalyticsUseCase struct {
	channels repository.IChannel
	videos   repository.IVideo
	opts     AnalyticsOptions
	log      *logrus.Logger
	now      func() time.Time
}

func NewAnalyticsUseCase(channels repository.IChannel, videos repository.IVideo, opts AnalyticsOptions, log *logrus.Logger) *AnalyticsUseCase {
	if opts.DefaultRPM <= 0 {
		opts.DefaultRPM = analytics.DefaultRPM
	}
	if opts.Timezone == "" {
		opts.Timezone = "UTC"
	}
	return &AnalyticsUseCase{channels: channels, videos: videos, opts: opts, log: log, now: time.Now}
}

func parseMetric(raw string) (model.Metric, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.MetricViews, nil
	}
	m := model.Metric(raw)
	if !m.Valid() {
		return "", apperror.Validation("metric must be one of view_count, like_count, comment_count")
	}
	return m, nil
}

func (u *AnalyticsUseCase) location(raw string) (*time.Location, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		name = u.opts.Timezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("unknown timezone %q", name))
	}
	return loc, nil
}

func positiveInt(name, raw string, def int) (int, error) {
	v, err := parseInt(name, raw, def)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, apperror.Validation(fmt.Sprintf("%s must be positive", name))
	}
	return v, nil
}

func (u *AnalyticsUseCase) ensureChannel(ctx context.Context, channelID int64) error {
	channel, err := u.channels.GetByID(ctx, channelID)
	if err != nil {
		return apperror.Internal("failed to load channel", err)
	}
	if channel == nil {
		return apperror.NotFound(fmt.Sprintf("channel %d not found", channelID))
	}
	return nil
}

func (u *AnalyticsUseCase) latestVideos(ctx context.Context, channelID int64) ([]model.Video, error) {
	if err := u.ensureChannel(ctx, channelID); err != nil {
		return nil, err
	}
	videos, err := u.videos.ListWithLatestStats(ctx, channelID)
	if err != nil {
		return nil, apperror.Internal("failed to load videos", err)
	}
	return videos, nil
}

func (u *AnalyticsUseCase) history(ctx context.Context, channelID int64, videoIDs []int64, days int) ([]model.SnapshotPoint, error) {
	if err := u.ensureChannel(ctx, channelID); err != nil {
		return nil, err
	}
	since := u.now().UTC().AddDate(0, 0, -days)
	points, err := u.videos.StatsHistory(ctx, channelID, videoIDs, since)
	if err != nil {
		return nil, apperror.Internal("failed to load stats history", err)
	}
	return points, nil
}

func (u *AnalyticsUseCase) Heatmap(ctx context.Context, channelID int64, query dto.AnalyticsQuery) (*analytics.Heatmap, error) {
	metric, err := parseMetric(query.Metric)
	if err != nil {
		return nil, err
	}
	loc, err := u.location(query.TZ)
	if err != nil {
		return nil, err
	}
	videos, err := u.latestVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}
	h := analytics.BuildHeatmap(videos, metric, loc)
	return &h, nil
}

func (u *AnalyticsUseCase) TagPerformance(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.TagStat, error) {
	metric, err := parseMetric(query.Metric)
	if err != nil {
		return nil, err
	}
	videos, err := u.latestVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return analytics.TagPerformance(videos, metric), nil
}

func (u *AnalyticsUseCase) TagCombinations(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.TagPair, error) {
	metric, err := parseMetric(query.Metric)
	if err != nil {
		return nil, err
	}
	top, err := positiveInt("top", query.Top, analytics.DefaultTagCombinationTop)
	if err != nil {
		return nil, err
	}
	videos, err := u.latestVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return analytics.TagCombinations(videos, metric, top), nil
}

func (u *AnalyticsUseCase) Cohorts(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.CohortPoint, error) {
	metric, err := parseMetric(query.Metric)
	if err != nil {
		return nil, err
	}
	days, err := positiveInt("days", query.Days, defaultHistoryDays)
	if err != nil {
		return nil, err
	}
	history, err := u.history(ctx, channelID, nil, days)
	if err != nil {
		return nil, err
	}
	return analytics.CohortPerformance(history, metric, analytics.DefaultCheckpoints), nil
}

func (u *AnalyticsUseCase) Anomalies(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.AnomalyPoint, error) {
	metric, err := parseMetric(query.Metric)
	if err != nil {
		return nil, err
	}
	days, err := positiveInt("days", query.Days, defaultHistoryDays)
	if err != nil {
		return nil, err
	}
	window, err := positiveInt("window", query.Window, analytics.DefaultAnomalyWindow)
	if err != nil {
		return nil, err
	}
	threshold, err := parseFloat("threshold", query.Threshold, analytics.DefaultAnomalyThreshold)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		return nil, apperror.Validation("threshold must be positive")
	}
	history, err := u.history(ctx, channelID, nil, days)
	if err != nil {
		return nil, err
	}
	return analytics.DetectAnomalies(history, metric, window, threshold), nil
}

func (u *AnalyticsUseCase) Funnel(ctx context.Context, channelID int64) ([]analytics.FunnelStage, error) {
	videos, err := u.latestVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return analytics.Funnel(videos), nil
}

func (u *AnalyticsUseCase) Revenue(ctx context.Context, channelID int64, query dto.AnalyticsQuery) (*analytics.RevenueSimulation, error) {
	rpm, err := parseFloat("rpm", query.RPM, u.opts.DefaultRPM)
	if err != nil {
		return nil, err
	}
	if rpm < 0 {
		return nil, apperror.Validation("rpm must not be negative")
	}
	videos, err := u.latestVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}
	sim := analytics.SimulateRevenue(videos, rpm)
	return &sim, nil
}

func (u *AnalyticsUseCase) Insights(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]string, error) {
	metric, err := parseMetric(query.Metric)
	if err != nil {
		return nil, err
	}
	videos, err := u.latestVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return analytics.AutoInsights(videos, metric, u.now(), analytics.DefaultInsightCount), nil
}

func (u *AnalyticsUseCase) PublishSlots(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.PublishSlot, error) {
	metric, err := parseMetric(query.Metric)
	if err != nil {
		return nil, err
	}
	loc, err := u.location(query.TZ)
	if err != nil {
		return nil, err
	}
	top, err := positiveInt("top", query.Top, defaultSlotTop)
	if err != nil {
		return nil, err
	}
	videos, err := u.latestVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return analytics.SuggestPublishSlots(analytics.BuildHeatmap(videos, metric, loc), top), nil
}

func (u *AnalyticsUseCase) Growth(ctx context.Context, channelID int64, query dto.AnalyticsQuery) ([]analytics.GrowthCurve, error) {
	metric, err := parseMetric(query.Metric)
	if err != nil {
		return nil, err
	}
	videoIDs, err := parseIDList("videoIds", query.VideoIDs)
	if err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		return nil, apperror.Validation("videoIds is required")
	}
	days, err := positiveInt("days", query.Days, defaultGrowthDays)
	if err != nil {
		return nil, err
	}
	history, err := u.history(ctx, channelID, videoIDs, days)
	if err != nil {
		return nil, err
	}
	return analytics.GrowthCurves(history, videoIDs, metric), nil
}

func (u *AnalyticsUseCase) Compare(ctx context.Context, query dto.CompareQuery) ([]analytics.ChannelComparison, error) {
	ids, err := parseIDList("ids", query.IDs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, apperror.Validation("ids is required")
	}
	channels, err := u.channels.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal("failed to load channels", err)
	}
	return analytics.CompareChannels(channels, ids), nil
}
