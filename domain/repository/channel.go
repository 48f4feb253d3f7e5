package repository

import (
	"context"
	"time"

	"yt-insights/domain/dto"
	"yt-insights/domain/model"
)

// IChannel is the relational store for channels, videos and stats snapshots.
type IChannel interface {
	// SaveImport upserts the channel and its videos and appends one snapshot per
	// video captured at capturedAt, all in one transaction. Returns the channel row id.
	SaveImport(ctx context.Context, channel *model.Channel, videos []model.Video, capturedAt time.Time) (int64, error)

	GetByID(ctx context.Context, id int64) (*model.Channel, error)
	GetByYouTubeID(ctx context.Context, youtubeChannelID string) (*model.Channel, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Channel, error)
	List(ctx context.Context, filter dto.ChannelListFilter) ([]model.Channel, int64, error)
	// Summary totals the latest snapshot of every video of the channel.
	Summary(ctx context.Context, channelID int64) (*model.ChannelSummary, error)
}

// IVideo reads videos joined to their latest snapshot and the snapshot history.
type IVideo interface {
	ListByChannel(ctx context.Context, channelID int64, filter dto.VideoListFilter) ([]model.Video, int64, error)
	// ListWithLatestStats returns every video of the channel, newest first.
	ListWithLatestStats(ctx context.Context, channelID int64) ([]model.Video, error)
	// StatsHistory returns snapshots captured since the given time, optionally
	// limited to some video ids, ordered by video then capture time.
	StatsHistory(ctx context.Context, channelID int64, videoIDs []int64, since time.Time) ([]model.SnapshotPoint, error)
}

// IImportEvents publishes import lifecycle events.
type IImportEvents interface {
	PublishImportCompleted(ctx context.Context, event model.ImportCompletedEvent) error
}
