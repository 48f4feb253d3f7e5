package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yt-insights/domain/apperror"
	"yt-insights/domain/model"
	"yt-insights/infrastructure/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// MaxBatchSize is the Data API limit for ids per videos.list call and items per page.
	MaxBatchSize = 50
	// MaxParallelBatches caps concurrent videos.list calls.
	MaxParallelBatches = 10
)

// Client reads public channel and video metadata with an API key.
type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     *logrus.Logger
}

// Config represents YouTube API configuration
type Config struct {
	APIKey string
	// Endpoint overrides the API base URL, e.g. an httptest server.
	Endpoint string
	// RequestsPerSecond paces outbound calls; 0 is unlimited.
	RequestsPerSecond float64
}

// NewYouTubeClient creates a new YouTube API client
func NewYouTubeClient(ctx context.Context, config Config, log *logrus.Logger, m *metrics.Metrics) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("youtube api key is required")
	}
	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
	}

	limit := rate.Inf
	burst := MaxParallelBatches
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
		burst = max(1, int(config.RequestsPerSecond))
	}
	return &Client{
		service: service,
		limiter: rate.NewLimiter(limit, burst),
		metrics: m,
		log:     log,
	}, nil
}

// wait blocks until the limiter admits one call.
func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperror.Upstream("youtube request cancelled", err)
	}
	return nil
}

// GetChannelInfo returns the channel snippet, statistics and uploads playlist.
func (c *Client) GetChannelInfo(ctx context.Context, channelID string) (*model.ChannelInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	response, err := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	c.metrics.ObserveUpstream("channels.list", start, err)
	if err != nil {
		return nil, apperror.Upstream("failed to fetch channel from YouTube", err)
	}
	if len(response.Items) == 0 {
		return nil, apperror.NotFound(fmt.Sprintf("channel %s not found on YouTube", channelID))
	}
	return convertChannel(response.Items[0]), nil
}

func convertChannel(ch *youtube.Channel) *model.ChannelInfo {
	info := &model.ChannelInfo{
		Channel: model.Channel{YouTubeChannelID: ch.Id},
		ETag:    ch.Etag,
	}
	if ch.Snippet != nil {
		info.Title = ch.Snippet.Title
		info.Description = ch.Snippet.Description
		if t, err := time.Parse(time.RFC3339, ch.Snippet.PublishedAt); err == nil {
			t = t.UTC()
			info.PublishedAt = &t
		}
	}
	if ch.Statistics != nil {
		info.SubscriberCount = int64(ch.Statistics.SubscriberCount)
		info.VideoCount = int64(ch.Statistics.VideoCount)
		info.ViewCount = int64(ch.Statistics.ViewCount)
	}
	if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
		info.UploadsPlaylistID = ch.ContentDetails.RelatedPlaylists.Uploads
	}
	return info
}

// ResolveHandle maps "@name" to its channel id.
func (c *Client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	start := time.Now()
	response, err := c.service.Channels.List([]string{"id"}).
		ForHandle(handle).
		Context(ctx).
		Do()
	c.metrics.ObserveUpstream("channels.list", start, err)
	if err != nil {
		return "", apperror.Upstream("failed to resolve handle on YouTube", err)
	}
	if len(response.Items) == 0 || response.Items[0].Id == "" {
		return "", apperror.NotFound(fmt.Sprintf("handle %s not found on YouTube", handle))
	}
	return response.Items[0].Id, nil
}

// VideoIDs returns a lazy pager over the uploads playlist.
func (c *Client) VideoIDs(uploadsPlaylistID string) *VideoIDPager {
	return &VideoIDPager{client: c, playlistID: uploadsPlaylistID}
}

// ListAllVideoIDs drains the uploads playlist; it stops only when no page token remains.
func (c *Client) ListAllVideoIDs(ctx context.Context, uploadsPlaylistID string) ([]string, error) {
	pager := c.VideoIDs(uploadsPlaylistID)
	var ids []string
	for !pager.Done() {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)
	}
	return ids, nil
}

func (c *Client) playlistPage(ctx context.Context, playlistID, pageToken string) ([]string, string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, "", err
	}
	call := c.service.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(MaxBatchSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	start := time.Now()
	response, err := call.Context(ctx).Do()
	c.metrics.ObserveUpstream("playlistItems.list", start, err)
	if err != nil {
		return nil, "", apperror.Upstream("failed to list channel uploads on YouTube", err)
	}
	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
			ids = append(ids, item.ContentDetails.VideoId)
		}
	}
	return ids, response.NextPageToken, nil
}

// GetVideosInfo fetches videos in batches of 50 with at most 10 batches in flight.
// The first failing batch cancels the others and fails the whole call.
func (c *Client) GetVideosInfo(ctx context.Context, videoIDs []string) ([]model.Video, error) {
	batches := chunk(videoIDs, MaxBatchSize)
	if len(batches) == 0 {
		return []model.Video{}, nil
	}

	results := make([][]model.Video, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(MaxParallelBatches, len(batches)))
	for i, batch := range batches {
		g.Go(func() error {
			videos, err := c.videoBatch(gctx, batch)
			if err != nil {
				return err
			}
			results[i] = videos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.WithFields(logrus.Fields{"error": err, "batches": len(batches)}).Error("YouTube video batch failed")
		if apperror.KindOf(err) == apperror.KindUpstream {
			return nil, err
		}
		return nil, apperror.Upstream("failed to fetch videos from YouTube", err)
	}

	out := make([]model.Video, 0, len(videoIDs))
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (c *Client) videoBatch(ctx context.Context, ids []string) ([]model.Video, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	response, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	c.metrics.ObserveUpstream("videos.list", start, err)
	if err != nil {
		return nil, apperror.Upstream("failed to fetch videos from YouTube", err)
	}
	videos := make([]model.Video, 0, len(response.Items))
	for _, item := range response.Items {
		videos = append(videos, convertVideo(item))
	}
	return videos, nil
}

// convertVideo converts a YouTube API video to our model; missing counts are zero.
func convertVideo(video *youtube.Video) model.Video {
	v := model.Video{YouTubeVideoID: video.Id, Tags: []string{}}
	if video.Snippet != nil {
		v.Title = video.Snippet.Title
		v.Description = video.Snippet.Description
		if t, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt); err == nil {
			v.PublishedAt = t.UTC()
		}
		if video.Snippet.Tags != nil {
			v.Tags = video.Snippet.Tags
		}
		if th := video.Snippet.Thumbnails; th != nil && th.Default != nil {
			v.ThumbnailURL = th.Default.Url
		}
	}
	if video.Statistics != nil {
		v.Stats = model.VideoStats{
			ViewCount:    int64(video.Statistics.ViewCount),
			LikeCount:    int64(video.Statistics.LikeCount),
			CommentCount: int64(video.Statistics.CommentCount),
		}
	}
	if video.ContentDetails != nil {
		if sec, ok := ParseDuration(video.ContentDetails.Duration); ok {
			v.DurationSec = &sec
		}
	}
	return v
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}
