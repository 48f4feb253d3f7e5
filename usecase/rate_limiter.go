package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"yt-insights/domain/model"
	"yt-insights/domain/repository"
	"yt-insights/infrastructure/metrics"
)

// DefaultMinFetchInterval is the minimum time between two fetches of one channel.
const DefaultMinFetchInterval = 600 * time.Second

// IRateLimiter decides whether a channel may be fetched from YouTube again.
type IRateLimiter interface {
	ShouldFetch(ctx context.Context, youtubeChannelID string) bool
	UpdateCache(ctx context.Context, youtubeChannelID string, etag *string)
	LastFetchedAt(ctx context.Context, youtubeChannelID string) (time.Time, bool)
}

// RateLimiter is fail-open: store errors always permit a fetch.
type RateLimiter struct {
	store    repository.IRateLimitStore
	interval time.Duration
	now      func() time.Time
	metrics  *metrics.Metrics
	log      *logrus.Logger
}

func NewRateLimiter(store repository.IRateLimitStore, interval time.Duration, log *logrus.Logger, m *metrics.Metrics) *RateLimiter {
	if interval <= 0 {
		interval = DefaultMinFetchInterval
	}
	return &RateLimiter{
		store:    store,
		interval: interval,
		now:      time.Now,
		metrics:  m,
		log:      log,
	}
}

func (r *RateLimiter) entry(ctx context.Context, youtubeChannelID string) *model.RateLimitEntry {
	if r.store == nil {
		return nil
	}
	entry, err := r.store.Get(ctx, youtubeChannelID)
	if err != nil {
		r.metrics.RateLimitStoreError()
		r.log.WithFields(logrus.Fields{"error": err, "youtubeChannelId": youtubeChannelID}).
			Warn("Rate limit cache read failed")
		return nil
	}
	return entry
}

func (r *RateLimiter) ShouldFetch(ctx context.Context, youtubeChannelID string) bool {
	entry := r.entry(ctx, youtubeChannelID)
	if entry == nil {
		return true
	}
	elapsed := r.now().Sub(entry.LastFetchedTime())
	return elapsed >= r.interval
}

// LastFetchedAt returns the cached fetch time, if any.
func (r *RateLimiter) LastFetchedAt(ctx context.Context, youtubeChannelID string) (time.Time, bool) {
	entry := r.entry(ctx, youtubeChannelID)
	if entry == nil {
		return time.Time{}, false
	}
	return entry.LastFetchedTime(), true
}

// UpdateCache records a fetch now. Failures are logged only.
func (r *RateLimiter) UpdateCache(ctx context.Context, youtubeChannelID string, etag *string) {
	if r.store == nil {
		return
	}
	entry := model.RateLimitEntry{
		YouTubeChannelID: youtubeChannelID,
		LastFetchedAt:    r.now().UnixMilli(),
		ETag:             etag,
	}
	if err := r.store.Put(ctx, entry); err != nil {
		r.metrics.RateLimitStoreError()
		r.log.WithFields(logrus.Fields{"error": err, "youtubeChannelId": youtubeChannelID}).
			Warn("Rate limit cache update failed")
	}
}
