package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"yt-insights/domain/model"
	"yt-insights/infrastructure/metrics"
)

func newTestRateLimiter(store *MockRateLimitStore, now time.Time, m *metrics.Metrics) *RateLimiter {
	limiter := NewRateLimiter(store, 600*time.Second, quietLogger(), m)
	limiter.now = func() time.Time { return now }
	return limiter
}

func TestRateLimiter_ShouldFetch(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		entry *model.RateLimitEntry
		err   error
		want  bool
	}{
		{name: "no entry", want: true},
		{
			name:  "elapsed equals interval",
			entry: &model.RateLimitEntry{LastFetchedAt: now.Add(-600 * time.Second).UnixMilli()},
			want:  true,
		},
		{
			name:  "elapsed beyond interval",
			entry: &model.RateLimitEntry{LastFetchedAt: now.Add(-time.Hour).UnixMilli()},
			want:  true,
		},
		{
			name:  "within interval",
			entry: &model.RateLimitEntry{LastFetchedAt: now.Add(-599 * time.Second).UnixMilli()},
			want:  false,
		},
		{name: "store error fails open", err: errors.New("connection refused"), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockRateLimitStore)
			if tt.entry != nil {
				store.On("Get", mock.Anything, testChannelID).Return(tt.entry, nil)
			} else {
				store.On("Get", mock.Anything, testChannelID).Return(nil, tt.err)
			}
			limiter := newTestRateLimiter(store, now, nil)
			assert.Equal(t, tt.want, limiter.ShouldFetch(context.Background(), testChannelID))
			store.AssertExpectations(t)
		})
	}
}

func TestRateLimiter_NilStoreAllowsFetch(t *testing.T) {
	limiter := NewRateLimiter(nil, 0, quietLogger(), nil)
	assert.True(t, limiter.ShouldFetch(context.Background(), testChannelID))
	limiter.UpdateCache(context.Background(), testChannelID, nil)
	_, ok := limiter.LastFetchedAt(context.Background(), testChannelID)
	assert.False(t, ok)
}

func TestRateLimiter_UpdateCache(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	etag := "etag-1"
	store := new(MockRateLimitStore)
	store.On("Put", mock.Anything, model.RateLimitEntry{
		YouTubeChannelID: testChannelID,
		LastFetchedAt:    now.UnixMilli(),
		ETag:             &etag,
	}).Return(nil).Once()

	newTestRateLimiter(store, now, nil).UpdateCache(context.Background(), testChannelID, &etag)
	store.AssertExpectations(t)
}

func TestRateLimiter_UpdateCacheFailureIsSwallowed(t *testing.T) {
	m := metrics.New()
	store := new(MockRateLimitStore)
	store.On("Put", mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()

	assert.NotPanics(t, func() {
		newTestRateLimiter(store, time.Now(), m).UpdateCache(context.Background(), testChannelID, nil)
	})
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RateLimitErrors))
}

func TestRateLimiter_LastFetchedAt(t *testing.T) {
	fetched := time.Date(2024, 5, 1, 11, 55, 0, 0, time.UTC)
	store := new(MockRateLimitStore)
	store.On("Get", mock.Anything, testChannelID).
		Return(&model.RateLimitEntry{YouTubeChannelID: testChannelID, LastFetchedAt: fetched.UnixMilli()}, nil)

	got, ok := newTestRateLimiter(store, fetched.Add(time.Minute), nil).LastFetchedAt(context.Background(), testChannelID)
	assert.True(t, ok)
	assert.True(t, fetched.Equal(got))
}
