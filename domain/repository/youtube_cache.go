package repository

import (
	"context"

	"yt-insights/domain/model"
)

// IRateLimitStore persists the last fetch time per YouTube channel.
type IRateLimitStore interface {
	// Get returns nil, nil when no entry exists.
	Get(ctx context.Context, youtubeChannelID string) (*model.RateLimitEntry, error)
	// Put overwrites the entry.
	Put(ctx context.Context, entry model.RateLimitEntry) error
	Ping(ctx context.Context) error
}
