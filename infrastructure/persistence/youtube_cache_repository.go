package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"yt-insights/domain/model"
)

// EnsureChannelUpdateCacheSchema creates the rate-limit table if not exists
func EnsureChannelUpdateCacheSchema(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS channel_update_cache (
        youtube_channel_id VARCHAR(64) PRIMARY KEY,
        last_fetched_at BIGINT NOT NULL,
        etag TEXT
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create channel_update_cache table: %w", err)
	}
	return nil
}

// YouTubeCacheRepository keeps the last fetch time per channel in PostgreSQL.
type YouTubeCacheRepository struct{ db *sql.DB }

func NewYouTubeCacheRepository(db *sql.DB) *YouTubeCacheRepository {
	return &YouTubeCacheRepository{db: db}
}

func (r *YouTubeCacheRepository) Get(ctx context.Context, youtubeChannelID string) (*model.RateLimitEntry, error) {
	if r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT youtube_channel_id, last_fetched_at, etag FROM channel_update_cache WHERE youtube_channel_id=$1`, youtubeChannelID)
	return scanRateLimitEntry(row)
}

func (r *YouTubeCacheRepository) Put(ctx context.Context, entry model.RateLimitEntry) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO channel_update_cache(youtube_channel_id, last_fetched_at, etag)
          VALUES ($1,$2,$3)
          ON CONFLICT (youtube_channel_id) DO UPDATE SET last_fetched_at=EXCLUDED.last_fetched_at, etag=EXCLUDED.etag`,
		entry.YouTubeChannelID, entry.LastFetchedAt, entry.ETag)
	return err
}

func (r *YouTubeCacheRepository) Ping(ctx context.Context) error {
	if r.db == nil {
		return errors.New("postgres rate-limit store not configured")
	}
	return r.db.PingContext(ctx)
}

func scanRateLimitEntry(row *sql.Row) (*model.RateLimitEntry, error) {
	var e model.RateLimitEntry
	var etag sql.NullString
	if err := row.Scan(&e.YouTubeChannelID, &e.LastFetchedAt, &etag); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if etag.Valid {
		e.ETag = &etag.String
	}
	return &e, nil
}
