package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"yt-insights/domain/model"
)

// EnsureChannelUpdateCacheSchemaMSSQL creates the rate-limit table on MSSQL if not exists
func EnsureChannelUpdateCacheSchemaMSSQL(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.channel_update_cache') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.channel_update_cache (
        youtube_channel_id NVARCHAR(64) NOT NULL PRIMARY KEY,
        last_fetched_at BIGINT NOT NULL,
        etag NVARCHAR(256) NULL
    );
END`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create channel_update_cache table (mssql): %w", err)
	}
	return nil
}

// YouTubeCacheRepositoryMSSQL implements IRateLimitStore on MSSQL
type YouTubeCacheRepositoryMSSQL struct {
	db *sql.DB
}

func NewYouTubeCacheRepositoryMSSQL(db *sql.DB) *YouTubeCacheRepositoryMSSQL {
	return &YouTubeCacheRepositoryMSSQL{db: db}
}

func (r *YouTubeCacheRepositoryMSSQL) Get(ctx context.Context, youtubeChannelID string) (*model.RateLimitEntry, error) {
	if r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT youtube_channel_id, last_fetched_at, etag FROM dbo.channel_update_cache WHERE youtube_channel_id=@p1`, youtubeChannelID)
	return scanRateLimitEntry(row)
}

// Put overwrites the entry with MERGE
func (r *YouTubeCacheRepositoryMSSQL) Put(ctx context.Context, entry model.RateLimitEntry) error {
	if r.db == nil {
		return nil
	}
	q := `MERGE dbo.channel_update_cache AS target
USING (SELECT @p1 AS youtube_channel_id) AS src
ON (target.youtube_channel_id = src.youtube_channel_id)
WHEN MATCHED THEN UPDATE SET last_fetched_at=@p2, etag=@p3
WHEN NOT MATCHED THEN INSERT (youtube_channel_id, last_fetched_at, etag)
VALUES (@p1, @p2, @p3);`
	_, err := r.db.ExecContext(ctx, q, entry.YouTubeChannelID, entry.LastFetchedAt, entry.ETag)
	return err
}

func (r *YouTubeCacheRepositoryMSSQL) Ping(ctx context.Context) error {
	if r.db == nil {
		return errors.New("mssql rate-limit store not configured")
	}
	return r.db.PingContext(ctx)
}
