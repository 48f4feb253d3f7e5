package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

var postgresTables = []struct {
	name string
	ddl  string
}{
	{"channels", `CREATE TABLE IF NOT EXISTS channels (
        id BIGSERIAL PRIMARY KEY,
        youtube_channel_id VARCHAR(64) NOT NULL UNIQUE,
        title TEXT NOT NULL,
        description TEXT,
        published_at TIMESTAMPTZ,
        subscriber_count BIGINT,
        video_count BIGINT,
        view_count BIGINT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`},
	{"videos", `CREATE TABLE IF NOT EXISTS videos (
        id BIGSERIAL PRIMARY KEY,
        channel_id BIGINT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
        youtube_video_id VARCHAR(64) NOT NULL UNIQUE,
        title TEXT NOT NULL,
        description TEXT,
        published_at TIMESTAMPTZ NOT NULL,
        duration_sec BIGINT,
        tags_json JSONB,
        thumbnail_url TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`},
	{"video_stats_history", `CREATE TABLE IF NOT EXISTS video_stats_history (
        id BIGSERIAL PRIMARY KEY,
        video_id BIGINT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
        captured_at TIMESTAMPTZ NOT NULL,
        view_count BIGINT NOT NULL,
        like_count BIGINT,
        comment_count BIGINT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`},
}

var postgresIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_videos_channel_id ON videos(channel_id)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_published_at ON videos(published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_channel_published ON videos(channel_id, published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_stats_video_captured ON video_stats_history(video_id, captured_at)`,
}

// EnsureSchema creates the channels, videos and video_stats_history tables if not exists.
// Index failures are logged and skipped.
func EnsureSchema(ctx context.Context, db *sql.DB, log *logrus.Logger) error {
	for _, t := range postgresTables {
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", t.name, err)
		}
	}
	for _, ddl := range postgresIndexes {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			log.WithFields(logrus.Fields{"error": err, "ddl": ddl}).Warn("failed creating index")
		}
	}
	return nil
}
