package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"yt-insights/domain/dto"
	"yt-insights/domain/model"

	"github.com/lib/pq"
)

const channelColumns = `id, youtube_channel_id, title, COALESCE(description, ''), published_at,
        COALESCE(subscriber_count, 0), COALESCE(video_count, 0), COALESCE(view_count, 0), created_at, updated_at`

// latestStatsCTE ranks the snapshots of one channel's videos; rn = 1 is the latest. Binds $1 = channel id.
const latestStatsCTE = `WITH latest AS (
    SELECT h.video_id, h.view_count, h.like_count, h.comment_count,
           ROW_NUMBER() OVER (PARTITION BY h.video_id ORDER BY h.captured_at DESC, h.id DESC) AS rn
    FROM video_stats_history h
    JOIN videos vv ON vv.id = h.video_id
    WHERE vv.channel_id = $1
)`

// ChannelRepository stores channels, videos and stats snapshots in PostgreSQL.
type ChannelRepository struct {
	db *sql.DB
}

func NewChannelRepository(db *sql.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// SaveImport upserts the channel and its videos, then appends one snapshot per video.
func (r *ChannelRepository) SaveImport(ctx context.Context, channel *model.Channel, videos []model.Video, capturedAt time.Time) (channelID int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	err = tx.QueryRowContext(ctx, `INSERT INTO channels (youtube_channel_id, title, description, published_at, subscriber_count, video_count, view_count, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
        ON CONFLICT (youtube_channel_id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description, published_at=EXCLUDED.published_at,
        subscriber_count=EXCLUDED.subscriber_count, video_count=EXCLUDED.video_count, view_count=EXCLUDED.view_count, updated_at=EXCLUDED.updated_at
        RETURNING id`,
		channel.YouTubeChannelID, channel.Title, channel.Description, channel.PublishedAt,
		channel.SubscriberCount, channel.VideoCount, channel.ViewCount, now).Scan(&channelID)
	if err != nil {
		return 0, fmt.Errorf("upsert channel %s: %w", channel.YouTubeChannelID, err)
	}

	if len(videos) > 0 {
		if err = upsertVideos(ctx, tx, channelID, videos, now); err != nil {
			return 0, err
		}
		var ids map[string]int64
		if ids, err = resolveVideoIDs(ctx, tx, videos); err != nil {
			return 0, err
		}
		if err = insertSnapshots(ctx, tx, videos, ids, capturedAt); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return channelID, nil
}

func upsertVideos(ctx context.Context, tx *sql.Tx, channelID int64, videos []model.Video, now time.Time) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO videos (channel_id, youtube_video_id, title, description, published_at, duration_sec, tags_json, thumbnail_url, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
        ON CONFLICT (youtube_video_id) DO UPDATE SET channel_id=EXCLUDED.channel_id, title=EXCLUDED.title, description=EXCLUDED.description,
        published_at=EXCLUDED.published_at, duration_sec=EXCLUDED.duration_sec, tags_json=EXCLUDED.tags_json,
        thumbnail_url=EXCLUDED.thumbnail_url, updated_at=EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare video upsert: %w", err)
	}
	defer stmt.Close()
	for i := range videos {
		v := &videos[i]
		tags, mErr := marshalTags(v.Tags)
		if mErr != nil {
			return mErr
		}
		if _, err := stmt.ExecContext(ctx, channelID, v.YouTubeVideoID, v.Title, v.Description, v.PublishedAt.UTC(),
			v.DurationSec, tags, v.ThumbnailURL, now); err != nil {
			return fmt.Errorf("upsert video %s: %w", v.YouTubeVideoID, err)
		}
	}
	return nil
}

func resolveVideoIDs(ctx context.Context, tx *sql.Tx, videos []model.Video) (map[string]int64, error) {
	ytIDs := make([]string, len(videos))
	for i := range videos {
		ytIDs[i] = videos[i].YouTubeVideoID
	}
	rows, err := tx.QueryContext(ctx, `SELECT id, youtube_video_id FROM videos WHERE youtube_video_id = ANY($1)`, pq.Array(ytIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve video ids: %w", err)
	}
	defer rows.Close()
	ids := make(map[string]int64, len(videos))
	for rows.Next() {
		var id int64
		var ytID string
		if err := rows.Scan(&id, &ytID); err != nil {
			return nil, err
		}
		ids[ytID] = id
	}
	return ids, rows.Err()
}

func insertSnapshots(ctx context.Context, tx *sql.Tx, videos []model.Video, ids map[string]int64, capturedAt time.Time) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO video_stats_history (video_id, captured_at, view_count, like_count, comment_count)
        VALUES ($1,$2,$3,$4,$5)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()
	for i := range videos {
		v := &videos[i]
		id, ok := ids[v.YouTubeVideoID]
		if !ok {
			return fmt.Errorf("video %s missing after upsert", v.YouTubeVideoID)
		}
		if _, err := stmt.ExecContext(ctx, id, capturedAt.UTC(), v.Stats.ViewCount, v.Stats.LikeCount, v.Stats.CommentCount); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", v.YouTubeVideoID, err)
		}
	}
	return nil
}

// GetByID returns nil, nil when the channel does not exist.
func (r *ChannelRepository) GetByID(ctx context.Context, id int64) (*model.Channel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE id = $1`, id)
	return scanChannelRow(row)
}

// GetByYouTubeID returns nil, nil when the channel does not exist.
func (r *ChannelRepository) GetByYouTubeID(ctx context.Context, youtubeChannelID string) (*model.Channel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE youtube_channel_id = $1`, youtubeChannelID)
	return scanChannelRow(row)
}

func (r *ChannelRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Channel, error) {
	if len(ids) == 0 {
		return []model.Channel{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE id = ANY($1) ORDER BY id DESC`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get channels by ids: %w", err)
	}
	defer rows.Close()
	return scanChannels(rows)
}

func (r *ChannelRepository) List(ctx context.Context, filter dto.ChannelListFilter) ([]model.Channel, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM channels WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')`, filter.Q).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count channels: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+channelColumns+` FROM channels
        WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
        ORDER BY id DESC LIMIT $2 OFFSET $3`, filter.Q, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()
	channels, err := scanChannels(rows)
	if err != nil {
		return nil, 0, err
	}
	return channels, total, nil
}

func (r *ChannelRepository) Summary(ctx context.Context, channelID int64) (*model.ChannelSummary, error) {
	var s model.ChannelSummary
	err := r.db.QueryRowContext(ctx, latestStatsCTE+`
SELECT COUNT(v.id), COALESCE(SUM(COALESCE(l.view_count, 0)), 0)
FROM videos v
LEFT JOIN latest l ON l.video_id = v.id AND l.rn = 1
WHERE v.channel_id = $1`, channelID).Scan(&s.TotalVideos, &s.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("summarize channel %d: %w", channelID, err)
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChannel(row rowScanner) (*model.Channel, error) {
	var c model.Channel
	var publishedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.YouTubeChannelID, &c.Title, &c.Description, &publishedAt,
		&c.SubscriberCount, &c.VideoCount, &c.ViewCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		c.PublishedAt = &t
	}
	return &c, nil
}

func scanChannelRow(row *sql.Row) (*model.Channel, error) {
	c, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan channel: %w", err)
	}
	return c, nil
}

func scanChannels(rows *sql.Rows) ([]model.Channel, error) {
	out := make([]model.Channel, 0)
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// marshalTags encodes tags as a JSON array string; never null.
func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(raw), nil
}

func unmarshalTags(raw []byte) []string {
	var tags []string
	if len(raw) == 0 || json.Unmarshal(raw, &tags) != nil || tags == nil {
		return []string{}
	}
	return tags
}
