package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"yt-insights/domain/dto"
	"yt-insights/domain/model"

	"github.com/lib/pq"
)

const videoColumns = `v.id, v.channel_id, v.youtube_video_id, v.title, COALESCE(v.description, ''), v.published_at,
       v.duration_sec, v.tags_json, COALESCE(v.thumbnail_url, ''),
       COALESCE(l.view_count, 0), COALESCE(l.like_count, 0), COALESCE(l.comment_count, 0)`

// videoOrderBy maps the public sort keys to ORDER BY expressions. Ties always break on v.id DESC.
var videoOrderBy = map[string]string{
	dto.SortViewsDesc:    "COALESCE(l.view_count, 0) DESC",
	dto.SortViewsAsc:     "COALESCE(l.view_count, 0) ASC",
	dto.SortLikesDesc:    "COALESCE(l.like_count, 0) DESC",
	dto.SortCommentsDesc: "COALESCE(l.comment_count, 0) DESC",
	dto.SortDateDesc:     "v.published_at DESC",
	dto.SortDateAsc:      "v.published_at ASC",
}

func orderByFor(sort string) string {
	if o, ok := videoOrderBy[sort]; ok {
		return o
	}
	return videoOrderBy[dto.SortDateDesc]
}

// VideoRepository reads videos joined to their latest snapshot from PostgreSQL.
type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) ListByChannel(ctx context.Context, channelID int64, filter dto.VideoListFilter) ([]model.Video, int64, error) {
	where := []string{"v.channel_id = $1"}
	args := []any{channelID}
	if filter.From != nil {
		args = append(args, filter.From.UTC())
		where = append(where, fmt.Sprintf("v.published_at >= $%d", len(args)))
	}
	if filter.To != nil {
		// inclusive date: everything before the next midnight
		args = append(args, filter.To.UTC().Add(24*time.Hour))
		where = append(where, fmt.Sprintf("v.published_at < $%d", len(args)))
	}
	if filter.MinViews != nil {
		args = append(args, *filter.MinViews)
		where = append(where, fmt.Sprintf("COALESCE(l.view_count, 0) >= $%d", len(args)))
	}
	from := `
FROM videos v
LEFT JOIN latest l ON l.video_id = v.id AND l.rn = 1
WHERE ` + strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, latestStatsCTE+`
SELECT COUNT(1)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}
	if total == 0 {
		return []model.Video{}, 0, nil
	}

	args = append(args, filter.Limit, filter.Offset)
	query := latestStatsCTE + `
SELECT ` + videoColumns + from + `
ORDER BY ` + orderByFor(filter.Sort) + `, v.id DESC
LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()
	videos, err := scanVideos(rows)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (r *VideoRepository) ListWithLatestStats(ctx context.Context, channelID int64) ([]model.Video, error) {
	rows, err := r.db.QueryContext(ctx, latestStatsCTE+`
SELECT `+videoColumns+`
FROM videos v
LEFT JOIN latest l ON l.video_id = v.id AND l.rn = 1
WHERE v.channel_id = $1
ORDER BY v.published_at DESC, v.id DESC`, channelID)
	if err != nil {
		return nil, fmt.Errorf("list videos with stats: %w", err)
	}
	defer rows.Close()
	return scanVideos(rows)
}

func (r *VideoRepository) StatsHistory(ctx context.Context, channelID int64, videoIDs []int64, since time.Time) ([]model.SnapshotPoint, error) {
	query := `SELECT v.id, v.youtube_video_id, v.title, v.published_at, h.captured_at,
       h.view_count, COALESCE(h.like_count, 0), COALESCE(h.comment_count, 0)
FROM video_stats_history h
JOIN videos v ON v.id = h.video_id
WHERE v.channel_id = $1 AND h.captured_at >= $2`
	args := []any{channelID, since.UTC()}
	if len(videoIDs) > 0 {
		query += ` AND v.id = ANY($3)`
		args = append(args, pq.Array(videoIDs))
	}
	query += `
ORDER BY v.id, h.captured_at, h.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats history: %w", err)
	}
	defer rows.Close()

	out := make([]model.SnapshotPoint, 0)
	for rows.Next() {
		var p model.SnapshotPoint
		if err := rows.Scan(&p.VideoID, &p.YouTubeVideoID, &p.Title, &p.PublishedAt, &p.CapturedAt,
			&p.Stats.ViewCount, &p.Stats.LikeCount, &p.Stats.CommentCount); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		p.PublishedAt = p.PublishedAt.UTC()
		p.CapturedAt = p.CapturedAt.UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanVideos(rows *sql.Rows) ([]model.Video, error) {
	out := make([]model.Video, 0)
	for rows.Next() {
		var v model.Video
		var duration sql.NullInt64
		var tags []byte
		if err := rows.Scan(&v.ID, &v.ChannelID, &v.YouTubeVideoID, &v.Title, &v.Description, &v.PublishedAt,
			&duration, &tags, &v.ThumbnailURL,
			&v.Stats.ViewCount, &v.Stats.LikeCount, &v.Stats.CommentCount); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.PublishedAt = v.PublishedAt.UTC()
		if duration.Valid {
			d := duration.Int64
			v.DurationSec = &d
		}
		v.Tags = unmarshalTags(tags)
		out = append(out, v)
	}
	return out, rows.Err()
}
