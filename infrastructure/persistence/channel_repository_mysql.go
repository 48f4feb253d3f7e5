package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yt-insights/domain/dto"
	"yt-insights/domain/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var mysqlTables = []string{
	`CREATE TABLE IF NOT EXISTS channels (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        youtube_channel_id VARCHAR(64) NOT NULL UNIQUE,
        title VARCHAR(255) NOT NULL,
        description TEXT,
        published_at DATETIME(6) NULL,
        subscriber_count BIGINT NULL,
        video_count BIGINT NULL,
        view_count BIGINT NULL,
        created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
        updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
    )`,
	`CREATE TABLE IF NOT EXISTS videos (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        channel_id BIGINT NOT NULL,
        youtube_video_id VARCHAR(64) NOT NULL UNIQUE,
        title VARCHAR(255) NOT NULL,
        description TEXT,
        published_at DATETIME(6) NOT NULL,
        duration_sec BIGINT NULL,
        tags_json JSON NULL,
        thumbnail_url VARCHAR(512),
        created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
        updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
        INDEX idx_videos_channel_id (channel_id),
        INDEX idx_videos_published_at (published_at),
        INDEX idx_videos_channel_published (channel_id, published_at),
        CONSTRAINT fk_videos_channel FOREIGN KEY (channel_id) REFERENCES channels(id) ON DELETE CASCADE
    )`,
	`CREATE TABLE IF NOT EXISTS video_stats_history (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        video_id BIGINT NOT NULL,
        captured_at DATETIME(6) NOT NULL,
        view_count BIGINT NOT NULL,
        like_count BIGINT NULL,
        comment_count BIGINT NULL,
        created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
        INDEX idx_stats_video_captured (video_id, captured_at),
        CONSTRAINT fk_stats_video FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE
    )`,
}

// EnsureSchemaMySQL creates the tables on MySQL 8 if not exists.
func EnsureSchemaMySQL(ctx context.Context, db *gorm.DB, log *logrus.Logger) error {
	for _, ddl := range mysqlTables {
		if err := db.WithContext(ctx).Exec(ddl).Error; err != nil {
			return fmt.Errorf("create table (mysql): %w", err)
		}
	}
	log.Debug("mysql schema ensured")
	return nil
}

// latestStatsCTEMySQL binds one ? = channel id.
const latestStatsCTEMySQL = `WITH latest AS (
    SELECT h.video_id, h.view_count, h.like_count, h.comment_count,
           ROW_NUMBER() OVER (PARTITION BY h.video_id ORDER BY h.captured_at DESC, h.id DESC) AS rn
    FROM video_stats_history h
    JOIN videos vv ON vv.id = h.video_id
    WHERE vv.channel_id = ?
)`

const channelSelectMySQL = `SELECT id, youtube_channel_id, title, COALESCE(description, '') AS description, published_at,
        COALESCE(subscriber_count, 0) AS subscriber_count, COALESCE(video_count, 0) AS video_count,
        COALESCE(view_count, 0) AS view_count, created_at, updated_at FROM channels`

const videoSelectMySQL = `SELECT v.id, v.channel_id, v.youtube_video_id, v.title, COALESCE(v.description, '') AS description,
       v.published_at, v.duration_sec, v.tags_json, COALESCE(v.thumbnail_url, '') AS thumbnail_url,
       COALESCE(l.view_count, 0) AS view_count, COALESCE(l.like_count, 0) AS like_count,
       COALESCE(l.comment_count, 0) AS comment_count
FROM videos v
LEFT JOIN latest l ON l.video_id = v.id AND l.rn = 1`

type channelRecord struct {
	ID               int64      `gorm:"column:id"`
	YouTubeChannelID string     `gorm:"column:youtube_channel_id"`
	Title            string     `gorm:"column:title"`
	Description      string     `gorm:"column:description"`
	PublishedAt      *time.Time `gorm:"column:published_at"`
	SubscriberCount  int64      `gorm:"column:subscriber_count"`
	VideoCount       int64      `gorm:"column:video_count"`
	ViewCount        int64      `gorm:"column:view_count"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (c channelRecord) toModel() model.Channel {
	ch := model.Channel{
		ID:               c.ID,
		YouTubeChannelID: c.YouTubeChannelID,
		Title:            c.Title,
		Description:      c.Description,
		SubscriberCount:  c.SubscriberCount,
		VideoCount:       c.VideoCount,
		ViewCount:        c.ViewCount,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.PublishedAt != nil {
		t := c.PublishedAt.UTC()
		ch.PublishedAt = &t
	}
	return ch
}

type videoRecord struct {
	ID             int64     `gorm:"column:id"`
	ChannelID      int64     `gorm:"column:channel_id"`
	YouTubeVideoID string    `gorm:"column:youtube_video_id"`
	Title          string    `gorm:"column:title"`
	Description    string    `gorm:"column:description"`
	PublishedAt    time.Time `gorm:"column:published_at"`
	DurationSec    *int64    `gorm:"column:duration_sec"`
	TagsJSON       []byte    `gorm:"column:tags_json"`
	ThumbnailURL   string    `gorm:"column:thumbnail_url"`
	ViewCount      int64     `gorm:"column:view_count"`
	LikeCount      int64     `gorm:"column:like_count"`
	CommentCount   int64     `gorm:"column:comment_count"`
}

func (v videoRecord) toModel() model.Video {
	return model.Video{
		ID:             v.ID,
		ChannelID:      v.ChannelID,
		YouTubeVideoID: v.YouTubeVideoID,
		Title:          v.Title,
		Description:    v.Description,
		PublishedAt:    v.PublishedAt.UTC(),
		DurationSec:    v.DurationSec,
		Tags:           unmarshalTags(v.TagsJSON),
		ThumbnailURL:   v.ThumbnailURL,
		Stats:          model.VideoStats{ViewCount: v.ViewCount, LikeCount: v.LikeCount, CommentCount: v.CommentCount},
	}
}

// statsHistoryRecord is the gorm model of one appended snapshot.
type statsHistoryRecord struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	VideoID      int64     `gorm:"column:video_id"`
	CapturedAt   time.Time `gorm:"column:captured_at"`
	ViewCount    int64     `gorm:"column:view_count"`
	LikeCount    *int64    `gorm:"column:like_count"`
	CommentCount *int64    `gorm:"column:comment_count"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (statsHistoryRecord) TableName() string { return "video_stats_history" }

type videoIDRecord struct {
	ID             int64  `gorm:"column:id"`
	YouTubeVideoID string `gorm:"column:youtube_video_id"`
}

// ChannelRepositoryMySQL implements repository.IChannel on MySQL through gorm
type ChannelRepositoryMySQL struct {
	db *gorm.DB
}

func NewChannelRepositoryMySQL(db *gorm.DB) *ChannelRepositoryMySQL {
	return &ChannelRepositoryMySQL{db: db}
}

// SaveImport writes the import in one transaction. MySQL reports no id for an
// updated row, so the channel and video ids are looked up after each upsert.
func (r *ChannelRepositoryMySQL) SaveImport(ctx context.Context, channel *model.Channel, videos []model.Video, capturedAt time.Time) (int64, error) {
	var channelID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := tx.Exec(`INSERT INTO channels (youtube_channel_id, title, description, published_at, subscriber_count, video_count, view_count, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?)
        ON DUPLICATE KEY UPDATE title=VALUES(title), description=VALUES(description), published_at=VALUES(published_at),
        subscriber_count=VALUES(subscriber_count), video_count=VALUES(video_count), view_count=VALUES(view_count), updated_at=VALUES(updated_at)`,
			channel.YouTubeChannelID, channel.Title, channel.Description, channel.PublishedAt,
			channel.SubscriberCount, channel.VideoCount, channel.ViewCount, now, now).Error; err != nil {
			return fmt.Errorf("upsert channel %s: %w", channel.YouTubeChannelID, err)
		}
		if err := tx.Raw(`SELECT id FROM channels WHERE youtube_channel_id = ?`, channel.YouTubeChannelID).Scan(&channelID).Error; err != nil {
			return fmt.Errorf("resolve channel id: %w", err)
		}
		if len(videos) == 0 {
			return nil
		}

		ytIDs := make([]string, 0, len(videos))
		for i := range videos {
			v := &videos[i]
			tags, err := marshalTags(v.Tags)
			if err != nil {
				return err
			}
			if err := tx.Exec(`INSERT INTO videos (channel_id, youtube_video_id, title, description, published_at, duration_sec, tags_json, thumbnail_url, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?)
        ON DUPLICATE KEY UPDATE channel_id=VALUES(channel_id), title=VALUES(title), description=VALUES(description),
        published_at=VALUES(published_at), duration_sec=VALUES(duration_sec), tags_json=VALUES(tags_json),
        thumbnail_url=VALUES(thumbnail_url), updated_at=VALUES(updated_at)`,
				channelID, v.YouTubeVideoID, v.Title, v.Description, v.PublishedAt.UTC(), v.DurationSec, tags, v.ThumbnailURL, now, now).Error; err != nil {
				return fmt.Errorf("upsert video %s: %w", v.YouTubeVideoID, err)
			}
			ytIDs = append(ytIDs, v.YouTubeVideoID)
		}

		var idRows []videoIDRecord
		if err := tx.Raw(`SELECT id, youtube_video_id FROM videos WHERE youtube_video_id IN ?`, ytIDs).Scan(&idRows).Error; err != nil {
			return fmt.Errorf("resolve video ids: %w", err)
		}
		ids := make(map[string]int64, len(idRows))
		for _, row := range idRows {
			ids[row.YouTubeVideoID] = row.ID
		}

		snapshots := make([]statsHistoryRecord, 0, len(videos))
		for i := range videos {
			v := &videos[i]
			id, ok := ids[v.YouTubeVideoID]
			if !ok {
				return fmt.Errorf("video %s missing after upsert", v.YouTubeVideoID)
			}
			likes, comments := v.Stats.LikeCount, v.Stats.CommentCount
			snapshots = append(snapshots, statsHistoryRecord{
				VideoID:      id,
				CapturedAt:   capturedAt.UTC(),
				ViewCount:    v.Stats.ViewCount,
				LikeCount:    &likes,
				CommentCount: &comments,
			})
		}
		if err := tx.CreateInBatches(&snapshots, 500).Error; err != nil {
			return fmt.Errorf("insert snapshots: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return channelID, nil
}

func (r *ChannelRepositoryMySQL) getOne(ctx context.Context, where string, arg any) (*model.Channel, error) {
	var rows []channelRecord
	if err := r.db.WithContext(ctx).Raw(channelSelectMySQL+` WHERE `+where, arg).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	ch := rows[0].toModel()
	return &ch, nil
}

func (r *ChannelRepositoryMySQL) GetByID(ctx context.Context, id int64) (*model.Channel, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *ChannelRepositoryMySQL) GetByYouTubeID(ctx context.Context, youtubeChannelID string) (*model.Channel, error) {
	return r.getOne(ctx, `youtube_channel_id = ?`, youtubeChannelID)
}

func (r *ChannelRepositoryMySQL) GetByIDs(ctx context.Context, ids []int64) ([]model.Channel, error) {
	if len(ids) == 0 {
		return []model.Channel{}, nil
	}
	var rows []channelRecord
	if err := r.db.WithContext(ctx).Raw(channelSelectMySQL+` WHERE id IN ? ORDER BY id DESC`, ids).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get channels by ids: %w", err)
	}
	return toChannels(rows), nil
}

func (r *ChannelRepositoryMySQL) List(ctx context.Context, filter dto.ChannelListFilter) ([]model.Channel, int64, error) {
	pattern := "%" + filter.Q + "%"
	var total int64
	if err := r.db.WithContext(ctx).Raw(`SELECT COUNT(1) FROM channels WHERE title LIKE ?`, pattern).Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count channels: %w", err)
	}
	var rows []channelRecord
	if err := r.db.WithContext(ctx).Raw(channelSelectMySQL+` WHERE title LIKE ? ORDER BY id DESC LIMIT ? OFFSET ?`,
		pattern, filter.Limit, filter.Offset).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list channels: %w", err)
	}
	return toChannels(rows), total, nil
}

func (r *ChannelRepositoryMySQL) Summary(ctx context.Context, channelID int64) (*model.ChannelSummary, error) {
	var s struct {
		TotalVideos int64 `gorm:"column:total_videos"`
		TotalViews  int64 `gorm:"column:total_views"`
	}
	err := r.db.WithContext(ctx).Raw(latestStatsCTEMySQL+`
SELECT COUNT(v.id) AS total_videos, COALESCE(SUM(COALESCE(l.view_count, 0)), 0) AS total_views
FROM videos v
LEFT JOIN latest l ON l.video_id = v.id AND l.rn = 1
WHERE v.channel_id = ?`, channelID, channelID).Scan(&s).Error
	if err != nil {
		return nil, fmt.Errorf("summarize channel %d: %w", channelID, err)
	}
	return &model.ChannelSummary{TotalVideos: s.TotalVideos, TotalViews: s.TotalViews}, nil
}

func toChannels(rows []channelRecord) []model.Channel {
	out := make([]model.Channel, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out
}

// VideoRepositoryMySQL implements repository.IVideo on MySQL through gorm
type VideoRepositoryMySQL struct {
	db *gorm.DB
}

func NewVideoRepositoryMySQL(db *gorm.DB) *VideoRepositoryMySQL {
	return &VideoRepositoryMySQL{db: db}
}

func (r *VideoRepositoryMySQL) ListByChannel(ctx context.Context, channelID int64, filter dto.VideoListFilter) ([]model.Video, int64, error) {
	where := []string{"v.channel_id = ?"}
	args := []any{channelID, channelID}
	if filter.From != nil {
		where = append(where, "v.published_at >= ?")
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		where = append(where, "v.published_at < ?")
		args = append(args, filter.To.UTC().Add(24*time.Hour))
	}
	if filter.MinViews != nil {
		where = append(where, "COALESCE(l.view_count, 0) >= ?")
		args = append(args, *filter.MinViews)
	}
	cond := `
WHERE ` + strings.Join(where, " AND ")

	var total int64
	if err := r.db.WithContext(ctx).Raw(latestStatsCTEMySQL+`
SELECT COUNT(1)
FROM videos v
LEFT JOIN latest l ON l.video_id = v.id AND l.rn = 1`+cond, args...).Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}
	if total == 0 {
		return []model.Video{}, 0, nil
	}

	var rows []videoRecord
	args = append(args, filter.Limit, filter.Offset)
	if err := r.db.WithContext(ctx).Raw(latestStatsCTEMySQL+`
`+videoSelectMySQL+cond+`
ORDER BY `+orderByFor(filter.Sort)+`, v.id DESC
LIMIT ? OFFSET ?`, args...).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	return toVideos(rows), total, nil
}

func (r *VideoRepositoryMySQL) ListWithLatestStats(ctx context.Context, channelID int64) ([]model.Video, error) {
	var rows []videoRecord
	if err := r.db.WithContext(ctx).Raw(latestStatsCTEMySQL+`
`+videoSelectMySQL+`
WHERE v.channel_id = ?
ORDER BY v.published_at DESC, v.id DESC`, channelID, channelID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list videos with stats: %w", err)
	}
	return toVideos(rows), nil
}

func (r *VideoRepositoryMySQL) StatsHistory(ctx context.Context, channelID int64, videoIDs []int64, since time.Time) ([]model.SnapshotPoint, error) {
	query := `SELECT v.id AS video_id, v.youtube_video_id, v.title, v.published_at, h.captured_at,
       h.view_count, COALESCE(h.like_count, 0) AS like_count, COALESCE(h.comment_count, 0) AS comment_count
FROM video_stats_history h
JOIN videos v ON v.id = h.video_id
WHERE v.channel_id = ? AND h.captured_at >= ?`
	args := []any{channelID, since.UTC()}
	if len(videoIDs) > 0 {
		query += ` AND v.id IN ?`
		args = append(args, videoIDs)
	}
	query += `
ORDER BY v.id, h.captured_at, h.id`

	var rows []struct {
		VideoID        int64     `gorm:"column:video_id"`
		YouTubeVideoID string    `gorm:"column:youtube_video_id"`
		Title          string    `gorm:"column:title"`
		PublishedAt    time.Time `gorm:"column:published_at"`
		CapturedAt     time.Time `gorm:"column:captured_at"`
		ViewCount      int64     `gorm:"column:view_count"`
		LikeCount      int64     `gorm:"column:like_count"`
		CommentCount   int64     `gorm:"column:comment_count"`
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("stats history: %w", err)
	}
	out := make([]model.SnapshotPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.SnapshotPoint{
			VideoID:        row.VideoID,
			YouTubeVideoID: row.YouTubeVideoID,
			Title:          row.Title,
			PublishedAt:    row.PublishedAt.UTC(),
			CapturedAt:     row.CapturedAt.UTC(),
			Stats:          model.VideoStats{ViewCount: row.ViewCount, LikeCount: row.LikeCount, CommentCount: row.CommentCount},
		})
	}
	return out, nil
}

func toVideos(rows []videoRecord) []model.Video {
	out := make([]model.Video, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out
}
