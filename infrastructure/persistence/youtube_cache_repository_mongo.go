package persistence

import (
	"context"
	"errors"

	"yt-insights/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const channelUpdateCacheCollection = "channel_update_cache"

// YouTubeCacheRepositoryMongo stores one document per channel, keyed by _id.
type YouTubeCacheRepositoryMongo struct {
	client   *mongo.Client
	database string
}

func NewYouTubeCacheRepositoryMongo(client *mongo.Client, database string) *YouTubeCacheRepositoryMongo {
	return &YouTubeCacheRepositoryMongo{client: client, database: database}
}

func (r *YouTubeCacheRepositoryMongo) collection() *mongo.Collection {
	return r.client.Database(r.database).Collection(channelUpdateCacheCollection)
}

func (r *YouTubeCacheRepositoryMongo) Get(ctx context.Context, youtubeChannelID string) (*model.RateLimitEntry, error) {
	if r.client == nil {
		return nil, nil
	}
	var entry model.RateLimitEntry
	err := r.collection().FindOne(ctx, bson.D{{Key: "_id", Value: youtubeChannelID}}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *YouTubeCacheRepositoryMongo) Put(ctx context.Context, entry model.RateLimitEntry) error {
	if r.client == nil {
		return nil
	}
	_, err := r.collection().ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: entry.YouTubeChannelID}},
		entry,
		options.Replace().SetUpsert(true))
	return err
}

func (r *YouTubeCacheRepositoryMongo) Ping(ctx context.Context) error {
	if r.client == nil {
		return errors.New("mongo rate-limit store not configured")
	}
	return r.client.Ping(ctx, readpref.Primary())
}
