package bootstrap

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"echo-me/internal/repository"
)

// EnsureIndexes creates the unique user keys and the query indexes used by
// the timeline, comment tree and notification lookups.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		repository.ColUsers: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_username"),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_email"),
			},
		},
		repository.ColPosts: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("author_created"),
			},
		},
		repository.ColComments: {
			{
				Keys: bson.D{
					{Key: "post_id", Value: 1},
					{Key: "parent_id", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("post_parent_created"),
			},
			{
				Keys:    bson.D{{Key: "root_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("root_created"),
			},
		},
		repository.ColNotifications: {
			{
				Keys: bson.D{
					{Key: "recipient_id", Value: 1},
					{Key: "read", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("recipient_read_created"),
			},
			{
				Keys: bson.D{
					{Key: "recipient_id", Value: 1},
					{Key: "sender_id", Value: 1},
					{Key: "kind", Value: 1},
					{Key: "post_id", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("dedup_lookup"),
			},
		},
	}

	for col, models := range specs {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes on %s: %w", col, err)
		}
	}
	return nil
}
