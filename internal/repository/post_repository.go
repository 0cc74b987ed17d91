package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
)

type PostRepository struct {
	Col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{Col: db.Collection(ColPosts)}
}

func (r *PostRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, apperr.FromStore("post", err)
	}
	return &p, nil
}

// postFilter renders q; Before becomes the usual keyset $or on
// (created_at, _id).
func postFilter(q models.PostQuery) bson.M {
	filter := bson.M{}
	if len(q.AuthorIDs) > 0 {
		filter["user_id"] = bson.M{"$in": q.AuthorIDs}
	}
	if q.Contains != "" {
		filter["text"] = containsRegex(q.Contains)
	}
	if q.Before != nil {
		filter["$or"] = []bson.M{
			{"created_at": bson.M{"$lt": q.Before.CreatedAt}},
			{"created_at": q.Before.CreatedAt, "_id": bson.M{"$lt": q.Before.ID}},
		}
	}
	return filter
}

func (r *PostRepository) Find(ctx context.Context, q models.PostQuery) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cur, err := r.Col.Find(ctx, postFilter(q), opts)
	if err != nil {
		return nil, apperr.FromStore("posts", err)
	}
	return decodeAll[models.Post](ctx, "posts", cur)
}

func (r *PostRepository) Insert(ctx context.Context, p *models.Post) error {
	_, err := r.Col.InsertOne(ctx, p)
	return apperr.FromStore("post", err)
}

func (r *PostRepository) Update(ctx context.Context, id bson.ObjectID, patch models.PostPatch, now time.Time) (*models.Post, error) {
	set := bson.M{"updated_at": now}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Post
	if err := r.Col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		return nil, apperr.FromStore("post", err)
	}
	return &p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return deleted("post", res, err)
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID bson.ObjectID) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$addToSet": bson.M{"likes": userID}})
	return matched("post", res, err)
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID bson.ObjectID) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$pull": bson.M{"likes": userID}})
	return matched("post", res, err)
}
