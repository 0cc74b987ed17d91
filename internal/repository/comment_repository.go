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

type CommentRepository struct {
	Col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{Col: db.Collection(ColComments)}
}

func (r *CommentRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Comment, error) {
	var c models.Comment
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, apperr.FromStore("comment", err)
	}
	return &c, nil
}

func (r *CommentRepository) FindTopLevel(ctx context.Context, postID bson.ObjectID) ([]models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"post_id": postID, "parent_id": nil}, opts)
	if err != nil {
		return nil, apperr.FromStore("comments", err)
	}
	return decodeAll[models.Comment](ctx, "comments", cur)
}

func (r *CommentRepository) FindReplies(ctx context.Context, rootIDs []bson.ObjectID) ([]models.Comment, error) {
	if len(rootIDs) == 0 {
		return []models.Comment{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"root_id": bson.M{"$in": rootIDs}}, opts)
	if err != nil {
		return nil, apperr.FromStore("comments", err)
	}
	return decodeAll[models.Comment](ctx, "comments", cur)
}

func (r *CommentRepository) Insert(ctx context.Context, c *models.Comment) error {
	_, err := r.Col.InsertOne(ctx, c)
	return apperr.FromStore("comment", err)
}

func (r *CommentRepository) UpdateText(ctx context.Context, id bson.ObjectID, text string, now time.Time) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Comment
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"text": text, "updated_at": now}},
		opts,
	).Decode(&c)
	if err != nil {
		return nil, apperr.FromStore("comment", err)
	}
	return &c, nil
}

func (r *CommentRepository) DeleteThread(ctx context.Context, id bson.ObjectID) (int64, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	cur, err := r.Col.Find(ctx, bson.M{"root_id": c.ThreadRoot()},
		options.Find().SetProjection(bson.M{"_id": 1, "parent_id": 1}))
	if err != nil {
		return 0, apperr.FromStore("comments", err)
	}
	thread, err := decodeAll[models.Comment](ctx, "comments", cur)
	if err != nil {
		return 0, err
	}

	res, err := r.Col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": models.Subtree(id, thread)}})
	if err != nil {
		return 0, apperr.FromStore("comment", err)
	}
	if res.DeletedCount == 0 {
		return 0, apperr.NotFound("comment")
	}
	return res.DeletedCount, nil
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID bson.ObjectID) (int64, error) {
	res, err := r.Col.DeleteMany(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, apperr.FromStore("comments", err)
	}
	return res.DeletedCount, nil
}

func (r *CommentRepository) AddLike(ctx context.Context, commentID, userID bson.ObjectID) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": commentID}, bson.M{"$addToSet": bson.M{"likes": userID}})
	return matched("comment", res, err)
}

func (r *CommentRepository) RemoveLike(ctx context.Context, commentID, userID bson.ObjectID) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": commentID}, bson.M{"$pull": bson.M{"likes": userID}})
	return matched("comment", res, err)
}
