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

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection(ColUsers)}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.Col.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, apperr.FromStore("user", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindSummaries(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.UserSummary, error) {
	out := make(map[bson.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1, "username": 1, "profile_picture": 1})
	cur, err := r.Col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, apperr.FromStore("users", err)
	}
	rows, err := decodeAll[models.UserSummary](ctx, "users", cur)
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		out[s.ID] = s
	}
	return out, nil
}

func (r *UserRepository) Search(ctx context.Context, contains string, limit int64) ([]models.User, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.Col.Find(ctx, bson.M{"username": containsRegex(contains)}, opts)
	if err != nil {
		return nil, apperr.FromStore("users", err)
	}
	return decodeAll[models.User](ctx, "users", cur)
}

func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	_, err := r.Col.InsertOne(ctx, u)
	return apperr.FromStore("user", err)
}

func (r *UserRepository) Update(ctx context.Context, id bson.ObjectID, patch models.UserPatch, now time.Time) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := r.Col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch.Set(now)}, opts).Decode(&u)
	if err != nil {
		return nil, apperr.FromStore("user", err)
	}
	return &u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return deleted("user", res, err)
}

func (r *UserRepository) edge(ctx context.Context, userID bson.ObjectID, op, field string, other bson.ObjectID) error {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{op: bson.M{field: other}},
	)
	return matched("user", res, err)
}

func (r *UserRepository) AddFollowing(ctx context.Context, userID, followeeID bson.ObjectID) error {
	return r.edge(ctx, userID, "$addToSet", "followings", followeeID)
}

func (r *UserRepository) RemoveFollowing(ctx context.Context, userID, followeeID bson.ObjectID) error {
	return r.edge(ctx, userID, "$pull", "followings", followeeID)
}

func (r *UserRepository) AddFollower(ctx context.Context, userID, followerID bson.ObjectID) error {
	return r.edge(ctx, userID, "$addToSet", "followers", followerID)
}

func (r *UserRepository) RemoveFollower(ctx context.Context, userID, followerID bson.ObjectID) error {
	return r.edge(ctx, userID, "$pull", "followers", followerID)
}
