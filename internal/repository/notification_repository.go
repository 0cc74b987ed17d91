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

type NotificationRepository struct {
	Col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{Col: db.Collection(ColNotifications)}
}

func (r *NotificationRepository) FindRecent(ctx context.Context, key models.NotiKey, since time.Time) (*models.Notification, error) {
	filter := bson.M{
		"recipient_id": key.RecipientID,
		"sender_id":    key.SenderID,
		"kind":         key.Kind,
		"post_id":      key.PostID,
		"created_at":   bson.M{"$gte": since},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var n models.Notification
	if err := r.Col.FindOne(ctx, filter, opts).Decode(&n); err != nil {
		return nil, apperr.FromStore("notification", err)
	}
	return &n, nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Notification, error) {
	var n models.Notification
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, apperr.FromStore("notification", err)
	}
	return &n, nil
}

func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	_, err := r.Col.InsertOne(ctx, n)
	return apperr.FromStore("notification", err)
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID bson.ObjectID, skip, limit int64) ([]models.Notification, int64, error) {
	if skip < 0 || limit < 0 {
		return nil, 0, apperr.InvalidArgument("skip and limit must not be negative")
	}
	filter := bson.M{"recipient_id": recipientID}
	total, err := r.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.FromStore("notifications", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.FromStore("notifications", err)
	}
	items, err := decodeAll[models.Notification](ctx, "notifications", cur)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID bson.ObjectID) (int64, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
	if err != nil {
		return 0, apperr.FromStore("notifications", err)
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id bson.ObjectID, at time.Time) (*models.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n models.Notification
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"read": true, "read_at": at}},
		opts,
	).Decode(&n)
	if err != nil {
		return nil, apperr.FromStore("notification", err)
	}
	return &n, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID bson.ObjectID, at time.Time) (int64, error) {
	res, err := r.Col.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": at}},
	)
	if err != nil {
		return 0, apperr.FromStore("notifications", err)
	}
	return res.ModifiedCount, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return deleted("notification", res, err)
}
