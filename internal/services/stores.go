package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/models"
)

// Lookups that miss return an error wrapping apperr.ErrNotFound; driver
// failures wrap apperr.ErrTimeout or apperr.ErrStoreUnavailable.

type UserStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindSummaries resolves many authors in one round-trip. Unknown ids are
	// absent from the result.
	FindSummaries(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.UserSummary, error)
	Search(ctx context.Context, contains string, limit int64) ([]models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id bson.ObjectID, patch models.UserPatch, now time.Time) (*models.User, error)
	Delete(ctx context.Context, id bson.ObjectID) error

	AddFollowing(ctx context.Context, userID, followeeID bson.ObjectID) error
	RemoveFollowing(ctx context.Context, userID, followeeID bson.ObjectID) error
	AddFollower(ctx context.Context, userID, followerID bson.ObjectID) error
	RemoveFollower(ctx context.Context, userID, followerID bson.ObjectID) error
}

type PostStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	Find(ctx context.Context, q models.PostQuery) ([]models.Post, error)
	Insert(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, id bson.ObjectID, patch models.PostPatch, now time.Time) (*models.Post, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	AddLike(ctx context.Context, postID, userID bson.ObjectID) error
	RemoveLike(ctx context.Context, postID, userID bson.ObjectID) error
}

type CommentStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Comment, error)
	// FindTopLevel returns the post's comments without a parent, newest first.
	FindTopLevel(ctx context.Context, postID bson.ObjectID) ([]models.Comment, error)
	// FindReplies returns comments whose RootID is one of rootIDs, oldest first.
	FindReplies(ctx context.Context, rootIDs []bson.ObjectID) ([]models.Comment, error)
	Insert(ctx context.Context, c *models.Comment) error
	UpdateText(ctx context.Context, id bson.ObjectID, text string, now time.Time) (*models.Comment, error)
	// DeleteThread removes the comment and every reply beneath it at any depth.
	DeleteThread(ctx context.Context, id bson.ObjectID) (int64, error)
	DeleteByPost(ctx context.Context, postID bson.ObjectID) (int64, error)
	AddLike(ctx context.Context, commentID, userID bson.ObjectID) error
	RemoveLike(ctx context.Context, commentID, userID bson.ObjectID) error
}

type NotificationStore interface {
	// FindRecent returns the newest notification matching key created at or
	// after since.
	FindRecent(ctx context.Context, key models.NotiKey, since time.Time) (*models.Notification, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Notification, error)
	Insert(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID bson.ObjectID, skip, limit int64) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID bson.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id bson.ObjectID, at time.Time) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID bson.ObjectID, at time.Time) (int64, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// stamp truncates to the millisecond precision of stored BSON dates so that
// in-memory values and cursors agree with what a round-trip returns.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}
