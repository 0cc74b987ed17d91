package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
)

const DefaultNotiWindow = time.Minute

// NotiContext carries the optional references stored on a notification.
type NotiContext struct {
	PostID    *bson.ObjectID
	CommentID *bson.ObjectID
}

func BuildMessage(kind models.NotiKind) (string, error) {
	switch kind {
	case models.NotiLike:
		return "liked your post", nil
	case models.NotiComment:
		return "commented on your post", nil
	case models.NotiReply:
		return "replied to your comment", nil
	case models.NotiFollow:
		return "started following you", nil
	}
	return "", fmt.Errorf("unknown noti kind: %s", kind)
}

// NotificationService creates notifications for user actions and serves the
// recipient's inbox.
//
// Delivery is best-effort: Notify never returns an error, so the action that
// triggered it cannot fail because of it. The dedup check is a read followed
// by a write and is not atomic; two identical actions racing inside the
// window may both be stored.
type NotificationService struct {
	store  NotificationStore
	window time.Duration
	now    func() time.Time
}

func NewNotificationService(store NotificationStore, window time.Duration) *NotificationService {
	if window <= 0 {
		window = DefaultNotiWindow
	}
	return &NotificationService{store: store, window: window, now: time.Now}
}

// Notify returns the stored notification, the coalesced earlier one, or nil
// when the action is a self-action or persistence failed.
func (s *NotificationService) Notify(ctx context.Context, kind models.NotiKind,
	recipient, sender bson.ObjectID, nc NotiContext) *models.Notification {

	if recipient == sender {
		return nil
	}

	message, err := BuildMessage(kind)
	if err != nil {
		log.Printf("notify %s -> %s: %v", sender.Hex(), recipient.Hex(), err)
		return nil
	}

	now := stamp(s.now)
	key := models.NotiKey{RecipientID: recipient, SenderID: sender, Kind: kind, PostID: nc.PostID}

	existing, err := s.store.FindRecent(ctx, key, now.Add(-s.window))
	switch {
	case err == nil:
		return existing
	case !errors.Is(err, apperr.ErrNotFound):
		log.Printf("notify %s %s -> %s: dedup lookup: %v", kind, sender.Hex(), recipient.Hex(), err)
		return nil
	}

	n := &models.Notification{
		ID:          bson.NewObjectID(),
		RecipientID: recipient,
		SenderID:    sender,
		Kind:        kind,
		PostID:      nc.PostID,
		CommentID:   nc.CommentID,
		Message:     message,
		CreatedAt:   now,
	}
	if err := s.store.Insert(ctx, n); err != nil {
		log.Printf("notify %s %s -> %s: insert: %v", kind, sender.Hex(), recipient.Hex(), err)
		return nil
	}
	return n
}

func (s *NotificationService) NotifyPostLike(ctx context.Context, postOwner, liker, postID bson.ObjectID) *models.Notification {
	return s.Notify(ctx, models.NotiLike, postOwner, liker, NotiContext{PostID: &postID})
}

func (s *NotificationService) NotifyComment(ctx context.Context, postOwner, commenter, postID, commentID bson.ObjectID) *models.Notification {
	return s.Notify(ctx, models.NotiComment, postOwner, commenter, NotiContext{PostID: &postID, CommentID: &commentID})
}

func (s *NotificationService) NotifyReply(ctx context.Context, commentOwner, replier, postID, commentID bson.ObjectID) *models.Notification {
	return s.Notify(ctx, models.NotiReply, commentOwner, replier, NotiContext{PostID: &postID, CommentID: &commentID})
}

func (s *NotificationService) NotifyFollow(ctx context.Context, followed, follower bson.ObjectID) *models.Notification {
	return s.Notify(ctx, models.NotiFollow, followed, follower, NotiContext{})
}

type NotificationPage struct {
	Items []models.Notification `json:"data"`
	Count int                   `json:"count"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Pages int                   `json:"pages"`
}

func (s *NotificationService) List(ctx context.Context, recipient bson.ObjectID, page, limit int) (NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return NotificationPage{}, apperr.InvalidArgument("limit must be positive")
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return NotificationPage{}, apperr.InvalidArgument("page is out of range")
	}
	skip := int64(page-1) * int64(limit)

	items, total, err := s.store.ListByRecipient(ctx, recipient, skip, int64(limit))
	if err != nil {
		return NotificationPage{}, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return NotificationPage{
		Items: items,
		Count: len(items),
		Total: total,
		Page:  page,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipient bson.ObjectID) (int64, error) {
	return s.store.CountUnread(ctx, recipient)
}

func (s *NotificationService) owned(ctx context.Context, actor, id bson.ObjectID) error {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != actor {
		return apperr.Forbidden("notification belongs to another user")
	}
	return nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor, id bson.ObjectID) (*models.Notification, error) {
	if err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.store.MarkRead(ctx, id, stamp(s.now))
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor bson.ObjectID) (int64, error) {
	return s.store.MarkAllRead(ctx, actor, stamp(s.now))
}

func (s *NotificationService) Delete(ctx context.Context, actor, id bson.ObjectID) error {
	if err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
