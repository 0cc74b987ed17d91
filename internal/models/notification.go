package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotiKind string

const (
	NotiFollow  NotiKind = "follow"
	NotiLike    NotiKind = "like"
	NotiComment NotiKind = "comment"
	NotiReply   NotiKind = "reply"
)

func (k NotiKind) Valid() bool {
	switch k {
	case NotiFollow, NotiLike, NotiComment, NotiReply:
		return true
	}
	return false
}

type Notification struct {
	ID          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	RecipientID bson.ObjectID  `bson:"recipient_id"  json:"recipientId"`
	SenderID    bson.ObjectID  `bson:"sender_id"     json:"senderId"`
	Kind        NotiKind       `bson:"kind"          json:"type"`
	PostID      *bson.ObjectID `bson:"post_id"       json:"postId"`
	CommentID   *bson.ObjectID `bson:"comment_id"    json:"commentId"`
	Message     string         `bson:"message"       json:"message"`
	Read        bool           `bson:"read"          json:"read"`
	ReadAt      *time.Time     `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time      `bson:"created_at"    json:"createdAt"`
}

// NotiKey identifies notifications that coalesce within the dedup window.
type NotiKey struct {
	RecipientID bson.ObjectID
	SenderID    bson.ObjectID
	Kind        NotiKind
	PostID      *bson.ObjectID
}

func (n *Notification) Key() NotiKey {
	return NotiKey{RecipientID: n.RecipientID, SenderID: n.SenderID, Kind: n.Kind, PostID: n.PostID}
}
