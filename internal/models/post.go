package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const MaxPostText = 500

type Post struct {
	ID        bson.ObjectID   `json:"id"        bson:"_id,omitempty"`
	UserID    bson.ObjectID   `json:"userId"    bson:"user_id"`
	Text      string          `json:"text"      bson:"text"`
	Image     string          `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []bson.ObjectID `json:"likes"     bson:"likes"`
	CreatedAt time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updated_at"`
}

func (p *Post) LikedBy(userID bson.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// TimelinePost is a post decorated with a minimal author summary.
type TimelinePost struct {
	Post
	User *UserSummary `json:"user"`
}

type PostPatch struct {
	Text  *string
	Image *string
}

// Position is a keyset bound: rows strictly older than (CreatedAt, ID).
type Position struct {
	CreatedAt time.Time
	ID        bson.ObjectID
}

// PostQuery selects posts newest first. Zero fields do not filter; Limit 0
// means unbounded.
type PostQuery struct {
	AuthorIDs []bson.ObjectID
	// Contains is a case-insensitive literal substring of the text.
	Contains string
	Before   *Position
	Limit    int64
}
