package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const MaxCommentText = 500

type Comment struct {
	ID     bson.ObjectID `json:"id"     bson:"_id,omitempty"`
	PostID bson.ObjectID `json:"postId" bson:"post_id"`
	UserID bson.ObjectID `json:"userId" bson:"user_id"`
	Text   string        `json:"text"   bson:"text"`
	// ParentID is the comment being answered; RootID the top-level comment
	// of the thread. Both are nil for top-level comments.
	ParentID  *bson.ObjectID  `json:"parentId" bson:"parent_id"`
	RootID    *bson.ObjectID  `json:"rootId"   bson:"root_id"`
	Likes     []bson.ObjectID `json:"likes"     bson:"likes"`
	CreatedAt time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updated_at"`
}

func (c *Comment) IsTopLevel() bool { return c.ParentID == nil }

// ThreadRoot is the id replies to c should carry as RootID.
func (c *Comment) ThreadRoot() bson.ObjectID {
	if c.RootID != nil {
		return *c.RootID
	}
	return c.ID
}

func (c *Comment) LikedBy(userID bson.ObjectID) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}

// Subtree returns id followed by every comment in thread that descends from
// it through ParentID. thread holds the comments sharing one RootID.
func Subtree(id bson.ObjectID, thread []Comment) []bson.ObjectID {
	children := make(map[bson.ObjectID][]bson.ObjectID)
	for _, c := range thread {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	out := []bson.ObjectID{id}
	seen := map[bson.ObjectID]bool{id: true}
	for i := 0; i < len(out); i++ {
		for _, child := range children[out[i]] {
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
			}
		}
	}
	return out
}
