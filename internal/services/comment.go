package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
)

type CommentService struct {
	comments CommentStore
	posts    PostStore
	notis    *NotificationService
	now      func() time.Time
}

func NewCommentService(comments CommentStore, posts PostStore, notis *NotificationService) *CommentService {
	return &CommentService{comments: comments, posts: posts, notis: notis, now: time.Now}
}

func cleanCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.InvalidArgument("comment content is required")
	}
	if utf8.RuneCountInString(text) > models.MaxCommentText {
		return "", apperr.InvalidArgument("comment cannot exceed %d characters", models.MaxCommentText)
	}
	return text, nil
}

// Create stores a comment on postID, or a reply when parentID is set. The
// parent must exist and belong to the same post; this is the only place that
// guarantees it, so the check and the insert share one call.
func (s *CommentService) Create(ctx context.Context, actor, postID bson.ObjectID, text string, parentID *bson.ObjectID) (*models.Comment, error) {
	text, err := cleanCommentText(text)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	var parent *models.Comment
	if parentID != nil {
		parent, err = s.comments.FindByID(ctx, *parentID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return nil, apperr.InvalidReference("parent comment %s does not exist", parentID.Hex())
		case err != nil:
			return nil, err
		case parent.PostID != postID:
			return nil, apperr.InvalidReference("parent comment %s belongs to another post", parentID.Hex())
		}
	}

	now := stamp(s.now)
	c := &models.Comment{
		ID:        bson.NewObjectID(),
		PostID:    postID,
		UserID:    actor,
		Text:      text,
		Likes:     []bson.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parent != nil {
		pid, root := parent.ID, parent.ThreadRoot()
		c.ParentID, c.RootID = &pid, &root
	}

	if err := s.comments.Insert(ctx, c); err != nil {
		return nil, err
	}

	if parent != nil {
		s.notis.NotifyReply(ctx, parent.UserID, actor, postID, c.ID)
	} else {
		s.notis.NotifyComment(ctx, post.UserID, actor, postID, c.ID)
	}
	return c, nil
}

// BuildCommentTree returns the post's top-level comments newest first, each
// with its replies oldest first. Replies to replies are listed under the
// top-level comment of their thread.
func (s *CommentService) BuildCommentTree(ctx context.Context, postID bson.ObjectID) ([]models.CommentThread, error) {
	tops, err := s.comments.FindTopLevel(ctx, postID)
	if err != nil {
		return nil, err
	}
	if len(tops) == 0 {
		return []models.CommentThread{}, nil
	}

	rootIDs := make([]bson.ObjectID, len(tops))
	index := make(map[bson.ObjectID]int, len(tops))
	for i, c := range tops {
		rootIDs[i] = c.ID
		index[c.ID] = i
	}

	replies, err := s.comments.FindReplies(ctx, rootIDs)
	if err != nil {
		return nil, err
	}

	tree := make([]models.CommentThread, len(tops))
	for i, c := range tops {
		tree[i] = models.CommentThread{Comment: c, Replies: []models.Comment{}}
	}
	for _, r := range replies {
		if r.RootID == nil || r.PostID != postID {
			continue
		}
		if i, ok := index[*r.RootID]; ok {
			tree[i].Replies = append(tree[i].Replies, r)
		}
	}
	return tree, nil
}

func (s *CommentService) authored(ctx context.Context, actor, id bson.ObjectID) (*models.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != actor {
		return nil, apperr.Forbidden("not authorized to modify this comment")
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, actor, id bson.ObjectID, text string) (*models.Comment, error) {
	text, err := cleanCommentText(text)
	if err != nil {
		return nil, err
	}
	if _, err := s.authored(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.comments.UpdateText(ctx, id, text, stamp(s.now))
}

// Delete removes the comment together with its replies.
func (s *CommentService) Delete(ctx context.Context, actor, id bson.ObjectID) error {
	if _, err := s.authored(ctx, actor, id); err != nil {
		return err
	}
	n, err := s.comments.DeleteThread(ctx, id)
	if err != nil {
		return err
	}
	log.Printf("comment %s deleted by %s (%d documents)", id.Hex(), actor.Hex(), n)
	return nil
}

// ToggleLike flips actor's membership in the comment's likes and reports the
// new state. Concurrent toggles by the same user race; the last write wins.
func (s *CommentService) ToggleLike(ctx context.Context, actor, id bson.ObjectID) (bool, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if c.LikedBy(actor) {
		return false, s.comments.RemoveLike(ctx, id, actor)
	}
	return true, s.comments.AddLike(ctx, id, actor)
}
