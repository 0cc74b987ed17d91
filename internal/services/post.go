package services

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
)

type PostService struct {
	posts    PostStore
	users    UserStore
	comments CommentStore
	notis    *NotificationService
	now      func() time.Time
}

func NewPostService(posts PostStore, users UserStore, comments CommentStore, notis *NotificationService) *PostService {
	return &PostService{posts: posts, users: users, comments: comments, notis: notis, now: time.Now}
}

func checkPostText(text string) error {
	if utf8.RuneCountInString(text) > models.MaxPostText {
		return apperr.InvalidArgument("post text must be at most %d characters", models.MaxPostText)
	}
	return nil
}

func (s *PostService) Create(ctx context.Context, actor bson.ObjectID, text, image string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	image = strings.TrimSpace(image)
	if err := checkPostText(text); err != nil {
		return nil, err
	}
	if text == "" && image == "" {
		return nil, apperr.InvalidArgument("post needs text or an image")
	}

	now := stamp(s.now)
	p := &models.Post{
		ID:        bson.NewObjectID(),
		UserID:    actor,
		Text:      text,
		Image:     image,
		Likes:     []bson.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Insert(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("post %s created by %s", p.ID.Hex(), actor.Hex())
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	return s.posts.FindByID(ctx, id)
}

func (s *PostService) authored(ctx context.Context, actor, id bson.ObjectID, verb string) error {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != actor {
		return apperr.Forbidden("you can %s only your post", verb)
	}
	return nil
}

func (s *PostService) Update(ctx context.Context, actor, id bson.ObjectID, patch models.PostPatch) (*models.Post, error) {
	if patch.Text != nil {
		t := strings.TrimSpace(*patch.Text)
		if err := checkPostText(t); err != nil {
			return nil, err
		}
		patch.Text = &t
	}
	if err := s.authored(ctx, actor, id, "update"); err != nil {
		return nil, err
	}
	return s.posts.Update(ctx, id, patch, stamp(s.now))
}

// Delete removes the post, then its comments. A failure on the comments is
// logged; the orphans are unreachable through the API.
func (s *PostService) Delete(ctx context.Context, actor, id bson.ObjectID) error {
	if err := s.authored(ctx, actor, id, "delete"); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	if _, err := s.comments.DeleteByPost(ctx, id); err != nil {
		log.Printf("post %s deleted, comments cleanup failed: %v", id.Hex(), err)
	}
	log.Printf("post %s deleted by %s", id.Hex(), actor.Hex())
	return nil
}

// ToggleLike adds or removes actor from the post's likes and reports whether
// the post is now liked. It reads, branches, then writes a set operation:
// concurrent toggles by one user are not serialized and the last write wins.
// Only a like-on notifies the author.
func (s *PostService) ToggleLike(ctx context.Context, actor, id bson.ObjectID) (bool, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if p.LikedBy(actor) {
		return false, s.posts.RemoveLike(ctx, id, actor)
	}
	if err := s.posts.AddLike(ctx, id, actor); err != nil {
		return false, err
	}
	s.notis.NotifyPostLike(ctx, p.UserID, actor, id)
	return true, nil
}

// Profile lists username's posts newest first, limit+1 rows at a time to
// detect a following page.
func (s *PostService) Profile(ctx context.Context, username string, before *models.Position, limit int64) ([]models.Post, *models.Position, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.posts.Find(ctx, models.PostQuery{
		AuthorIDs: []bson.ObjectID{u.ID},
		Before:    before,
		Limit:     limit + 1,
	})
	if err != nil {
		return nil, nil, err
	}
	if int64(len(rows)) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	return rows, &models.Position{CreatedAt: last.CreatedAt, ID: last.ID}, nil
}
