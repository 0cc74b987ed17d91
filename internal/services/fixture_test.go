package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"echo-me/internal/models"
	"echo-me/internal/repository/memstore"
)

var (
	_ UserStore         = (*memstore.Users)(nil)
	_ PostStore         = (*memstore.Posts)(nil)
	_ CommentStore      = (*memstore.Comments)(nil)
	_ NotificationStore = (*memstore.Notifications)(nil)
)

// clock is a settable time source shared by every service in a fixture.
type clock struct{ t time.Time }

func (c *clock) now() time.Time                    { return c.t }
func (c *clock) advance(d time.Duration)           { c.t = c.t.Add(d) }
func (c *clock) at(offset time.Duration) time.Time { return epoch.Add(offset) }

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	ctx   context.Context
	clk   *clock
	store *memstore.Store

	users    *memstore.Users
	posts    *memstore.Posts
	comments *memstore.Comments
	notiRepo *memstore.Notifications

	notis    *NotificationService
	graph    *GraphReader
	follow   *FollowService
	timeline *TimelineService
	postSvc  *PostService
	cmtSvc   *CommentService
	search   *SearchService
	userSvc  *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), clk: &clock{t: epoch}, store: memstore.New()}
	f.users = f.store.Users()
	f.posts = f.store.Posts()
	f.comments = f.store.Comments()
	f.notiRepo = f.store.Notifications()

	f.notis = NewNotificationService(f.notiRepo, time.Minute)
	f.notis.now = f.clk.now
	f.graph = NewGraphReader(f.users)
	f.follow = NewFollowService(f.users, f.graph, f.notis)
	f.timeline = NewTimelineService(f.users, f.posts, f.graph)
	f.postSvc = NewPostService(f.posts, f.users, f.comments, f.notis)
	f.postSvc.now = f.clk.now
	f.cmtSvc = NewCommentService(f.comments, f.posts, f.notis)
	f.cmtSvc.now = f.clk.now
	f.search = NewSearchService(f.users, f.posts, 50, 100)
	f.userSvc = NewUserService(f.users, "test-secret", time.Hour)
	f.userSvc.hashCost = bcrypt.MinCost
	f.userSvc.now = f.clk.now
	return f
}

// user stores a user directly, following the given ids.
func (f *fixture) user(t *testing.T, name string, followings ...bson.ObjectID) *models.User {
	t.Helper()
	u := &models.User{
		ID:         bson.NewObjectID(),
		Username:   name,
		Email:      name + "@example.com",
		Followers:  []bson.ObjectID{},
		Followings: append([]bson.ObjectID{}, followings...),
		CreatedAt:  epoch,
	}
	if err := f.users.Insert(f.ctx, u); err != nil {
		t.Fatalf("insert user %s: %v", name, err)
	}
	return u
}

// post stores a post by author created at epoch+offset.
func (f *fixture) post(t *testing.T, author bson.ObjectID, text string, offset time.Duration) *models.Post {
	t.Helper()
	p := &models.Post{
		ID:        bson.NewObjectID(),
		UserID:    author,
		Text:      text,
		Likes:     []bson.ObjectID{},
		CreatedAt: f.clk.at(offset),
		UpdatedAt: f.clk.at(offset),
	}
	if err := f.posts.Insert(f.ctx, p); err != nil {
		t.Fatalf("insert post: %v", err)
	}
	return p
}

// comment creates a comment through the service at epoch+offset.
func (f *fixture) comment(t *testing.T, author, postID bson.ObjectID, text string, parent *bson.ObjectID, offset time.Duration) *models.Comment {
	t.Helper()
	f.clk.t = f.clk.at(offset)
	c, err := f.cmtSvc.Create(f.ctx, author, postID, text, parent)
	if err != nil {
		t.Fatalf("create comment %q: %v", text, err)
	}
	return c
}

func (f *fixture) notifications(t *testing.T, recipient bson.ObjectID) []models.Notification {
	t.Helper()
	items, _, err := f.notiRepo.ListByRecipient(f.ctx, recipient, 0, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	return items
}

func ids[T any](rows []T, id func(T) bson.ObjectID) []bson.ObjectID {
	out := make([]bson.ObjectID, len(rows))
	for i, r := range rows {
		out[i] = id(r)
	}
	return out
}

func postID(p models.Post) bson.ObjectID { return p.ID }
