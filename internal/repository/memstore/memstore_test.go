package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
)

func TestPostsFindKeyset(t *testing.T) {
	ctx := context.Background()
	posts := New().Posts()
	author := bson.NewObjectID()
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	var ids []bson.ObjectID
	for i := 0; i < 4; i++ {
		p := &models.Post{ID: bson.NewObjectID(), UserID: author, Text: "x", CreatedAt: at}
		if err := posts.Insert(ctx, p); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}

	first, _ := posts.Find(ctx, models.PostQuery{AuthorIDs: []bson.ObjectID{author}, Limit: 2})
	last := first[len(first)-1]
	rest, _ := posts.Find(ctx, models.PostQuery{
		AuthorIDs: []bson.ObjectID{author},
		Before:    &models.Position{CreatedAt: last.CreatedAt, ID: last.ID},
	})
	if len(first)+len(rest) != 4 {
		t.Fatalf("pages = %d + %d, want 4 posts", len(first), len(rest))
	}
	seen := map[bson.ObjectID]bool{}
	for _, p := range append(first, rest...) {
		if seen[p.ID] {
			t.Fatalf("post %s returned twice", p.ID.Hex())
		}
		seen[p.ID] = true
	}
}

func TestUsersSearchIsLiteral(t *testing.T) {
	ctx := context.Background()
	users := New().Users()
	for _, name := range []string{"a.b", "axb", "A.B.C"} {
		if err := users.Insert(ctx, &models.User{ID: bson.NewObjectID(), Username: name, Email: name}); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := users.Search(ctx, "a.b", 0)
	if len(got) != 2 {
		t.Fatalf("matches = %d, want 2", len(got))
	}
	if err := users.Insert(ctx, &models.User{ID: bson.NewObjectID(), Username: "axb", Email: "new"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate username: err = %v", err)
	}
}

func TestReturnedRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{ID: bson.NewObjectID(), Username: "owner", Email: "o", Followings: []bson.ObjectID{}}
	_ = s.Users().Insert(ctx, u)

	got, _ := s.Users().FindByID(ctx, u.ID)
	got.Followings = append(got.Followings, bson.NewObjectID())
	again, _ := s.Users().FindByID(ctx, u.ID)
	if len(again.Followings) != 0 {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Posts().FindByID(ctx, bson.NewObjectID())
	if !errors.Is(err, apperr.ErrTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestCommentsDeleteThreadMidway(t *testing.T) {
	ctx := context.Background()
	cs := New().Comments()
	post := bson.NewObjectID()
	top := &models.Comment{ID: bson.NewObjectID(), PostID: post}
	a := &models.Comment{ID: bson.NewObjectID(), PostID: post, ParentID: &top.ID, RootID: &top.ID}
	b := &models.Comment{ID: bson.NewObjectID(), PostID: post, ParentID: &a.ID, RootID: &top.ID}
	c := &models.Comment{ID: bson.NewObjectID(), PostID: post, ParentID: &b.ID, RootID: &top.ID}
	for _, x := range []*models.Comment{top, a, b, c} {
		_ = cs.Insert(ctx, x)
	}

	n, err := cs.DeleteThread(ctx, a.ID)
	if err != nil || n != 3 {
		t.Fatalf("DeleteThread = %d, %v; want 3", n, err)
	}
	if _, err := cs.FindByID(ctx, top.ID); err != nil {
		t.Fatalf("top removed: %v", err)
	}
	if _, err := cs.DeleteThread(ctx, a.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
}

func TestNotificationsNegativeSkip(t *testing.T) {
	_, _, err := New().Notifications().ListByRecipient(context.Background(), bson.NewObjectID(), -20, 20)
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

func TestCommentsDeleteReleasesRows(t *testing.T) {
	ctx := context.Background()
	s := New()
	post := bson.NewObjectID()
	keep := &models.Comment{ID: bson.NewObjectID(), PostID: bson.NewObjectID()}
	_ = s.Comments().Insert(ctx, &models.Comment{ID: bson.NewObjectID(), PostID: post})
	_ = s.Comments().Insert(ctx, keep)
	_ = s.Comments().Insert(ctx, &models.Comment{ID: bson.NewObjectID(), PostID: post})

	if n, err := s.Comments().DeleteByPost(ctx, post); err != nil || n != 2 {
		t.Fatalf("DeleteByPost = %d, %v", n, err)
	}
	for i, c := range s.comments[len(s.comments):cap(s.comments)] {
		if c != nil {
			t.Fatalf("deleted row still referenced at tail index %d", i)
		}
	}
}
