package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"echo-me/database"
	"echo-me/internal/apperr"
	"echo-me/internal/models"
	"echo-me/internal/services"
)

var (
	_ services.UserStore         = (*UserRepository)(nil)
	_ services.PostStore         = (*PostRepository)(nil)
	_ services.CommentStore      = (*CommentRepository)(nil)
	_ services.NotificationStore = (*NotificationRepository)(nil)
)

// testDB connects to ECHOME_TEST_MONGO_URI and hands out a throwaway database.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("ECHOME_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ECHOME_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client, err := database.ConnectMongo(ctx, uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("echome_test_" + bson.NewObjectID().Hex())
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		database.DisconnectMongo(client)
	})
	return db
}

func TestPostFindKeysetAndSearch(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewPostRepository(db)

	author := bson.NewObjectID()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	texts := []string{"first (a+b)", "second", "third A+B"}
	var ids []bson.ObjectID
	for i, text := range texts {
		p := &models.Post{
			ID:        bson.NewObjectID(),
			UserID:    author,
			Text:      text,
			Likes:     []bson.ObjectID{},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Insert(ctx, p); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		ids = append(ids, p.ID)
	}

	page, err := repo.Find(ctx, models.PostQuery{AuthorIDs: []bson.ObjectID{author}, Limit: 2})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(page) != 2 || page[0].ID != ids[2] || page[1].ID != ids[1] {
		t.Fatalf("first page out of order: %+v", page)
	}

	rest, err := repo.Find(ctx, models.PostQuery{
		AuthorIDs: []bson.ObjectID{author},
		Before:    &models.Position{CreatedAt: page[1].CreatedAt, ID: page[1].ID},
	})
	if err != nil {
		t.Fatalf("Find before: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != ids[0] {
		t.Fatalf("second page = %+v", rest)
	}

	// regex metacharacters are matched literally
	hits, err := repo.Find(ctx, models.PostQuery{Contains: "a+b"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("search hits = %d, want 2", len(hits))
	}
}

func TestUserUniqueAndFollowEdges(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	_, err := repo.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("index: %v", err)
	}

	a := &models.User{ID: bson.NewObjectID(), Username: "alice", Email: "a@x.io", Followers: []bson.ObjectID{}, Followings: []bson.ObjectID{}}
	b := &models.User{ID: bson.NewObjectID(), Username: "bob", Email: "b@x.io", Followers: []bson.ObjectID{}, Followings: []bson.ObjectID{}}
	for _, u := range []*models.User{a, b} {
		if err := repo.Insert(ctx, u); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	dup := &models.User{ID: bson.NewObjectID(), Username: "alice", Email: "other@x.io"}
	if err := repo.Insert(ctx, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate username: err = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.AddFollowing(ctx, a.ID, b.ID); err != nil {
			t.Fatalf("AddFollowing: %v", err)
		}
	}
	got, err := repo.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(got.Followings) != 1 {
		t.Fatalf("followings = %v, want one entry", got.Followings)
	}

	if err := repo.AddFollowing(ctx, bson.NewObjectID(), b.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing user: err = %v", err)
	}

	sums, err := repo.FindSummaries(ctx, []bson.ObjectID{a.ID, b.ID, bson.NewObjectID()})
	if err != nil {
		t.Fatalf("FindSummaries: %v", err)
	}
	if len(sums) != 2 || sums[b.ID].Username != "bob" {
		t.Fatalf("summaries = %+v", sums)
	}
}

func TestCommentThreadDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	post := bson.NewObjectID()
	top := &models.Comment{ID: bson.NewObjectID(), PostID: post, Text: "top"}
	reply := &models.Comment{ID: bson.NewObjectID(), PostID: post, Text: "reply", ParentID: &top.ID, RootID: &top.ID}
	nested := &models.Comment{ID: bson.NewObjectID(), PostID: post, Text: "nested", ParentID: &reply.ID, RootID: &top.ID}
	other := &models.Comment{ID: bson.NewObjectID(), PostID: post, Text: "other"}
	for _, c := range []*models.Comment{top, reply, nested, other} {
		if err := repo.Insert(ctx, c); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	tops, err := repo.FindTopLevel(ctx, post)
	if err != nil || len(tops) != 2 {
		t.Fatalf("FindTopLevel = %d, %v", len(tops), err)
	}

	deep := &models.Comment{ID: bson.NewObjectID(), PostID: post, Text: "deep", ParentID: &nested.ID, RootID: &top.ID}
	if err := repo.Insert(ctx, deep); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	n, err := repo.DeleteThread(ctx, reply.ID)
	if err != nil || n != 3 {
		t.Fatalf("DeleteThread(reply) = %d, %v; want reply, nested and deep", n, err)
	}
	if _, err := repo.FindByID(ctx, deep.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("deep reply survived: %v", err)
	}
	reply = &models.Comment{ID: bson.NewObjectID(), PostID: post, Text: "again", ParentID: &top.ID, RootID: &top.ID}
	if err := repo.Insert(ctx, reply); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	n, err = repo.DeleteThread(ctx, top.ID)
	if err != nil || n != 2 {
		t.Fatalf("DeleteThread = %d, %v; want 2", n, err)
	}
	if _, err := repo.FindByID(ctx, other.ID); err != nil {
		t.Fatalf("unrelated comment removed: %v", err)
	}
}

func TestNotificationFindRecent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)

	now := time.Now().UTC().Truncate(time.Millisecond)
	post := bson.NewObjectID()
	n := &models.Notification{
		ID:          bson.NewObjectID(),
		RecipientID: bson.NewObjectID(),
		SenderID:    bson.NewObjectID(),
		Kind:        models.NotiLike,
		PostID:      &post,
		CreatedAt:   now,
	}
	if err := repo.Insert(ctx, n); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.FindRecent(ctx, n.Key(), now.Add(-time.Minute))
	if err != nil || got.ID != n.ID {
		t.Fatalf("FindRecent = %v, %v", got, err)
	}
	if _, err := repo.FindRecent(ctx, n.Key(), now.Add(time.Second)); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("outside window: err = %v", err)
	}

	if c, _ := repo.CountUnread(ctx, n.RecipientID); c != 1 {
		t.Fatalf("unread = %d", c)
	}
	if changed, err := repo.MarkAllRead(ctx, n.RecipientID, now); err != nil || changed != 1 {
		t.Fatalf("MarkAllRead = %d, %v", changed, err)
	}
}
