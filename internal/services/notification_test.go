package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
)

func TestNotifySuppressesSelf(t *testing.T) {
	f := newFixture(t)
	x := bson.NewObjectID()
	post := bson.NewObjectID()

	for _, kind := range []models.NotiKind{models.NotiFollow, models.NotiLike, models.NotiComment, models.NotiReply} {
		if n := f.notis.Notify(f.ctx, kind, x, x, NotiContext{PostID: &post}); n != nil {
			t.Errorf("%s: self notification returned %+v", kind, n)
		}
	}
	if got := f.notifications(t, x); len(got) != 0 {
		t.Fatalf("persisted %d self notifications", len(got))
	}
}

func TestNotifyDedupWindow(t *testing.T) {
	f := newFixture(t)
	a, b, p := bson.NewObjectID(), bson.NewObjectID(), bson.NewObjectID()

	first := f.notis.NotifyPostLike(f.ctx, a, b, p)
	if first == nil || first.Message != "liked your post" {
		t.Fatalf("first = %+v", first)
	}

	f.clk.advance(30 * time.Second)
	second := f.notis.NotifyPostLike(f.ctx, a, b, p)
	if second == nil || second.ID != first.ID {
		t.Fatalf("second = %+v, want the first notification back", second)
	}
	if got := f.notifications(t, a); len(got) != 1 {
		t.Fatalf("persisted %d, want 1 inside the window", len(got))
	}

	f.clk.advance(61 * time.Second)
	third := f.notis.NotifyPostLike(f.ctx, a, b, p)
	if third == nil || third.ID == first.ID {
		t.Fatalf("third = %+v, want a new notification", third)
	}
	if got := f.notifications(t, a); len(got) != 2 {
		t.Fatalf("persisted %d, want 2 after the window", len(got))
	}
}

func TestNotifyDedupIsPerPost(t *testing.T) {
	f := newFixture(t)
	a, b := bson.NewObjectID(), bson.NewObjectID()

	f.notis.NotifyPostLike(f.ctx, a, b, bson.NewObjectID())
	f.notis.NotifyPostLike(f.ctx, a, b, bson.NewObjectID())
	f.notis.NotifyFollow(f.ctx, a, b)
	if got := f.notifications(t, a); len(got) != 3 {
		t.Fatalf("persisted %d, want 3", len(got))
	}
}

// failingNotis fails every call after wrapping a working store.
type failingNotis struct {
	NotificationStore
	err error
}

func (s failingNotis) FindRecent(context.Context, models.NotiKey, time.Time) (*models.Notification, error) {
	return nil, apperr.NotFound("notification")
}

func (s failingNotis) Insert(context.Context, *models.Notification) error { return s.err }

func TestNotifySwallowsStoreFailure(t *testing.T) {
	f := newFixture(t)
	broken := NewNotificationService(failingNotis{f.notiRepo, apperr.ErrStoreUnavailable}, time.Minute)

	author := f.user(t, "author")
	liker := f.user(t, "liker")
	p := f.post(t, author.ID, "post", 0)
	posts := NewPostService(f.posts, f.users, f.comments, broken)

	if n := broken.NotifyPostLike(f.ctx, author.ID, liker.ID, p.ID); n != nil {
		t.Fatalf("Notify = %+v, want nil on store failure", n)
	}
	liked, err := posts.ToggleLike(f.ctx, liker.ID, p.ID)
	if err != nil || !liked {
		t.Fatalf("ToggleLike = %v, %v; the like must survive a notification failure", liked, err)
	}
}

func TestNotificationInbox(t *testing.T) {
	f := newFixture(t)
	me := bson.NewObjectID()
	var created []*models.Notification
	for i := 0; i < 5; i++ {
		f.clk.advance(time.Second)
		created = append(created, f.notis.NotifyFollow(f.ctx, me, bson.NewObjectID()))
	}

	page, err := f.notis.List(f.ctx, me, 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 5 || page.Pages != 3 || page.Count != 2 {
		t.Fatalf("page = %+v", page)
	}
	if page.Items[0].ID != created[2].ID {
		t.Fatalf("page 2 starts with %s, want the third newest", page.Items[0].ID.Hex())
	}
	if _, err := f.notis.List(f.ctx, me, 1, 0); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("zero limit: err = %v", err)
	}
	if _, err := f.notis.List(f.ctx, me, math.MaxInt, 20); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("huge page: err = %v", err)
	}
	far, err := f.notis.List(f.ctx, me, 1000, 20)
	if err != nil || far.Count != 0 || far.Total != 5 {
		t.Fatalf("page past the end = %+v, %v", far, err)
	}

	if n, _ := f.notis.UnreadCount(f.ctx, me); n != 5 {
		t.Fatalf("unread = %d", n)
	}
	read, err := f.notis.MarkRead(f.ctx, me, created[0].ID)
	if err != nil || !read.Read || read.ReadAt == nil {
		t.Fatalf("MarkRead = %+v, %v", read, err)
	}
	if _, err := f.notis.MarkRead(f.ctx, bson.NewObjectID(), created[1].ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("foreign MarkRead: err = %v", err)
	}
	if changed, _ := f.notis.MarkAllRead(f.ctx, me); changed != 4 {
		t.Fatalf("MarkAllRead changed %d, want 4", changed)
	}
	if n, _ := f.notis.UnreadCount(f.ctx, me); n != 0 {
		t.Fatalf("unread after read-all = %d", n)
	}

	if err := f.notis.Delete(f.ctx, me, created[4].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.notis.Delete(f.ctx, me, created[4].ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second Delete: err = %v", err)
	}
}
