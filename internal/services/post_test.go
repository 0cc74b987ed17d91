package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
)

func TestPostCreateValidation(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "writer")

	if _, err := f.postSvc.Create(f.ctx, u.ID, "  ", ""); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("empty post: err = %v", err)
	}
	if _, err := f.postSvc.Create(f.ctx, u.ID, strings.Repeat("é", models.MaxPostText+1), ""); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("long post: err = %v", err)
	}
	p, err := f.postSvc.Create(f.ctx, u.ID, strings.Repeat("é", models.MaxPostText), "")
	if err != nil {
		t.Fatalf("500 runes should be accepted: %v", err)
	}
	if p.UserID != u.ID || !p.CreatedAt.Equal(epoch) {
		t.Errorf("post = %+v", p)
	}
	if _, err := f.postSvc.Create(f.ctx, u.ID, "", "pic.png"); err != nil {
		t.Errorf("image-only post: %v", err)
	}
}

func TestPostUpdateDeleteOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	other := f.user(t, "other")
	p := f.post(t, owner.ID, "original", 0)
	f.comment(t, other.ID, p.ID, "comment", nil, time.Second)

	text := "changed"
	if _, err := f.postSvc.Update(f.ctx, other.ID, p.ID, models.PostPatch{Text: &text}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("foreign update: err = %v", err)
	}
	f.clk.advance(time.Minute)
	up, err := f.postSvc.Update(f.ctx, owner.ID, p.ID, models.PostPatch{Text: &text})
	if err != nil || up.Text != "changed" || !up.UpdatedAt.After(up.CreatedAt) {
		t.Fatalf("Update = %+v, %v", up, err)
	}

	if err := f.postSvc.Delete(f.ctx, other.ID, p.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("foreign delete: err = %v", err)
	}
	if err := f.postSvc.Delete(f.ctx, owner.ID, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.postSvc.Get(f.ctx, p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Get after delete: err = %v", err)
	}
	if tops, _ := f.comments.FindTopLevel(f.ctx, p.ID); len(tops) != 0 {
		t.Fatalf("comments left behind: %d", len(tops))
	}
}

func TestPostToggleLikeNotifiesOnLikeOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	fan := f.user(t, "fan")
	p := f.post(t, owner.ID, "hello", 0)

	liked, err := f.postSvc.ToggleLike(f.ctx, fan.ID, p.ID)
	if err != nil || !liked {
		t.Fatalf("like = %v, %v", liked, err)
	}
	f.clk.advance(2 * time.Minute)
	liked, err = f.postSvc.ToggleLike(f.ctx, fan.ID, p.ID)
	if err != nil || liked {
		t.Fatalf("unlike = %v, %v", liked, err)
	}

	got, _ := f.postSvc.Get(f.ctx, p.ID)
	if len(got.Likes) != 0 {
		t.Fatalf("likes = %v", got.Likes)
	}
	if n := len(f.notifications(t, owner.ID)); n != 1 {
		t.Fatalf("notifications = %d, want 1", n)
	}

	// liking your own post never notifies
	f.postSvc.ToggleLike(f.ctx, owner.ID, p.ID)
	if n := len(f.notifications(t, owner.ID)); n != 1 {
		t.Fatalf("notifications after self like = %d", n)
	}
}

func TestPostProfilePaging(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "writer")
	for i := 0; i < 5; i++ {
		f.post(t, u.ID, "p", time.Duration(i)*time.Second)
	}

	var all []models.Post
	var before *models.Position
	for pages := 0; ; pages++ {
		if pages > 5 {
			t.Fatal("paging did not terminate")
		}
		rows, next, err := f.postSvc.Profile(f.ctx, "writer", before, 2)
		if err != nil {
			t.Fatalf("Profile: %v", err)
		}
		all = append(all, rows...)
		if next == nil {
			break
		}
		before = next
	}
	if len(all) != 5 {
		t.Fatalf("paged %d posts, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if !all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Fatalf("post %d out of order", i)
		}
	}

	if _, _, err := f.postSvc.Profile(f.ctx, "nobody", nil, 2); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown user: err = %v", err)
	}
}
