package services

import (
	"errors"
	"testing"
	"time"

	"echo-me/internal/apperr"
)

func TestSearch(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "GoGopher")
	f.user(t, "rustacean")
	old := f.post(t, u.ID, "learning Go.", time.Second)
	recent := f.post(t, u.ID, "more go. today", 2*time.Second)
	f.post(t, u.ID, "gopher", 3*time.Second)

	users, err := f.search.Users(f.ctx, "gopher")
	if err != nil || len(users) != 1 || users[0].ID != u.ID {
		t.Fatalf("Users = %+v, %v", users, err)
	}

	// "." is literal, not a wildcard
	res, err := f.search.Search(f.ctx, SearchPosts, "GO.")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Posts) != 2 || res.Posts[0].ID != recent.ID || res.Posts[1].ID != old.ID {
		t.Fatalf("posts = %+v", res.Posts)
	}

	none, err := f.search.Users(f.ctx, "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("no match = %v, %v", none, err)
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	if _, err := f.search.Search(f.ctx, SearchUsers, "   "); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("blank query: err = %v", err)
	}
	if _, err := f.search.Search(f.ctx, "groups", "x"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("unknown kind: err = %v", err)
	}
}

func TestSearchCapsResults(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "writer")
	for i := 0; i < 5; i++ {
		f.post(t, u.ID, "same words", time.Duration(i)*time.Second)
	}
	capped := NewSearchService(f.users, f.posts, 2, 3)
	posts, err := capped.Posts(f.ctx, "words")
	if err != nil || len(posts) != 3 {
		t.Fatalf("Posts = %d, %v; want 3", len(posts), err)
	}
}
