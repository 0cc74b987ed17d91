package services

import (
	"context"
	"strings"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
)

const (
	SearchUsers = "users"
	SearchPosts = "posts"
)

type SearchResult struct {
	Users []models.User `json:"users,omitempty"`
	Posts []models.Post `json:"posts,omitempty"`
}

// SearchService matches a literal, case-insensitive substring against
// usernames or post text.
type SearchService struct {
	users     UserStore
	posts     PostStore
	userLimit int64
	postLimit int64
}

func NewSearchService(users UserStore, posts PostStore, userLimit, postLimit int64) *SearchService {
	return &SearchService{users: users, posts: posts, userLimit: userLimit, postLimit: postLimit}
}

func cleanQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", apperr.InvalidArgument("search query is required")
	}
	return q, nil
}

// Users returns matches in store order.
func (s *SearchService) Users(ctx context.Context, q string) ([]models.User, error) {
	q, err := cleanQuery(q)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Search(ctx, q, s.userLimit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Posts returns matches newest first.
func (s *SearchService) Posts(ctx context.Context, q string) ([]models.Post, error) {
	q, err := cleanQuery(q)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.Find(ctx, models.PostQuery{Contains: q, Limit: s.postLimit})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *SearchService) Search(ctx context.Context, kind, q string) (SearchResult, error) {
	var (
		res SearchResult
		err error
	)
	switch kind {
	case SearchUsers:
		res.Users, err = s.Users(ctx, q)
	case SearchPosts:
		res.Posts, err = s.Posts(ctx, q)
	default:
		err = apperr.InvalidArgument("unknown search kind %q", kind)
	}
	return res, err
}
