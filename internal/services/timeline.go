package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/models"
)

type TimelineService struct {
	users UserStore
	posts PostStore
	graph *GraphReader
}

func NewTimelineService(users UserStore, posts PostStore, graph *GraphReader) *TimelineService {
	return &TimelineService{users: users, posts: posts, graph: graph}
}

// BuildTimeline merges userID's own posts with the posts of everyone userID
// follows, newest first. Equal timestamps keep the order the store returned
// them in, so unchanged data yields an identical sequence.
func (s *TimelineService) BuildTimeline(ctx context.Context, userID bson.ObjectID) ([]models.Post, error) {
	followings, err := s.graph.FollowingsOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	authors := append([]bson.ObjectID{userID}, followings...)
	posts, err := s.posts.Find(ctx, models.PostQuery{AuthorIDs: authors})
	if err != nil {
		return nil, err
	}

	// one post can only come back once per query, but guard against a store
	// that returns overlapping pages
	seen := make(map[bson.ObjectID]struct{}, len(posts))
	merged := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

// DecoratedTimeline is BuildTimeline with each post's author summary,
// resolved in one batch over the distinct authors.
func (s *TimelineService) DecoratedTimeline(ctx context.Context, userID bson.ObjectID) ([]models.TimelinePost, error) {
	posts, err := s.BuildTimeline(ctx, userID)
	if err != nil {
		return nil, err
	}

	distinct := make([]bson.ObjectID, 0)
	seen := make(map[bson.ObjectID]struct{})
	for _, p := range posts {
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			distinct = append(distinct, p.UserID)
		}
	}

	summaries := map[bson.ObjectID]models.UserSummary{}
	if len(distinct) > 0 {
		summaries, err = s.users.FindSummaries(ctx, distinct)
		if err != nil {
			return nil, err
		}
	}

	out := make([]models.TimelinePost, len(posts))
	for i, p := range posts {
		out[i] = models.TimelinePost{Post: p}
		if sum, ok := summaries[p.UserID]; ok {
			out[i].User = &sum
		}
	}
	return out, nil
}
