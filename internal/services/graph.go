package services

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/apperr"
)

// GraphReader answers follow-graph questions from the stored user records.
type GraphReader struct {
	users UserStore
}

func NewGraphReader(users UserStore) *GraphReader {
	return &GraphReader{users: users}
}

// FollowingsOf returns the stored followings of userID without duplicates
// and without userID itself.
func (g *GraphReader) FollowingsOf(ctx context.Context, userID bson.ObjectID) ([]bson.ObjectID, error) {
	u, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[bson.ObjectID]struct{}, len(u.Followings))
	out := make([]bson.ObjectID, 0, len(u.Followings))
	for _, id := range u.Followings {
		if id == userID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// IsFollowing reports whether a lists b among its followings.
func (g *GraphReader) IsFollowing(ctx context.Context, a, b bson.ObjectID) (bool, error) {
	ids, err := g.FollowingsOf(ctx, a)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == b {
			return true, nil
		}
	}
	return false, nil
}

// FollowService mutates the follow graph. Each edge lives in two user
// documents and the store is atomic per document only, so a failure between
// the two writes leaves the edge asymmetric. That is logged; a repeated
// Follow rewrites the followee side.
type FollowService struct {
	users UserStore
	graph *GraphReader
	notis *NotificationService
}

func NewFollowService(users UserStore, graph *GraphReader, notis *NotificationService) *FollowService {
	return &FollowService{users: users, graph: graph, notis: notis}
}

func (s *FollowService) resolvePair(ctx context.Context, actor, target bson.ObjectID, verb string) error {
	if actor == target {
		return apperr.InvalidArgument("you can't %s yourself", verb)
	}
	if _, err := s.users.FindByID(ctx, target); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, actor); err != nil {
		return err
	}
	return nil
}

func (s *FollowService) Follow(ctx context.Context, actor, target bson.ObjectID) error {
	if err := s.resolvePair(ctx, actor, target, "follow"); err != nil {
		return err
	}
	already, err := s.graph.IsFollowing(ctx, actor, target)
	if err != nil {
		return err
	}
	if already {
		// $addToSet is idempotent, so a retry heals a one-sided edge.
		if err := s.users.AddFollower(ctx, target, actor); err != nil {
			log.Printf("follow %s -> %s: followers repair failed: %v", actor.Hex(), target.Hex(), err)
		}
		return apperr.Conflict("you already follow this user")
	}

	if err := s.users.AddFollowing(ctx, actor, target); err != nil {
		return err
	}
	if err := s.users.AddFollower(ctx, target, actor); err != nil {
		log.Printf("follow %s -> %s: followers write failed, edge is one-sided: %v", actor.Hex(), target.Hex(), err)
		return err
	}

	s.notis.NotifyFollow(ctx, target, actor)
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, actor, target bson.ObjectID) error {
	if err := s.resolvePair(ctx, actor, target, "unfollow"); err != nil {
		return err
	}
	following, err := s.graph.IsFollowing(ctx, actor, target)
	if err != nil {
		return err
	}
	if !following {
		return apperr.Conflict("you are not following this user")
	}

	if err := s.users.RemoveFollowing(ctx, actor, target); err != nil {
		return err
	}
	if err := s.users.RemoveFollower(ctx, target, actor); err != nil {
		log.Printf("unfollow %s -> %s: followers write failed, edge is one-sided: %v", actor.Hex(), target.Hex(), err)
		return err
	}
	return nil
}
