// Package repository implements the service stores on MongoDB.
package repository

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"echo-me/internal/apperr"
)

const (
	ColUsers         = "users"
	ColPosts         = "posts"
	ColComments      = "comments"
	ColNotifications = "notifications"
)

// containsRegex matches s literally anywhere in the field, ignoring case.
func containsRegex(s string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// decodeAll drains cur into a non-nil slice.
func decodeAll[T any](ctx context.Context, what string, cur *mongo.Cursor) ([]T, error) {
	defer cur.Close(ctx)
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.FromStore(what, err)
	}
	return out, nil
}

// matched turns a zero MatchedCount into a not-found error.
func matched(what string, res *mongo.UpdateResult, err error) error {
	if err != nil {
		return apperr.FromStore(what, err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(what)
	}
	return nil
}

func deleted(what string, res *mongo.DeleteResult, err error) error {
	if err != nil {
		return apperr.FromStore(what, err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(what)
	}
	return nil
}
