package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestFromStore(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no documents", mongo.ErrNoDocuments, ErrNotFound},
		{"deadline", fmt.Errorf("find: %w", context.DeadlineExceeded), ErrTimeout},
		{"other", errors.New("connection reset"), ErrStoreUnavailable},
		{"typed passes through", InvalidReference("parent"), ErrInvalidReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromStore("post", tc.in)
			if !errors.Is(got, tc.want) {
				t.Fatalf("FromStore(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
	if FromStore("post", nil) != nil {
		t.Fatal("FromStore(nil) should be nil")
	}
}
