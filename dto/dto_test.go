package dto

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	ok := RegisterReq{Username: "alice_99", Email: "a@example.com", Password: "secret1"}
	if err := Validate(ok); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"username charset", RegisterReq{Username: "al-ice", Email: "a@example.com", Password: "secret1"}, "username is invalid"},
		{"short username", RegisterReq{Username: "al", Email: "a@example.com", Password: "secret1"}, "username must be at least 4"},
		{"bad email", RegisterReq{Username: "alice", Email: "nope", Password: "secret1"}, "email is invalid"},
		{"missing password", RegisterReq{Username: "alice", Email: "a@example.com"}, "password is required"},
		{"relationship", RegisterReq{Username: "alice", Email: "a@example.com", Password: "secret1", Relationship: 4}, "relationship must be one of"},
		{"parent id", CreateCommentReq{PostID: validID, Text: "hi", ParentID: strptr("123")}, "parentId is invalid"},
		{"long comment", CreateCommentReq{PostID: validID, Text: strings.Repeat("x", 501)}, "text must be at most 500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate = %v, want %q", err, tc.want)
			}
		})
	}
}

const validID = "64b7f0c2a1b2c3d4e5f60718"

func strptr(s string) *string { return &s }
