package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("test-secret")

func TestIssueParse(t *testing.T) {
	raw, err := Issue(secret, "64b7f0c2a1b2c3d4e5f60718", "alice", time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	uid, err := Parse(secret, raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if uid != "64b7f0c2a1b2c3d4e5f60718" {
		t.Errorf("uid = %q", uid)
	}
}

func TestParseRejectsExpiredAndForeign(t *testing.T) {
	expired, _ := Issue(secret, "u1", "alice", time.Now().Add(-2*time.Hour), time.Hour)
	if _, err := Parse(secret, expired); err != ErrInvalid {
		t.Errorf("expired token: err = %v", err)
	}

	other, _ := Issue([]byte("other"), "u1", "alice", time.Now(), time.Hour)
	if _, err := Parse(secret, other); err != ErrInvalid {
		t.Errorf("foreign signature: err = %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": "u1"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := Parse(secret, unsigned); err != ErrInvalid {
		t.Errorf("alg none: err = %v", err)
	}
}

func TestParseFallsBackToSubject(t *testing.T) {
	raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	uid, err := Parse(secret, raw)
	if err != nil || uid != "u2" {
		t.Fatalf("Parse = %q, %v", uid, err)
	}
}
