package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalid = errors.New("invalid token")

type Claims struct {
	UID      string `json:"uid,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs an HS256 token for uid valid for ttl from now.
func Issue(secret []byte, uid, username string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UID:      uid,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse validates the signature and expiry and returns the user id, taken
// from uid or, failing that, sub.
func Parse(secret []byte, raw string) (string, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(
		raw,
		&claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !tok.Valid {
		return "", ErrInvalid
	}
	uid := claims.UID
	if uid == "" {
		uid = claims.Subject
	}
	if uid == "" {
		return "", ErrInvalid
	}
	return uid, nil
}
