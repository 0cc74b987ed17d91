// Package cursor encodes keyset positions as opaque page tokens.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/models"
)

var ErrInvalid = errors.New("invalid cursor")

// Cursor is the wire form: creation time in unix millis plus the hex id.
type Cursor struct {
	CreatedAt int64  `json:"createdAt"`
	ID        string `json:"id"`
}

func Encode(p models.Position) string {
	b, _ := json.Marshal(Cursor{
		CreatedAt: p.CreatedAt.UnixMilli(),
		ID:        p.ID.Hex(),
	})
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode returns nil for an empty token.
func Decode(s string) (*models.Position, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalid
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, ErrInvalid
	}
	oid, err := bson.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, ErrInvalid
	}
	return &models.Position{CreatedAt: time.UnixMilli(c.CreatedAt).UTC(), ID: oid}, nil
}
