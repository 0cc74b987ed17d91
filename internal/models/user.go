package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID             bson.ObjectID   `bson:"_id,omitempty"   json:"id"`
	Username       string          `bson:"username"        json:"username"`
	Email          string          `bson:"email"           json:"email"`
	PasswordHash   string          `bson:"password_hash"   json:"-"`
	ProfilePicture string          `bson:"profile_picture" json:"profilePicture"`
	CoverPicture   string          `bson:"cover_picture"   json:"coverPicture"`
	Followers      []bson.ObjectID `bson:"followers"       json:"followers"`
	Followings     []bson.ObjectID `bson:"followings"      json:"followings"`
	IsAdmin        bool            `bson:"is_admin"        json:"isAdmin"`
	Desc           string          `bson:"desc"            json:"desc"`
	City           string          `bson:"city"            json:"city"`
	From           string          `bson:"from"            json:"from"`
	Relationship   int             `bson:"relationship,omitempty" json:"relationship,omitempty"` // 1 single, 2 married, 3 other
	CreatedAt      time.Time       `bson:"created_at"      json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updated_at"      json:"updatedAt"`
}

// UserSummary is the author decoration attached to timeline posts.
type UserSummary struct {
	ID             bson.ObjectID `bson:"_id"             json:"id"`
	Username       string        `bson:"username"        json:"username"`
	ProfilePicture string        `bson:"profile_picture" json:"profilePicture"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

// UserPatch holds the profile fields an update may change; nil means untouched.
type UserPatch struct {
	Username       *string
	Email          *string
	PasswordHash   *string
	ProfilePicture *string
	CoverPicture   *string
	Desc           *string
	City           *string
	From           *string
	Relationship   *int
}

// Set renders the patch as a $set document.
func (p UserPatch) Set(now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	put("username", p.Username)
	put("email", p.Email)
	put("password_hash", p.PasswordHash)
	put("profile_picture", p.ProfilePicture)
	put("cover_picture", p.CoverPicture)
	put("desc", p.Desc)
	put("city", p.City)
	put("from", p.From)
	if p.Relationship != nil {
		set["relationship"] = *p.Relationship
	}
	return set
}

// Apply copies the patch onto u, mirroring what Set does in the store.
func (p UserPatch) Apply(u *User, now time.Time) {
	get := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	get(&u.Username, p.Username)
	get(&u.Email, p.Email)
	get(&u.PasswordHash, p.PasswordHash)
	get(&u.ProfilePicture, p.ProfilePicture)
	get(&u.CoverPicture, p.CoverPicture)
	get(&u.Desc, p.Desc)
	get(&u.City, p.City)
	get(&u.From, p.From)
	if p.Relationship != nil {
		u.Relationship = *p.Relationship
	}
	u.UpdatedAt = now
}
