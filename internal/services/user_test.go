package services

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
	"echo-me/internal/token"
)

func TestRegisterLogin(t *testing.T) {
	f := newFixture(t)
	u, err := f.userSvc.Register(f.ctx, RegisterInput{Username: "alice", Email: " Alice@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "alice@example.com" || u.PasswordHash == "" || u.PasswordHash == "secret1" {
		t.Fatalf("stored user = %+v", u)
	}

	_, err = f.userSvc.Register(f.ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate username: err = %v", err)
	}
	_, err = f.userSvc.Register(f.ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate email: err = %v", err)
	}

	res, err := f.userSvc.Login(f.ctx, "ALICE@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != u.ID || res.AccessToken == "" {
		t.Fatalf("Login = %+v", res)
	}

	if _, err := f.userSvc.Login(f.ctx, "alice@example.com", "wrong"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("bad password: err = %v", err)
	}
	if _, err := f.userSvc.Login(f.ctx, "ghost@example.com", "secret1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown email: err = %v", err)
	}
}

func TestLoginTokenCarriesUserID(t *testing.T) {
	f := newFixture(t)
	f.userSvc.now = time.Now
	u, _ := f.userSvc.Register(f.ctx, RegisterInput{Username: "carol", Email: "c@example.com", Password: "secret1"})
	res, err := f.userSvc.Login(f.ctx, "c@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	uid, err := token.Parse([]byte("test-secret"), res.AccessToken)
	if err != nil || uid != u.ID.Hex() {
		t.Fatalf("token uid = %q, %v", uid, err)
	}
}

func TestUserUpdateDeleteAuthorization(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bobby")
	admin := &models.User{ID: bson.NewObjectID(), Username: "admin", Email: "admin@example.com", IsAdmin: true}
	if err := f.users.Insert(f.ctx, admin); err != nil {
		t.Fatal(err)
	}

	city := "Lisbon"
	if _, err := f.userSvc.Update(f.ctx, bob.ID, alice.ID, UserUpdate{}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("foreign update: err = %v", err)
	}
	up := UserUpdate{}
	up.City = &city
	got, err := f.userSvc.Update(f.ctx, admin.ID, alice.ID, up)
	if err != nil || got.City != "Lisbon" {
		t.Fatalf("admin update = %+v, %v", got, err)
	}

	taken := "bobby"
	up = UserUpdate{}
	up.Username = &taken
	if _, err := f.userSvc.Update(f.ctx, alice.ID, alice.ID, up); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("taken username: err = %v", err)
	}

	if err := f.userSvc.Delete(f.ctx, bob.ID, alice.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("foreign delete: err = %v", err)
	}
	if err := f.userSvc.Delete(f.ctx, alice.ID, alice.ID); err != nil {
		t.Fatalf("self delete: %v", err)
	}
	if _, err := f.userSvc.Get(f.ctx, alice.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Get after delete: err = %v", err)
	}
}
