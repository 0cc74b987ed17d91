package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
	"echo-me/internal/token"
)

type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Desc         string
	City         string
	From         string
	Relationship int
}

// UserUpdate is a profile change request; Password is plain text.
type UserUpdate struct {
	models.UserPatch
	Password *string
}

type LoginResult struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type UserService struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	hashCost int
	now      func() time.Time
}

func NewUserService(users UserStore, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:    users,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) ensureFree(ctx context.Context, username, email string, self bson.ObjectID) error {
	if username != "" {
		u, err := s.users.FindByUsername(ctx, username)
		switch {
		case err == nil && u.ID != self:
			return apperr.Conflict("username already taken")
		case err != nil && !errors.Is(err, apperr.ErrNotFound):
			return err
		}
	}
	if email != "" {
		u, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil && u.ID != self:
			return apperr.Conflict("user already exists")
		case err != nil && !errors.Is(err, apperr.ErrNotFound):
			return err
		}
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.InvalidArgument("username, email, and password are required")
	}
	if err := s.ensureFree(ctx, in.Username, in.Email, bson.NilObjectID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	now := stamp(s.now)
	u := &models.User{
		ID:           bson.NewObjectID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Followers:    []bson.ObjectID{},
		Followings:   []bson.ObjectID{},
		Desc:         in.Desc,
		City:         in.City,
		From:         in.From,
		Relationship: in.Relationship,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	log.Printf("user %s registered (%s)", u.ID.Hex(), u.Username)
	return u, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, apperr.ErrUnauthorized
	}
	t, err := token.Issue(s.secret, u.ID.Hex(), u.Username, s.now(), s.tokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: u, AccessToken: t}, nil
}

func (s *UserService) Get(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// authorize allows the account owner and admins.
func (s *UserService) authorize(ctx context.Context, actor, id bson.ObjectID, verb string) error {
	if actor == id {
		return nil
	}
	a, err := s.users.FindByID(ctx, actor)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrUnauthorized
		}
		return err
	}
	if !a.IsAdmin {
		return apperr.Forbidden("you can %s only your account", verb)
	}
	return nil
}

func (s *UserService) Update(ctx context.Context, actor, id bson.ObjectID, up UserUpdate) (*models.User, error) {
	if err := s.authorize(ctx, actor, id, "update"); err != nil {
		return nil, err
	}

	patch := up.UserPatch
	if patch.Email != nil {
		e := normalizeEmail(*patch.Email)
		patch.Email = &e
	}
	var username, email string
	if patch.Username != nil {
		username = *patch.Username
	}
	if patch.Email != nil {
		email = *patch.Email
	}
	if err := s.ensureFree(ctx, username, email, id); err != nil {
		return nil, err
	}

	if up.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*up.Password), s.hashCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		patch.PasswordHash = &h
	}
	return s.users.Update(ctx, id, patch, stamp(s.now))
}

func (s *UserService) Delete(ctx context.Context, actor, id bson.ObjectID) error {
	if err := s.authorize(ctx, actor, id, "delete"); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("user %s deleted by %s", id.Hex(), actor.Hex())
	return nil
}
