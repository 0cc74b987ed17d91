package dto

import "echo-me/internal/models"

type RegisterReq struct {
	Username     string `json:"username"     validate:"required,min=4,max=20,username"`
	Email        string `json:"email"        validate:"required,email,max=50"`
	Password     string `json:"password"     validate:"required,min=6"`
	Desc         string `json:"desc"         validate:"max=50"`
	City         string `json:"city"         validate:"max=50"`
	From         string `json:"from"         validate:"max=50"`
	Relationship int    `json:"relationship" validate:"omitempty,oneof=1 2 3"`
}

type LoginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResp struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type UpdateUserReq struct {
	Username       *string `json:"username"       validate:"omitempty,min=4,max=20,username"`
	Email          *string `json:"email"          validate:"omitempty,email,max=50"`
	Password       *string `json:"password"       validate:"omitempty,min=6"`
	ProfilePicture *string `json:"profilePicture"`
	CoverPicture   *string `json:"coverPicture"`
	Desc           *string `json:"desc"           validate:"omitempty,max=50"`
	City           *string `json:"city"           validate:"omitempty,max=50"`
	From           *string `json:"from"           validate:"omitempty,max=50"`
	Relationship   *int    `json:"relationship"   validate:"omitempty,oneof=1 2 3"`
}

type FollowingResp struct {
	Followings []models.UserSummary `json:"followings"`
}
