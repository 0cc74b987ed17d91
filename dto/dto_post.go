package dto

import "echo-me/internal/models"

type CreatePostReq struct {
	Text  string `json:"text"  validate:"max=500"`
	Image string `json:"image" validate:"omitempty,max=2048"`
}

type UpdatePostReq struct {
	Text  *string `json:"text"  validate:"omitempty,max=500"`
	Image *string `json:"image" validate:"omitempty,max=2048"`
}

type LikeResp struct {
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}

type ProfilePostsResp struct {
	Posts      []models.Post `json:"posts"`
	NextCursor *string       `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}
