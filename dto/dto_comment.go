package dto

type CreateCommentReq struct {
	PostID   string  `json:"postId"   validate:"required,mongodb"`
	Text     string  `json:"text"     validate:"required,max=500"`
	ParentID *string `json:"parentId" validate:"omitempty,mongodb"`
}

type UpdateCommentReq struct {
	Text string `json:"text" validate:"required,max=500"`
}
