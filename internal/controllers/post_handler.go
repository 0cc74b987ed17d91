package controllers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"echo-me/config"
	"echo-me/dto"
	"echo-me/internal/apperr"
	"echo-me/internal/cursor"
	"echo-me/internal/middleware"
	"echo-me/internal/models"
	"echo-me/internal/services"
)

type PostHandler struct {
	Posts       *services.PostService
	Timeline    *services.TimelineService
	Timeout     time.Duration
	ProfilePage int
}

// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreatePostReq  true  "Text and/or image"
// @Success      201   {object}  models.Post
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/posts [post]
func (h *PostHandler) Create(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	var body dto.CreatePostReq
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	p, err := h.Posts.Create(ctx, actor, body.Text, body.Image)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(p)
}

// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  models.Post
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	p, err := h.Posts.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// @Summary      Update post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post ID"
// @Param        body  body      dto.UpdatePostReq  true  "Fields to change"
// @Success      200   {object}  models.Post
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body dto.UpdatePostReq
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	p, err := h.Posts.Update(ctx, actor, id, models.PostPatch{Text: body.Text, Image: body.Image})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// @Summary      Delete post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	if err := h.Posts.Delete(ctx, actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "the post has been deleted"})
}

// @Summary      Like or unlike post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  dto.LikeResp
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/posts/{id}/like [put]
func (h *PostHandler) Like(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	liked, err := h.Posts.ToggleLike(ctx, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	msg := "the post has been disliked"
	if liked {
		msg = "the post has been liked"
	}
	return c.JSON(dto.LikeResp{Liked: liked, Message: msg})
}

// @Summary      Timeline
// @Description  The user's own posts merged with the posts of everyone they follow, newest first
// @Tags         posts
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {array}   models.TimelinePost
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/posts/timeline/{userId} [get]
func (h *PostHandler) TimelineFeed(c *fiber.Ctx) error {
	id, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	posts, err := h.Timeline.DecoratedTimeline(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// @Summary      Profile posts
// @Description  A user's posts newest first with cursor pagination
// @Tags         posts
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        limit     query     int     false  "Page size" minimum(1) maximum(100) default(20)
// @Param        cursor    query     string  false  "Opaque next-page cursor"
// @Success      200       {object}  dto.ProfilePostsResp
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/posts/profile/{username} [get]
func (h *PostHandler) Profile(c *fiber.Ctx) error {
	def := h.ProfilePage
	if def <= 0 {
		def = config.DefaultProfileLimit
	}
	limit := config.ClampLimit(c.QueryInt("limit", def), def, config.MaxProfileLimit)

	before, err := cursor.Decode(c.Query("cursor"))
	if err != nil {
		return respondError(c, apperr.InvalidArgument("invalid cursor"))
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	posts, next, err := h.Posts.Profile(ctx, c.Params("username"), before, int64(limit))
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.ProfilePostsResp{Posts: posts}
	if resp.Posts == nil {
		resp.Posts = []models.Post{}
	}
	if next != nil {
		s := cursor.Encode(*next)
		resp.NextCursor = &s
		resp.HasMore = true
	}
	return c.JSON(resp)
}
