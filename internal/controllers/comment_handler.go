package controllers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/dto"
	"echo-me/internal/apperr"
	"echo-me/internal/middleware"
	"echo-me/internal/services"
)

type CommentHandler struct {
	Comments *services.CommentService
	Timeout  time.Duration
}

// @Summary      Create a comment
// @Description  Comment on a post, or reply to a comment of the same post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateCommentReq  true  "Comment payload"
// @Success      201   {object}  models.Comment
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/comments [post]
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	var body dto.CreateCommentReq
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}
	postID, err := bson.ObjectIDFromHex(body.PostID)
	if err != nil {
		return respondError(c, apperr.InvalidArgument("invalid postId"))
	}
	var parentID *bson.ObjectID
	if body.ParentID != nil {
		pid, err := bson.ObjectIDFromHex(*body.ParentID)
		if err != nil {
			return respondError(c, apperr.InvalidArgument("invalid parentId"))
		}
		parentID = &pid
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	com, err := h.Comments.Create(ctx, actor, postID, body.Text, parentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(com)
}

// @Summary      Comment tree of a post
// @Description  Top-level comments newest first, each with its replies oldest first
// @Tags         comments
// @Produce      json
// @Param        postId  path      string  true  "Post ID"
// @Success      200     {array}   models.CommentThread
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/comments/post/{postId} [get]
func (h *CommentHandler) List(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	tree, err := h.Comments.BuildCommentTree(ctx, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tree)
}

// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Comment ID"
// @Param        body  body      dto.UpdateCommentReq  true  "New text"
// @Success      200   {object}  models.Comment
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body dto.UpdateCommentReq
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	com, err := h.Comments.Update(ctx, actor, id, body.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(com)
}

// @Summary      Delete a comment
// @Description  Removes the comment and its replies
// @Tags         comments
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	if err := h.Comments.Delete(ctx, actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "comment deleted"})
}

// @Summary      Like or unlike a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  dto.LikeResp
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/comments/{id}/like [put]
func (h *CommentHandler) Like(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	liked, err := h.Comments.ToggleLike(ctx, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	msg := "comment unliked"
	if liked {
		msg = "comment liked"
	}
	return c.JSON(dto.LikeResp{Liked: liked, Message: msg})
}
