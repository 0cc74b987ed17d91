package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"echo-me/dto"
	"echo-me/internal/middleware"
	"echo-me/internal/models"
	"echo-me/internal/services"
)

type UserHandler struct {
	Users   *services.UserService
	Follow  *services.FollowService
	Graph   *services.GraphReader
	Lookup  services.UserStore
	Timeout time.Duration
}

// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

// @Summary      List followings
// @Description  Summaries of the users the given user follows
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  dto.FollowingResp
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/followings [get]
func (h *UserHandler) Followings(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	ids, err := h.Graph.FollowingsOf(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	sums, err := h.Lookup.FindSummaries(ctx, ids)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]models.UserSummary, 0, len(ids))
	for _, fid := range ids {
		if s, ok := sums[fid]; ok {
			out = append(out, s)
		}
	}
	return c.JSON(dto.FollowingResp{Followings: out})
}

// @Summary      Update user
// @Description  The user or an admin may update the profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      dto.UpdateUserReq  true  "Fields to change"
// @Success      200   {object}  models.User
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body dto.UpdateUserReq
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	u, err := h.Users.Update(ctx, actor, id, services.UserUpdate{
		UserPatch: models.UserPatch{
			Username:       body.Username,
			Email:          body.Email,
			ProfilePicture: body.ProfilePicture,
			CoverPicture:   body.CoverPicture,
			Desc:           body.Desc,
			City:           body.City,
			From:           body.From,
			Relationship:   body.Relationship,
		},
		Password: body.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	if err := h.Users.Delete(ctx, actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "account has been deleted"})
}

// @Summary      Follow user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path      string  true  "User to follow"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/follow [put]
func (h *UserHandler) FollowUser(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	target, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	if err := h.Follow.Follow(ctx, actor, target); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "user has been followed"})
}

// @Summary      Unfollow user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path      string  true  "User to unfollow"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/unfollow [put]
func (h *UserHandler) UnfollowUser(c *fiber.Ctx) error {
	actor, _ := middleware.UIDObjectID(c)
	target, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	if err := h.Follow.Unfollow(ctx, actor, target); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "user has been unfollowed"})
}
