package controllers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"echo-me/dto"
	"echo-me/internal/services"
)

type AuthHandler struct {
	Users   *services.UserService
	Timeout time.Duration
}

// @Summary      Register
// @Description  Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterReq  true  "Account details"
// @Success      201   {object}  models.User
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body dto.RegisterReq
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	u, err := h.Users.Register(ctx, services.RegisterInput{
		Username:     body.Username,
		Email:        body.Email,
		Password:     body.Password,
		Desc:         body.Desc,
		City:         body.City,
		From:         body.From,
		Relationship: body.Relationship,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(u)
}

// @Summary      Login
// @Description  Exchange email and password for an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginReq  true  "Credentials"
// @Success      200   {object}  dto.LoginResp
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body dto.LoginReq
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	res, err := h.Users.Login(ctx, body.Email, body.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LoginResp{User: res.User, AccessToken: res.AccessToken})
}
