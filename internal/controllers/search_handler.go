package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"echo-me/internal/services"
)

type SearchHandler struct {
	Search  *services.SearchService
	Timeout time.Duration
}

// @Summary      Search users or posts
// @Description  Case-insensitive literal substring match
// @Tags         search
// @Produce      json
// @Param        kind  path      string  true  "users or posts"
// @Param        q     query     string  true  "Search text"
// @Success      200   {array}   models.User  "users, or models.Post for posts"
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/search/{kind} [get]
func (h *SearchHandler) Find(c *fiber.Ctx) error {
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	kind := c.Params("kind")
	res, err := h.Search.Search(ctx, kind, c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	if kind == services.SearchPosts {
		return c.JSON(res.Posts)
	}
	return c.JSON(res.Users)
}
