package routes

import (
	"github.com/gofiber/fiber/v2"

	"echo-me/internal/controllers"
	"echo-me/internal/middleware"
)

func CommentRoutes(api fiber.Router, d *Deps) {
	h := &controllers.CommentHandler{Comments: d.Comments, Timeout: d.Cfg.RequestTimeout}
	comments := api.Group("/comments")

	// GET /api/comments/post/:postId
	// top-level comments newest first, each with "replies" oldest first
	comments.Get("/post/:postId", h.List)

	// POST /api/comments
	//   {"postId":"...","text":"hi"}                     comment on a post
	//   {"postId":"...","text":"hi","parentId":"..."}    reply to a comment of that post
	comments.Post("/", middleware.RequireAuth(), h.Create)

	// author only
	comments.Put("/:id", middleware.RequireAuth(), h.Update)
	comments.Delete("/:id", middleware.RequireAuth(), h.Delete)

	comments.Put("/:id/like", middleware.RequireAuth(), h.Like)
}
