package routes

import (
	"github.com/gofiber/fiber/v2"

	"echo-me/internal/controllers"
	"echo-me/internal/middleware"
)

func SetupRoutesPost(api fiber.Router, d *Deps) {
	h := &controllers.PostHandler{
		Posts:       d.Posts,
		Timeline:    d.Timeline,
		Timeout:     d.Cfg.RequestTimeout,
		ProfilePage: d.Cfg.ProfilePageLimit,
	}
	posts := api.Group("/posts")

	// registered before /:id so the literal segments win
	posts.Get("/timeline/:userId", h.TimelineFeed)

	// GET /api/posts/profile/alice?limit=20
	// GET /api/posts/profile/alice?limit=20&cursor=<next_cursor from the previous page>
	posts.Get("/profile/:username", h.Profile)

	posts.Post("/", middleware.RequireAuth(), h.Create)
	posts.Get("/:id", h.Get)
	posts.Put("/:id", middleware.RequireAuth(), h.Update)
	posts.Delete("/:id", middleware.RequireAuth(), h.Delete)
	posts.Put("/:id/like", middleware.RequireAuth(), h.Like)
}
