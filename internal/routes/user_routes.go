package routes

import (
	"github.com/gofiber/fiber/v2"

	"echo-me/internal/controllers"
	"echo-me/internal/middleware"
)

func SetupRoutesUser(api fiber.Router, d *Deps) {
	h := &controllers.UserHandler{
		Users:   d.Users,
		Follow:  d.Follow,
		Graph:   d.Graph,
		Lookup:  d.Stores.Users,
		Timeout: d.Cfg.RequestTimeout,
	}
	users := api.Group("/users")

	users.Get("/:id", h.Get)
	users.Get("/:id/followings", h.Followings)

	// only the user or an admin
	users.Put("/:id", middleware.RequireAuth(), h.Update)
	users.Delete("/:id", middleware.RequireAuth(), h.Delete)

	// the acting user comes from the token, the target from the path
	users.Put("/:id/follow", middleware.RequireAuth(), h.FollowUser)
	users.Put("/:id/unfollow", middleware.RequireAuth(), h.UnfollowUser)
}
