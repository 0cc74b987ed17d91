package routes

import (
	"github.com/gofiber/fiber/v2"

	"echo-me/internal/controllers"
	"echo-me/internal/middleware"
)

// Setup mounts the whole API under /api.
func Setup(app *fiber.App, d *Deps) {
	api := app.Group("/api")
	api.Get("/health", controllers.Health(d.Stores.Name))

	SetupAuth(api, d)

	api.Use(middleware.JWTUid(d.Cfg.JWTSecret))
	SetupRoutesUser(api, d)
	SetupRoutesPost(api, d)
	CommentRoutes(api, d)
	NotificationRoutes(api, d)
	SearchRoutes(api, d)
}
