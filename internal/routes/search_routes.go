package routes

import (
	"github.com/gofiber/fiber/v2"

	"echo-me/internal/controllers"
)

func SearchRoutes(api fiber.Router, d *Deps) {
	h := &controllers.SearchHandler{Search: d.Search, Timeout: d.Cfg.RequestTimeout}

	// GET /api/search/users?q=ali
	// GET /api/search/posts?q=hello
	api.Get("/search/:kind", h.Find)
}
