package routes

import (
	"github.com/gofiber/fiber/v2"

	"echo-me/internal/controllers"
	"echo-me/internal/middleware"
)

func NotificationRoutes(api fiber.Router, d *Deps) {
	h := &controllers.NotificationHandler{
		Notis:    d.Notis,
		Timeout:  d.Cfg.RequestTimeout,
		PageSize: d.Cfg.NotificationPageLimit,
	}
	noti := api.Group("/notifications", middleware.RequireAuth())

	noti.Get("/", h.List)
	noti.Get("/unread", h.Unread)
	noti.Put("/read-all", h.ReadAll)
	noti.Put("/:id/read", h.Read)
	noti.Delete("/:id", h.Delete)
}
