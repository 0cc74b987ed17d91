package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"echo-me/internal/controllers"
)

func SetupAuth(api fiber.Router, d *Deps) {
	h := &controllers.AuthHandler{Users: d.Users, Timeout: d.Cfg.RequestTimeout}

	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        d.Cfg.AuthRateLimitMax,
		Expiration: d.Cfg.RateLimitWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many authentication attempts, try again later")
		},
	}))

	// POST /api/auth/register
	//   {"username":"alice","email":"alice@example.com","password":"secret1"}
	auth.Post("/register", h.Register)

	// POST /api/auth/login
	//   {"email":"alice@example.com","password":"secret1"} -> {user, accessToken}
	auth.Post("/login", h.Login)
}
