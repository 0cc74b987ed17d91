package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"echo-me/internal/token"
)

const LocalUserID = "user_id"

// JWTUid reads an optional bearer token. A valid token puts its uid in
// Locals; a malformed or expired one is rejected with 401. Requests without
// a token pass through anonymous.
func JWTUid(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			return c.Next()
		}

		uid, err := token.Parse(key, strings.TrimSpace(auth[7:]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(LocalUserID, uid)
		return c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := UIDObjectID(c); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}
