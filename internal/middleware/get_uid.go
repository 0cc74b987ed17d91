package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UIDObjectID returns the authenticated user id set by JWTUid.
func UIDObjectID(c *fiber.Ctx) (bson.ObjectID, error) {
	uid, ok := c.Locals(LocalUserID).(string)
	if !ok || uid == "" {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}
	oid, err := bson.ObjectIDFromHex(uid)
	if err != nil {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}
	return oid, nil
}
