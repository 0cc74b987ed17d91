package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/dto"
	"echo-me/internal/apperr"
)

// StatusFor maps the error taxonomy to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidArgument), errors.Is(err, apperr.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, apperr.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		if status == http.StatusInternalServerError {
			msg = "internal server error"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

// ErrorHandler is the app-wide fallback for errors returned by handlers and
// middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}

func paramID(c *fiber.Ctx, name string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return bson.NilObjectID, apperr.InvalidArgument("invalid %s", name)
	}
	return id, nil
}

// parseBody decodes and validates the JSON body into v.
func parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return apperr.InvalidArgument("invalid body")
	}
	if err := dto.Validate(v); err != nil {
		return apperr.InvalidArgument("%s", err.Error())
	}
	return nil
}

// withTimeout bounds the store calls a handler makes.
func withTimeout(c *fiber.Ctx, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), d)
}
