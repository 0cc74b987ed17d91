// Package apperr defines the failure taxonomy shared by stores, services and
// HTTP handlers. Callers test with errors.Is against the sentinels.
package apperr

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("invalid reference")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTimeout          = errors.New("timeout")
	ErrStoreUnavailable = errors.New("store unavailable")
)

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

func InvalidReference(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidReference)
}

func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrForbidden)
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// FromStore classifies an error returned by the database driver. Errors that
// already carry a taxonomy sentinel pass through unchanged.
func FromStore(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case isTyped(err):
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return NotFound(what)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), mongo.IsTimeout(err):
		return fmt.Errorf("%s: %w: %v", what, ErrTimeout, err)
	default:
		return fmt.Errorf("%s: %w: %v", what, ErrStoreUnavailable, err)
	}
}

func isTyped(err error) bool {
	for _, s := range []error{
		ErrNotFound, ErrInvalidReference, ErrInvalidArgument, ErrForbidden,
		ErrConflict, ErrUnauthorized, ErrTimeout, ErrStoreUnavailable,
	} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
