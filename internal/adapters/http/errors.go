package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, storage_error, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errStorage returns a 500 error for a failed repository call.
func errStorage(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "storage_error", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errTimeout returns a 504 error.
func errTimeout(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusGatewayTimeout, "timeout", msg)
}

// serviceError maps a use-case error onto the error envelope. Storage details
// are logged, not returned.
func serviceError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return errBadRequest(c, vErr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		LoggerFromCtx(c.UserContext()).Warn("request timed out", "error", err)
		return errTimeout(c, "request timed out")
	case errors.Is(err, domain.ErrStorage):
		LoggerFromCtx(c.UserContext()).Error("storage failure", "error", err)
		return errStorage(c, "geofence storage is unavailable")
	default:
		LoggerFromCtx(c.UserContext()).Error("unexpected failure", "error", err)
		return errInternal(c, "internal error")
	}
}
