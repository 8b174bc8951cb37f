package utils

import (
	"errors"
	"log"

	domainerr "clinicpay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"success": false, "error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"success": false, "error": message})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"success": false, "error": message})
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusNotFound, fiber.Map{"success": false, "error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"success": false, "error": message})
}

// DomainErrorResponse maps a domain error to its HTTP status and a
// structured body. Anything outside the taxonomy becomes a generic 500; raw
// storage detail is logged, never echoed.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	var derr *domainerr.DomainError
	if !errors.As(err, &derr) {
		log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return InternalError(c, "internal server error")
	}

	status := fiber.StatusInternalServerError
	switch derr.Code {
	case "VALIDATION_ERROR":
		status = fiber.StatusBadRequest
	case "WALLET_NOT_FOUND", "WITHDRAWAL_REQUEST_NOT_FOUND":
		status = fiber.StatusNotFound
	case "INSUFFICIENT_BALANCE", "WITHDRAWAL_NOT_PENDING":
		status = fiber.StatusUnprocessableEntity
	case "REFERENCE_COLLISION":
		status = fiber.StatusConflict
	case "WALLET_BUSY":
		status = fiber.StatusServiceUnavailable
	case "PERSISTENCE_ERROR":
		log.Printf("persistence failure on %s %s: %v", c.Method(), c.Path(), derr.Unwrap())
	}

	return Respond(c, status, fiber.Map{
		"success": false,
		"code":    derr.Code,
		"error":   derr.Message,
	})
}
