package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"atlaspay/internal/apperr"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a 201 JSON response.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// Error maps a service error onto the HTTP surface by its kind. Unexpected
// errors surface as an opaque 500.
func Error(c *fiber.Ctx, err error) error {
	var e *apperr.Error
	message := "internal server error"
	if errors.As(err, &e) {
		message = e.Message
	}

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return Respond(c, fiber.StatusNotFound, fiber.Map{"error": message})
	case apperr.KindUnauthorized:
		return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message})
	case apperr.KindValidation:
		return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
	case apperr.KindBusinessRule, apperr.KindInsufficientBalance, apperr.KindOfferLimitExceeded:
		return Respond(c, fiber.StatusUnprocessableEntity, fiber.Map{
			"error": message,
			"code":  apperr.KindOf(err).String(),
		})
	default:
		return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": "internal server error"})
	}
}
