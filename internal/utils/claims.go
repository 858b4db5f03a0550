package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"atlaspay/internal/models"
)

// GetUserClaims extracts the authenticated user's claims from the Fiber
// context, set by the auth middleware.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals("claims")
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.UserClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}
