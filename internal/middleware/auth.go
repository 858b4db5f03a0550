// Package middleware provides the HTTP middleware for the fiber app.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"atlaspay/internal/models"
	"atlaspay/internal/services/auth"
	"atlaspay/internal/utils"
)

// AuthMiddleware validates bearer tokens and loads the claims into the
// request context. Tokens with a stale version are rejected: the session
// was revoked by logout or a password change.
type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return utils.Unauthorized(c, "invalid token")
	}

	currentVersion, err := m.authService.TokenVersion(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.Unauthorized(c, "invalid token")
	}
	if claims.TokenVersion != currentVersion {
		return utils.Unauthorized(c, "session expired")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// RequireAdmin is a routing fast path on the token's role claim. Services
// re-check the role against the users table before acting.
func RequireAdmin(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}
	if !claims.IsAdmin() {
		return utils.Respond(c, fiber.StatusForbidden, fiber.Map{"error": "admin access required"})
	}
	return c.Next()
}
