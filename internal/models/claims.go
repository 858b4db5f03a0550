package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload carried by access and refresh tokens.
// TokenVersion is compared against the user row on every request so that a
// logout or password change invalidates all outstanding tokens.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// IsAdmin reports whether the token was issued for an admin account.
// Authorization decisions inside services go through the users table instead;
// this is only a fast path for routing middleware.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
