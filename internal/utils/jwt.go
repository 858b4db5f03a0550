package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"atlaspay/internal/models"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	tokenIssuer     = "atlaspay-api"
)

// GenerateTokens signs an access and refresh token pair for the given
// claims. The secret comes from JWT_SECRET.
func GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return "", "", errors.New("JWT_SECRET not configured")
	}

	now := time.Now()
	sign := func(ttl time.Duration) (string, error) {
		tokenClaims := models.UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				IssuedAt:  jwt.NewNumericDate(now),
				Issuer:    tokenIssuer,
				Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
			},
			UserID:       claims.UserID,
			Email:        claims.Email,
			Role:         claims.Role,
			TokenVersion: claims.TokenVersion,
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims).SignedString([]byte(jwtSecret))
	}

	if accessToken, err = sign(accessTokenTTL); err != nil {
		return "", "", err
	}
	if refreshToken, err = sign(refreshTokenTTL); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenStr string) (*jwt.Token, *models.UserClaims, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, nil, errors.New("JWT_SECRET not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}
	return token, claims, nil
}
