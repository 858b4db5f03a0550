// Package auth handles credentials, sessions and token issuance.
package auth

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
	"atlaspay/internal/utils"
	"atlaspay/internal/validation"
)

type RegisterRequest struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
}

type Service struct {
	users repositories.UserRepository
	log   *logrus.Entry
}

func NewService(users repositories.UserRepository, log *logrus.Logger) *Service {
	return &Service{
		users: users,
		log:   log.WithField("component", "auth"),
	}
}

// Register creates a customer account with a hashed password.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	v := validation.New()
	v.Required("username", req.Username)
	v.Email("email", req.Email)
	v.Password("password", req.Password)
	if req.PhoneNumber != "" {
		v.Phone("phone_number", req.PhoneNumber)
	}
	if !v.Valid() {
		for field, msg := range v.Errors {
			return nil, apperr.Validation("%s %s", field, msg)
		}
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.BusinessRule("an account already exists for %s", req.Email)
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, err, "hash password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Password:     string(hashed),
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Role:         models.RoleUser,
		TokenVersion: 1,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("account registered")
	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, "", "", apperr.Unauthorized("invalid credentials")
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", apperr.Unauthorized("invalid credentials")
	}

	access, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, "", "", apperr.Wrap(apperr.KindUnexpected, err, "generate tokens")
	}
	return user, access, refresh, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. A token
// version behind the user row means the session was revoked.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", apperr.Unauthorized("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return "", "", apperr.Unauthorized("invalid refresh token")
		}
		return "", "", err
	}
	if user.TokenVersion != claims.TokenVersion {
		return "", "", apperr.Unauthorized("session expired")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
}

// Logout bumps the token version, invalidating every outstanding token.
func (s *Service) Logout(ctx context.Context, userID uint) error {
	return s.users.IncrementTokenVersion(ctx, userID)
}

// ChangePassword swaps the credential and revokes existing sessions.
func (s *Service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperr.Unauthorized("invalid current password")
	}

	v := validation.New()
	v.Password("password", newPassword)
	if !v.Valid() {
		return apperr.Validation("password %s", v.Errors["password"])
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.KindUnexpected, err, "hash password")
	}

	user.Password = string(hashed)
	user.TokenVersion++
	return s.users.Update(ctx, user)
}

// TokenVersion returns the user's current token version for middleware
// session checks.
func (s *Service) TokenVersion(ctx context.Context, userID uint) (int, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}
