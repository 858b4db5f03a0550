// Command admin_seed creates the initial back-office admin account from
// ADMIN_EMAIL / ADMIN_PASSWORD.
package main

import (
	"context"
	"os"

	"golang.org/x/crypto/bcrypt"

	"atlaspay/internal/apperr"
	"atlaspay/internal/config"
	"atlaspay/internal/logger"
	"atlaspay/internal/models"
	"atlaspay/internal/repositories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.IsProduction())

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := repositories.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx := context.Background()
	users := repositories.NewUserRepository(db)

	if _, err := users.GetByEmail(ctx, adminEmail); err == nil {
		log.Info("admin account already exists")
		return
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		log.WithError(err).Fatal("lookup failed")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Fatal("hash password failed")
	}

	admin := &models.User{
		Username:     "admin",
		Email:        adminEmail,
		Password:     string(hashed),
		FullName:     "Back Office Admin",
		Role:         models.RoleAdmin,
		TokenVersion: 1,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.WithError(err).Fatal("create admin failed")
	}

	log.WithField("email", adminEmail).Info("admin account created")
}
