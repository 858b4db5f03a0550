// Package main is the API server entry point.
package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"atlaspay/internal/apperr"
	"atlaspay/internal/config"
	"atlaspay/internal/logger"
	"atlaspay/internal/repositories"
	"atlaspay/internal/repositories/cache"
	"atlaspay/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.IsProduction())

	db, err := repositories.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	log.Info("postgres connected, schema migrated")

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.WithError(err).Fatal("redis connection failed")
	}
	walletCache := cache.NewWalletCache(redisClient, cfg.WalletCacheTTL)
	otpStore := cache.NewOTPStore(redisClient, cfg.OTPTTL)

	app := fiber.New(fiber.Config{
		AppName: "atlaspay",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
			}
			log.WithError(err).Error("unhandled request error")
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": apperr.KindUnexpected.String()})
		},
	})
	app.Use(recover.New())
	app.Use(cors.New())

	routes.Setup(app, routes.Deps{
		DB:          db,
		Cfg:         cfg,
		Log:         log,
		WalletCache: walletCache,
		OTPStore:    otpStore,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()
	log.WithField("port", cfg.Port).Info("server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = redisClient.Close()
}
