// Package routes wires the services together and maps them onto the HTTP
// surface.
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"atlaspay/internal/config"
	"atlaspay/internal/handlers"
	"atlaspay/internal/middleware"
	"atlaspay/internal/repositories"
	"atlaspay/internal/repositories/cache"
	"atlaspay/internal/services/auth"
	"atlaspay/internal/services/billing"
	"atlaspay/internal/services/fees"
	"atlaspay/internal/services/fraud"
	"atlaspay/internal/services/kyc"
	"atlaspay/internal/services/notification"
	"atlaspay/internal/services/offer"
	"atlaspay/internal/services/payment"
	"atlaspay/internal/services/policy"
	"atlaspay/internal/services/transaction"
	"atlaspay/internal/services/wallet"
)

// Deps holds the shared infrastructure the router builds services from.
type Deps struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Log         *logrus.Logger
	WalletCache *cache.WalletCache
	OTPStore    *cache.OTPStore
}

// Setup builds the service graph and registers every route.
func Setup(app *fiber.App, d Deps) {
	store := repositories.NewStore(d.DB)

	policyEngine := policy.NewEngine()
	calculator := fees.NewCalculator()
	gateway := payment.NewGateway(d.Cfg.StripeSecretKey, d.Log)
	billProvider := billing.NewProvider(d.Log)
	screener := fraud.NewScreener(d.Log)
	notifier := notification.NewService(d.Log)

	authService := auth.NewService(store.Users, d.Log)
	kycService := kyc.NewService(store, policyEngine, notifier, d.Log)
	walletService := wallet.NewService(store, d.WalletCache, policyEngine, kycService, d.Log)
	offerService := offer.NewService(store, d.Log)
	txService := transaction.NewService(store, calculator, policyEngine, gateway,
		billProvider, screener, notifier, d.OTPStore, d.WalletCache, d.Log)

	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService)
	txHandler := handlers.NewTransactionHandler(txService, d.OTPStore)
	offerHandler := handlers.NewOfferHandler(offerService)
	kycHandler := handlers.NewKycHandler(kycService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public auth endpoints, rate limited against credential stuffing.
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	})
	api.Post("/auth/register", authLimiter, authHandler.Register)
	api.Post("/auth/login", authLimiter, authHandler.Login)
	api.Post("/auth/refresh", authLimiter, authHandler.Refresh)

	// Everything below requires a valid session.
	protected := api.Use(authMiddleware.Handler)
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	protected.Get("/wallets/:id", walletHandler.Get)
	protected.Get("/wallets/:id/balance", walletHandler.GetBalance)
	protected.Put("/wallets/:id", walletHandler.Update)
	protected.Get("/wallets/:id/transactions", txHandler.List)
	protected.Get("/wallets/:id/kyc", kycHandler.GetStatus)

	protected.Post("/transactions/deposit", txHandler.Deposit)
	protected.Post("/transactions/withdraw", txHandler.Withdraw)
	protected.Post("/transactions/transfer", txHandler.Transfer)
	protected.Post("/transactions/bill-payment", txHandler.PayBill)
	protected.Post("/transactions/otp", txHandler.RequestOTP)
	protected.Get("/transactions/:id", txHandler.Get)

	protected.Get("/offers", offerHandler.List)
	protected.Get("/offers/:id", offerHandler.Get)

	// Back-office surface. The role claim gates routing; services verify
	// the role against the users table again.
	admin := protected.Group("/admin", middleware.RequireAdmin)
	admin.Post("/wallets", walletHandler.Create)
	admin.Get("/wallets", walletHandler.List)
	admin.Delete("/wallets/:id", walletHandler.Delete)
	admin.Post("/wallets/:id/offer", walletHandler.AssignOffer)
	admin.Delete("/wallets/:id/offer", walletHandler.RemoveOffer)
	admin.Post("/wallets/:id/kyc/basic", kycHandler.InitiateBasicVerification)
	admin.Post("/wallets/:id/kyc/verify-identity", kycHandler.VerifyIdentity)
	admin.Post("/wallets/:id/kyc/upgrade", kycHandler.UpgradeLevel)
	admin.Post("/wallets/:id/kyc/reapply-limits", kycHandler.ReapplyLimits)

	admin.Post("/offers", offerHandler.Create)
	admin.Put("/offers/:id", offerHandler.Update)
	admin.Post("/offers/:id/activate", offerHandler.Activate)
	admin.Post("/offers/:id/deactivate", offerHandler.Deactivate)
	admin.Delete("/offers/:id", offerHandler.Delete)
}
