// Package routes defines the API routing configuration. It wires
// repositories into services, services into handlers, and handlers onto the
// fiber app.
package routes

import (
	"time"

	"clinicpay/internal/config"
	"clinicpay/internal/directory"
	"clinicpay/internal/handlers"
	"clinicpay/internal/middleware"
	"clinicpay/internal/repositories"
	"clinicpay/internal/repositories/cache"
	"clinicpay/internal/services/commission"
	"clinicpay/internal/services/ledger"
	"clinicpay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes. The database handle and
// cache are injected here and nowhere else.
func SetupRoutes(app *fiber.App, db *gorm.DB, walletCache *cache.WalletCache) {
	lockTimeout := time.Duration(config.GetIntEnv("WALLET_LOCK_TIMEOUT_MS", 3000)) * time.Millisecond
	walletRepo := repositories.NewWalletRepository(db, lockTimeout)

	walletService := wallet.NewService(
		walletRepo,
		commission.NewResolver(walletRepo),
		ledger.NewWriter(),
		directory.NewGormDirectory(db),
		walletCache,
		wallet.Config{
			DefaultCurrency: config.GetEnv("WALLET_CURRENCY", wallet.DefaultCurrency),
			MinWithdrawal:   config.GetInt64Env("WALLET_MIN_WITHDRAWAL", wallet.DefaultMinWithdrawal),
		},
	)

	walletHandler := handlers.NewWalletHandler(walletService)
	healthHandler := handlers.NewHealthHandler(db, walletCache)

	app.Get("/health", healthHandler.Check)

	authMiddleware := middleware.NewAuthMiddleware()
	api := app.Group("/wallet", authMiddleware.Handler)

	api.Post("/deposit", walletHandler.Deposit)
	api.Post("/withdraw", walletHandler.Withdraw)
	api.Get("/balance", walletHandler.GetBalance)
	api.Get("/transactions", walletHandler.ListTransactions)
	api.Post("/withdrawals/:id/reject", walletHandler.RejectWithdrawal)
}
