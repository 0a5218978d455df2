// Package main is the entry point for the transfer/withdrawal
// orchestration service. It initializes the ledger gateway, the data
// layer and the orchestration services, then starts the HTTP server.
package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/creastech-limited/XMWHS-sub001/internal/config"
	"github.com/creastech-limited/XMWHS-sub001/internal/gateway"
	"github.com/creastech-limited/XMWHS-sub001/internal/handlers"
	"github.com/creastech-limited/XMWHS-sub001/internal/middleware"
	"github.com/creastech-limited/XMWHS-sub001/internal/repositories"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/balance"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/fees"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/orchestrator"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/recipient"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/secret"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/submitter"
)

func main() {
	config.LoadEnv()

	zapLogger, err := newLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if err := repositories.InitDB(); err != nil {
		zapLogger.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		repositories.Redis.Close()
	}()

	// Ledger gateway
	ledger := gateway.NewClient(gateway.Config{
		BaseURL: config.GetEnv("LEDGER_BASE_URL", "http://localhost:9000/api/v1"),
		Timeout: config.GetDurationEnv("LEDGER_TIMEOUT", gateway.DefaultTimeout),
	}, zapLogger)

	// Services
	cache := repositories.NewRedisCacheRepository(repositories.Redis)

	feeService := fees.NewService(ledger, cache, fees.Config{
		TTL:      config.GetDurationEnv("FEE_SCHEDULE_TTL", fees.DefaultTTL),
		FailOpen: config.GetBoolEnv("FEE_FAIL_OPEN", true),
	}, zapLogger)

	recipientService := recipient.NewService(ledger, cache, zapLogger)
	submitService := submitter.NewService(ledger, nil, zapLogger)

	historyRepo := repositories.NewHistoryRepository(repositories.DB)
	balances := balance.NewRegistry(historyRepo, ledger,
		config.GetIntEnv("HISTORY_BOUND", balance.DefaultHistoryBound), zapLogger)

	manager := orchestrator.NewManager(
		orchestrator.TransferStrategy{Fees: feeService},
		orchestrator.WithdrawalStrategy{Fees: feeService, Previewer: ledger},
		balances,
		orchestrator.Deps{
			Recipients: recipientService,
			Submitter:  submitService,
			OTP:        otpIssuer{ledger},
			Logger:     zapLogger,
		},
	)

	// Drop settled sessions past their TTL.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := manager.Sweep(); n > 0 {
				zapLogger.Debug("swept terminal sessions", zap.Int("count", n))
			}
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      "transfer-orchestrator",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	auth := middleware.NewAuthMiddleware(zapLogger)
	orchHandler := handlers.NewOrchestrationHandler(manager, ledger, zapLogger)
	walletHandler := handlers.NewWalletHandler(balances)
	handlers.SetupRoutes(app, auth, orchHandler, walletHandler)

	addr := ":" + config.GetEnv("PORT", "8080")
	zapLogger.Info("starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

// otpIssuer adapts the gateway client to the secret.OTPIssuer contract
// by translating the verify request between the two packages' types.
type otpIssuer struct {
	*gateway.Client
}

func (o otpIssuer) VerifyOTP(ctx context.Context, bearer string, req secret.VerifyRequest) error {
	return o.Client.VerifyOTP(ctx, bearer, gateway.VerifyOTPRequest{
		OTP:           req.OTP,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		BankCode:      req.BankCode,
	})
}

func newLogger() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
