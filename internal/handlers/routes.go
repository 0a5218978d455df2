package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/creastech-limited/XMWHS-sub001/internal/middleware"
	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// SetupRoutes wires the orchestration and wallet endpoints.
func SetupRoutes(app *fiber.App, auth *middleware.AuthMiddleware, orch *OrchestrationHandler, wallet *WalletHandler) {
	app.Get("/health", Health)

	api := app.Group("/api", auth.Handler)

	sessions := api.Group("/orchestrations", middleware.RequirePermission(models.PermissionTransactionWrite))
	sessions.Post("/", orch.Create)
	sessions.Get("/:id", orch.Get)
	sessions.Put("/:id/draft", orch.UpdateDraft)
	sessions.Post("/:id/validate", orch.Validate)
	sessions.Post("/:id/confirm", orch.Confirm)
	sessions.Post("/:id/pin", orch.SubmitPIN)
	sessions.Post("/:id/otp/request", orch.RequestOTP)
	sessions.Post("/:id/otp/verify", orch.VerifyOTP)
	sessions.Post("/:id/cancel", orch.Cancel)

	// submissions are additionally rate limited; the submitter's
	// single-flight guard is the correctness mechanism, this just sheds
	// abusive traffic earlier
	submitLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	})
	sessions.Post("/:id/submit", submitLimiter, orch.Submit)
	sessions.Post("/:id/retry", submitLimiter, orch.Retry)

	w := api.Group("/wallet", middleware.RequirePermission(models.PermissionWalletRead))
	w.Get("/balance", wallet.Balance)
	w.Post("/refresh", wallet.Refresh)
	w.Get("/history", wallet.History)
}
