package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/creastech-limited/XMWHS-sub001/internal/middleware"
	"github.com/creastech-limited/XMWHS-sub001/internal/models"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/balance"
	"github.com/creastech-limited/XMWHS-sub001/internal/utils/response"
)

// WalletHandler exposes the reconciler-owned balance and history. It is
// strictly read-and-refresh: page code never mutates balance state.
type WalletHandler struct {
	balances *balance.Registry
}

// NewWalletHandler creates the handler.
func NewWalletHandler(balances *balance.Registry) *WalletHandler {
	if balances == nil {
		panic("balance registry is required")
	}
	return &WalletHandler{balances: balances}
}

func (h *WalletHandler) reconciler(c *fiber.Ctx) (*balance.Reconciler, error) {
	claims, _ := c.Locals(middleware.LocalsClaims).(*models.UserClaims)
	bearer, _ := c.Locals(middleware.LocalsBearer).(string)
	return h.balances.Obtain(c.Context(), bearer, claims.AccountID)
}

// Balance handles GET /api/wallet/balance.
func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	rec, err := h.reconciler(c)
	if err != nil {
		return response.Error(c, fiber.StatusBadGateway, "failed to load balance")
	}

	bal := rec.Balance()
	return response.Success(c, "balance", fiber.Map{
		"available": bal.Available,
		"pending":   bal.Pending,
		"spendable": bal.Spendable(),
	})
}

// Refresh handles POST /api/wallet/refresh: re-reads the authoritative
// available balance from the ledger. Pending holds are preserved.
func (h *WalletHandler) Refresh(c *fiber.Ctx) error {
	rec, err := h.reconciler(c)
	if err != nil {
		return response.Error(c, fiber.StatusBadGateway, "failed to load balance")
	}

	bearer, _ := c.Locals(middleware.LocalsBearer).(string)
	if err := rec.Refresh(c.Context(), bearer); err != nil {
		return response.Error(c, fiber.StatusBadGateway, "failed to refresh balance")
	}
	return h.Balance(c)
}

// History handles GET /api/wallet/history.
func (h *WalletHandler) History(c *fiber.Ctx) error {
	rec, err := h.reconciler(c)
	if err != nil {
		return response.Error(c, fiber.StatusBadGateway, "failed to load balance")
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	records, err := rec.History(c.Context(), limit)
	if err != nil {
		return response.ServerError(c, "failed to load history")
	}
	return response.Success(c, "history", records)
}
