// Package handlers exposes the orchestration lifecycle and wallet
// views over HTTP. Handlers translate between the transport and the
// session state machine; they hold no business rules of their own.
package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/creastech-limited/XMWHS-sub001/internal/gateway"
	"github.com/creastech-limited/XMWHS-sub001/internal/middleware"
	"github.com/creastech-limited/XMWHS-sub001/internal/models"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/amount"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/orchestrator"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/recipient"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/secret"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/submitter"
	"github.com/creastech-limited/XMWHS-sub001/internal/utils/response"
)

// ProfileFetcher reads the remote profile at session creation time to
// learn whether a PIN exists yet.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, bearer string) (*models.UserProfile, error)
}

// OrchestrationHandler drives sessions over HTTP.
type OrchestrationHandler struct {
	manager *orchestrator.Manager
	profile ProfileFetcher
	logger  *zap.Logger
}

// NewOrchestrationHandler creates the handler.
func NewOrchestrationHandler(manager *orchestrator.Manager, profile ProfileFetcher, logger *zap.Logger) *OrchestrationHandler {
	if manager == nil {
		panic("manager is required")
	}
	if profile == nil {
		panic("profile fetcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrchestrationHandler{manager: manager, profile: profile, logger: logger}
}

func requestIdentity(c *fiber.Ctx) (*models.UserClaims, string) {
	claims, _ := c.Locals(middleware.LocalsClaims).(*models.UserClaims)
	bearer, _ := c.Locals(middleware.LocalsBearer).(string)
	return claims, bearer
}

// Create handles POST /api/orchestrations.
func (h *OrchestrationHandler) Create(c *fiber.Ctx) error {
	claims, bearer := requestIdentity(c)

	var req struct {
		Category models.Category `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}
	if !req.Category.Valid() {
		return response.BadRequest(c, "unknown category")
	}

	profile, err := h.profile.GetProfile(c.Context(), bearer)
	if err != nil {
		return h.fail(c, err)
	}

	sess, err := h.manager.Create(c.Context(), bearer, claims.AccountID, req.Category, profile.PINSet)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "session created", sess.Snapshot())
}

// Get handles GET /api/orchestrations/:id.
func (h *OrchestrationHandler) Get(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "session", sess.Snapshot())
}

// UpdateDraft handles PUT /api/orchestrations/:id/draft.
func (h *OrchestrationHandler) UpdateDraft(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req struct {
		Amount      *string `json:"amount"`
		Recipient   *string `json:"recipient"`
		Note        *string `json:"note"`
		BankName    *string `json:"bank_name"`
		PersistBank *bool   `json:"persist_bank"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	edits := []func() error{}
	if req.Amount != nil {
		edits = append(edits, func() error { return sess.SetAmount(*req.Amount) })
	}
	if req.Recipient != nil {
		edits = append(edits, func() error { return sess.SetRecipient(*req.Recipient) })
	}
	if req.Note != nil {
		edits = append(edits, func() error { return sess.SetNote(*req.Note) })
	}
	if req.BankName != nil {
		edits = append(edits, func() error { return sess.SetBankName(*req.BankName) })
	}
	if req.PersistBank != nil {
		edits = append(edits, func() error { return sess.PersistBankDetails(*req.PersistBank) })
	}
	for _, edit := range edits {
		if err := edit(); err != nil {
			return h.fail(c, err)
		}
	}

	return response.Success(c, "draft updated", sess.Snapshot())
}

// Validate handles POST /api/orchestrations/:id/validate.
func (h *OrchestrationHandler) Validate(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	_, bearer := requestIdentity(c)

	if err := sess.Validate(c.Context(), bearer); err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "draft validated", sess.Snapshot())
}

// Confirm handles POST /api/orchestrations/:id/confirm.
func (h *OrchestrationHandler) Confirm(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	_, bearer := requestIdentity(c)

	if err := sess.Confirm(c.Context(), bearer); err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "awaiting secret", sess.Snapshot())
}

// SubmitPIN handles POST /api/orchestrations/:id/pin.
func (h *OrchestrationHandler) SubmitPIN(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	if err := sess.SubmitPIN(req.PIN); err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "secret accepted", sess.Snapshot())
}

// RequestOTP handles POST /api/orchestrations/:id/otp/request.
func (h *OrchestrationHandler) RequestOTP(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	_, bearer := requestIdentity(c)

	if err := sess.RequestOTP(c.Context(), bearer); err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "otp requested", sess.Snapshot())
}

// VerifyOTP handles POST /api/orchestrations/:id/otp/verify.
func (h *OrchestrationHandler) VerifyOTP(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	_, bearer := requestIdentity(c)

	var req struct {
		OTP string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	if err := sess.VerifyOTP(c.Context(), bearer, req.OTP); err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "otp verified", sess.Snapshot())
}

// Submit handles POST /api/orchestrations/:id/submit.
func (h *OrchestrationHandler) Submit(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	_, bearer := requestIdentity(c)

	record, err := sess.Submit(c.Context(), bearer)
	if err != nil {
		return h.failWithSnapshot(c, sess, err)
	}
	return response.Success(c, "transaction settled", fiber.Map{
		"session": sess.Snapshot(),
		"record":  record,
	})
}

// Retry handles POST /api/orchestrations/:id/retry.
func (h *OrchestrationHandler) Retry(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	_, bearer := requestIdentity(c)

	record, err := sess.Retry(c.Context(), bearer)
	if err != nil {
		return h.failWithSnapshot(c, sess, err)
	}
	return response.Success(c, "transaction settled", fiber.Map{
		"session": sess.Snapshot(),
		"record":  record,
	})
}

// Cancel handles POST /api/orchestrations/:id/cancel.
func (h *OrchestrationHandler) Cancel(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := sess.Cancel(); err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, "session cancelled", sess.Snapshot())
}

func (h *OrchestrationHandler) session(c *fiber.Ctx) (*orchestrator.Session, error) {
	claims, _ := requestIdentity(c)
	return h.manager.Get(claims.AccountID, c.Params("id"))
}

// fail maps classified errors to status codes and the per-kind user
// message. Distinguishable messages are part of the contract: a generic
// failure string is not acceptable in a payments flow.
func (h *OrchestrationHandler) fail(c *fiber.Ctx, err error) error {
	return response.Error(c, statusFor(err), orchestrator.Message(err))
}

// failWithSnapshot includes the session view so clients can render the
// failed state (retry button, preserved draft) without a second call.
func (h *OrchestrationHandler) failWithSnapshot(c *fiber.Ctx, sess *orchestrator.Session, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error":   orchestrator.Message(err),
		"session": sess.Snapshot(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, amount.ErrInvalidAmount),
		errors.Is(err, amount.ErrBelowMinimum),
		errors.Is(err, amount.ErrInsufficientBalance),
		errors.Is(err, recipient.ErrInvalidIdentifier),
		errors.Is(err, secret.ErrMalformedSecret):
		return fiber.StatusBadRequest
	case errors.Is(err, gateway.ErrInvalidSecret),
		errors.Is(err, gateway.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, gateway.ErrRecipientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, gateway.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, orchestrator.ErrInvalidState),
		errors.Is(err, orchestrator.ErrNotCancellable),
		errors.Is(err, orchestrator.ErrRetryNotAllowed),
		errors.Is(err, submitter.ErrAlreadyInFlight):
		return fiber.StatusConflict
	case errors.Is(err, gateway.ErrNetwork):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusBadGateway
	}
}
