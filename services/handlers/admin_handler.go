package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
)

// AdminHandler serves the admin-only entry points. The services compare the
// caller with the stored admin; the handler only forwards the caller.
type AdminHandler struct {
	throttleSvc ThrottleServiceInterface
	claimSvc    ClaimServiceInterface
	platformSvc PlatformServiceInterface
	eventSvc    EventServiceInterface
	archiveSvc  ArchiveServiceInterface
}

func NewAdminHandler(
	throttleSvc ThrottleServiceInterface,
	claimSvc ClaimServiceInterface,
	platformSvc PlatformServiceInterface,
	eventSvc EventServiceInterface,
	archiveSvc ArchiveServiceInterface,
) *AdminHandler {
	return &AdminHandler{
		throttleSvc: throttleSvc,
		claimSvc:    claimSvc,
		platformSvc: platformSvc,
		eventSvc:    eventSvc,
		archiveSvc:  archiveSvc,
	}
}

// @Summary Set rate limit config (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.RateLimitConfigRequest true "Config"
// @Success 200 {object} shared.Response{data=model.RateLimitConfig}
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/admin/rate-limit/config [put]
func (h *AdminHandler) SetRateLimitConfig(c *fiber.Ctx) error {
	var req dto.RateLimitConfigRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	cfg := model.RateLimitConfig{
		MessageCooldown:    req.MessageCooldown,
		TipCooldown:        req.TipCooldown,
		TransferCooldown:   req.TransferCooldown,
		DailyMessageLimit:  req.DailyMessageLimit,
		DailyTipLimit:      req.DailyTipLimit,
		DailyTransferLimit: req.DailyTransferLimit,
	}
	if err := h.throttleSvc.SetRateLimitConfig(c.UserContext(), currentAccount(c), cfg); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Rate limit config updated", cfg)
}

// @Summary Set reputation (Admin)
// @Description Scores above 100 are stored but treated as 100
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param account path string true "Account"
// @Param request body dto.SetReputationRequest true "Score"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/reputation/{account} [put]
func (h *AdminHandler) SetReputation(c *fiber.Ctx) error {
	account, err := accountParam(c, "account")
	if err != nil {
		return err
	}

	var req dto.SetReputationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.throttleSvc.SetReputation(c.UserContext(), currentAccount(c), account, req.Score); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Reputation updated", nil)
}

// @Summary Set throttle override (Admin)
// @Description Exempt accounts skip cooldowns and daily caps
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param account path string true "Account"
// @Param request body dto.SetOverrideRequest true "Override"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/override/{account} [put]
func (h *AdminHandler) SetOverride(c *fiber.Ctx) error {
	account, err := accountParam(c, "account")
	if err != nil {
		return err
	}

	var req dto.SetOverrideRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.throttleSvc.SetOverride(c.UserContext(), currentAccount(c), account, req.Exempt); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Override updated", nil)
}

// @Summary Set claim window config (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.ClaimWindowConfigRequest true "Config"
// @Success 200 {object} shared.Response{data=model.ClaimWindowConfig}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/admin/claims/config [put]
func (h *AdminHandler) SetClaimWindowConfig(c *fiber.Ctx) error {
	var req dto.ClaimWindowConfigRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	cfg := model.ClaimWindowConfig{
		Enabled:             req.Enabled,
		ClaimValidityWindow: req.ClaimValidityWindow,
	}
	if err := h.claimSvc.SetClaimWindowConfig(c.UserContext(), currentAccount(c), cfg); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Claim window config updated", cfg)
}

// @Summary Cancel expired claim (Admin)
// @Description Returns an expired, uncollected claim to its creator
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "Claim ID"
// @Success 200 {object} shared.Response{data=dto.ClaimResponse}
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/admin/claims/{id}/cancel-expired [post]
func (h *AdminHandler) CancelExpiredClaim(c *fiber.Ctx) error {
	id, err := claimIDParam(c)
	if err != nil {
		return err
	}

	claim, err := h.claimSvc.AdminCancelExpiredClaim(c.UserContext(), currentAccount(c), id)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, claim)
}

// @Summary Reward a received tip (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param account path string true "Tip recipient"
// @Success 200 {object} shared.Response{data=dto.XPAwardResponse}
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/v1/admin/rewards/tip-received/{account} [post]
func (h *AdminHandler) RewardTipReceived(c *fiber.Ctx) error {
	account, err := accountParam(c, "account")
	if err != nil {
		return err
	}

	resp, err := h.platformSvc.RewardTipReceived(c.UserContext(), currentAccount(c), account)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// @Summary List events (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param after query int false "Return events after this sequence" default(0)
// @Param limit query int false "Max records (capped at 50)" default(50)
// @Success 200 {object} shared.Response{data=[]model.Event}
// @Router /api/v1/admin/events [get]
func (h *AdminHandler) ListEvents(c *fiber.Ctx) error {
	after, err := strconv.ParseUint(c.Query("after", "0"), 10, 64)
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid after")
	}
	limit := c.QueryInt("limit", shared.MaxPageSize)

	events, err := h.eventSvc.ListEvents(c.UserContext(), currentAccount(c), after, limit)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, events)
}

// @Summary Archive events (Admin)
// @Description Uploads events recorded since the last archive run to object storage
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.ArchiveResponse}
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/admin/events/archive [post]
func (h *AdminHandler) ArchiveEvents(c *fiber.Ctx) error {
	resp, err := h.archiveSvc.ArchiveEvents(c.UserContext(), currentAccount(c))
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// @Summary Update platform fee (Admin)
// @Description Fee charged on tips in basis points, at most 10000
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.UpdateFeeRequest true "Fee"
// @Success 200 {object} shared.Response
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/admin/settings/fee [put]
func (h *AdminHandler) UpdateFee(c *fiber.Ctx) error {
	var req dto.UpdateFeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.platformSvc.UpdateFeePercentage(c.UserContext(), currentAccount(c), req.FeeBasisPoints); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Platform fee updated", nil)
}

// @Summary Update admin (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.UpdateAdminRequest true "New admin"
// @Success 200 {object} shared.Response
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/admin/settings/admin [put]
func (h *AdminHandler) UpdateAdmin(c *fiber.Ctx) error {
	var req dto.UpdateAdminRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.platformSvc.UpdateAdmin(c.UserContext(), currentAccount(c), req.NewAdmin); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Admin updated", nil)
}

// @Summary Withdraw fees (Admin)
// @Description Pays collected fees out of the treasury
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.WithdrawFeesRequest true "Withdrawal"
// @Success 200 {object} shared.Response{data=dto.WithdrawFeesResponse}
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/admin/treasury/withdraw [post]
func (h *AdminHandler) WithdrawFees(c *fiber.Ctx) error {
	var req dto.WithdrawFeesRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.platformSvc.WithdrawFees(c.UserContext(), currentAccount(c), req.Token, req.Recipient, req.Amount)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}
