package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/shared"
)

type PlatformHandler struct {
	platformSvc PlatformServiceInterface
}

func NewPlatformHandler(platformSvc PlatformServiceInterface) *PlatformHandler {
	return &PlatformHandler{
		platformSvc: platformSvc,
	}
}

// @Summary Initialize contract
// @Description Stores the caller as admin together with contract metadata and the default rate limit config
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.InitRequest true "Contract metadata"
// @Success 201 {object} shared.Response{data=dto.InitResponse}
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/admin/init [post]
func (h *PlatformHandler) Init(c *fiber.Ctx) error {
	var req dto.InitRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	admin := currentAccount(c)
	if err := h.platformSvc.Init(c.UserContext(), admin, req.Name, req.Version); err != nil {
		return err
	}

	return shared.ResponseCreated(c, dto.InitResponse{
		Admin:   admin,
		Name:    req.Name,
		Version: req.Version,
	})
}

// @Summary Contract metadata
// @Tags platform
// @Produce json
// @Success 200 {object} shared.Response{data=model.ContractMetadata}
// @Router /api/v1/metadata [get]
func (h *PlatformHandler) GetMetadata(c *fiber.Ctx) error {
	metadata, err := h.platformSvc.Metadata(c.UserContext())
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, metadata)
}

// @Summary Reward a message
// @Description Awards message XP to the caller, subject to the message cooldown and daily cap
// @Tags rewards
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.XPAwardResponse}
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/v1/rewards/message [post]
func (h *PlatformHandler) RewardMessage(c *fiber.Ctx) error {
	resp, err := h.platformSvc.RewardMessage(c.UserContext(), currentAccount(c))
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// @Summary Send a tip
// @Description Tips another account; the platform fee goes to the treasury
// @Tags tips
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.SendTipRequest true "Tip"
// @Success 200 {object} shared.Response{data=dto.TipResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/v1/tips [post]
func (h *PlatformHandler) SendTip(c *fiber.Ctx) error {
	var req dto.SendTipRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.platformSvc.SendTip(c.UserContext(), currentAccount(c), req.Receiver, req.Token, req.Amount)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// @Summary Transfer tokens
// @Description Transfers tokens directly, or as a pending claim when with_claim is set
// @Tags transfers
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.TransferRequest true "Transfer"
// @Success 200 {object} shared.Response{data=dto.TransferResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/v1/transfers [post]
func (h *PlatformHandler) Transfer(c *fiber.Ctx) error {
	var req dto.TransferRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.platformSvc.TransferTokens(c.UserContext(), currentAccount(c), req.Recipient, req.Token, req.Amount, req.WithClaim)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// @Summary Treasury balance
// @Tags platform
// @Produce json
// @Param token query string true "Token"
// @Success 200 {object} shared.Response{data=dto.TreasuryResponse}
// @Router /api/v1/treasury [get]
func (h *PlatformHandler) GetTreasury(c *fiber.Ctx) error {
	token, err := tokenQuery(c)
	if err != nil {
		return err
	}

	balance, err := h.platformSvc.GetTreasuryBalance(c.UserContext(), token)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, dto.TreasuryResponse{Token: token, Balance: balance})
}

// @Summary Treasury analytics
// @Tags platform
// @Produce json
// @Param token query string true "Token"
// @Success 200 {object} shared.Response{data=dto.TreasuryAnalyticsResponse}
// @Router /api/v1/treasury/analytics [get]
func (h *PlatformHandler) GetTreasuryAnalytics(c *fiber.Ctx) error {
	token, err := tokenQuery(c)
	if err != nil {
		return err
	}

	analytics, err := h.platformSvc.GetTreasuryAnalytics(c.UserContext(), token)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, analytics)
}

// @Summary Platform settings
// @Tags platform
// @Produce json
// @Success 200 {object} shared.Response{data=model.PlatformSettings}
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/settings [get]
func (h *PlatformHandler) GetPlatformSettings(c *fiber.Ctx) error {
	settings, err := h.platformSvc.GetPlatformSettings(c.UserContext())
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, settings)
}

// @Summary User profile
// @Tags platform
// @Produce json
// @Param account path string true "Account"
// @Success 200 {object} shared.Response{data=model.UserProfile}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/profile/{account} [get]
func (h *PlatformHandler) GetProfile(c *fiber.Ctx) error {
	account, err := accountParam(c, "account")
	if err != nil {
		return err
	}

	profile, err := h.platformSvc.GetProfile(c.UserContext(), account)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, profile)
}

// @Summary Token balance
// @Tags platform
// @Produce json
// @Param account path string true "Account"
// @Param token path string true "Token"
// @Success 200 {object} shared.Response{data=dto.BalanceResponse}
// @Router /api/v1/balances/{account}/{token} [get]
func (h *PlatformHandler) GetBalance(c *fiber.Ctx) error {
	account, err := accountParam(c, "account")
	if err != nil {
		return err
	}
	token, err := accountParam(c, "token")
	if err != nil {
		return err
	}

	balance, err := h.platformSvc.GetBalance(c.UserContext(), account, token)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, dto.BalanceResponse{Account: account, Token: token, Balance: balance})
}
