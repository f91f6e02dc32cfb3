package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/shared"
)

type ClaimHandler struct {
	claimSvc ClaimServiceInterface
}

func NewClaimHandler(claimSvc ClaimServiceInterface) *ClaimHandler {
	return &ClaimHandler{
		claimSvc: claimSvc,
	}
}

// @Summary Create a pending claim
// @Description Moves tokens into escrow for the recipient to claim before the window closes
// @Tags claims
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateClaimRequest true "Claim"
// @Success 201 {object} shared.Response{data=dto.CreateClaimResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/claims [post]
func (h *ClaimHandler) CreateClaim(c *fiber.Ctx) error {
	var req dto.CreateClaimRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	id, err := h.claimSvc.CreatePendingClaim(c.UserContext(), currentAccount(c), req.Recipient, req.Token, req.Amount)
	if err != nil {
		return err
	}
	return shared.ResponseCreated(c, dto.CreateClaimResponse{ClaimID: id})
}

// @Summary Claim funds
// @Description Releases a pending claim to its recipient
// @Tags claims
// @Produce json
// @Security Bearer
// @Param id path int true "Claim ID"
// @Success 200 {object} shared.Response{data=dto.ClaimResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 410 {object} dto.ErrorResponse
// @Router /api/v1/claims/{id}/claim [post]
func (h *ClaimHandler) Claim(c *fiber.Ctx) error {
	id, err := claimIDParam(c)
	if err != nil {
		return err
	}

	claim, err := h.claimSvc.Claim(c.UserContext(), id, currentAccount(c))
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, claim)
}

// @Summary Cancel a pending claim
// @Description Refunds a pending claim to its creator
// @Tags claims
// @Produce json
// @Security Bearer
// @Param id path int true "Claim ID"
// @Success 200 {object} shared.Response{data=dto.ClaimResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/claims/{id}/cancel [post]
func (h *ClaimHandler) CancelClaim(c *fiber.Ctx) error {
	id, err := claimIDParam(c)
	if err != nil {
		return err
	}

	claim, err := h.claimSvc.CancelPendingClaim(c.UserContext(), id, currentAccount(c))
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, claim)
}

// @Summary Claim window config
// @Tags claims
// @Produce json
// @Success 200 {object} shared.Response{data=model.ClaimWindowConfig}
// @Router /api/v1/claims/config [get]
func (h *ClaimHandler) GetClaimWindowConfig(c *fiber.Ctx) error {
	cfg, err := h.claimSvc.GetClaimWindowConfig(c.UserContext())
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, cfg)
}

// @Summary Get claim
// @Tags claims
// @Produce json
// @Param id path int true "Claim ID"
// @Success 200 {object} shared.Response{data=dto.ClaimResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/claims/{id} [get]
func (h *ClaimHandler) GetClaim(c *fiber.Ctx) error {
	id, err := claimIDParam(c)
	if err != nil {
		return err
	}

	claim, err := h.claimSvc.GetPendingClaim(c.UserContext(), id)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, claim)
}

// @Summary Claims by recipient
// @Tags claims
// @Produce json
// @Param account path string true "Recipient"
// @Param limit query int false "Max records (capped at 50)" default(50)
// @Param pending_only query bool false "Only pending claims"
// @Success 200 {object} shared.Response{data=[]dto.ClaimResponse}
// @Router /api/v1/claims/recipient/{account} [get]
func (h *ClaimHandler) GetClaimsByRecipient(c *fiber.Ctx) error {
	account, query, err := parseListClaims(c)
	if err != nil {
		return err
	}

	claims, err := h.claimSvc.GetClaimsByRecipient(c.UserContext(), account, query.Limit, query.PendingOnly)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, claims)
}

// @Summary Claims by creator
// @Tags claims
// @Produce json
// @Param account path string true "Creator"
// @Param limit query int false "Max records (capped at 50)" default(50)
// @Param pending_only query bool false "Only pending claims"
// @Success 200 {object} shared.Response{data=[]dto.ClaimResponse}
// @Router /api/v1/claims/creator/{account} [get]
func (h *ClaimHandler) GetClaimsByCreator(c *fiber.Ctx) error {
	account, query, err := parseListClaims(c)
	if err != nil {
		return err
	}

	claims, err := h.claimSvc.GetClaimsByCreator(c.UserContext(), account, query.Limit, query.PendingOnly)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, claims)
}

// @Summary Escrow balance
// @Description Tokens held for pending claims
// @Tags claims
// @Produce json
// @Param token path string true "Token"
// @Success 200 {object} shared.Response{data=dto.EscrowBalanceResponse}
// @Router /api/v1/escrow/{token} [get]
func (h *ClaimHandler) GetEscrowBalance(c *fiber.Ctx) error {
	token, err := accountParam(c, "token")
	if err != nil {
		return err
	}

	balance, err := h.claimSvc.GetEscrowBalance(c.UserContext(), token)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, dto.EscrowBalanceResponse{Token: token, Balance: balance})
}

func parseListClaims(c *fiber.Ctx) (string, dto.ListClaimsQuery, error) {
	query := dto.ListClaimsQuery{Limit: shared.MaxPageSize}

	account, err := accountParam(c, "account")
	if err != nil {
		return "", query, err
	}
	if err := c.QueryParser(&query); err != nil {
		return "", query, shared.NewBadRequestError(err, "Invalid query")
	}
	return account, query, nil
}
