package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
)

type ThrottleHandler struct {
	throttleSvc ThrottleServiceInterface
}

func NewThrottleHandler(throttleSvc ThrottleServiceInterface) *ThrottleHandler {
	return &ThrottleHandler{
		throttleSvc: throttleSvc,
	}
}

// @Summary Rate limit config
// @Description Base cooldowns (seconds) and daily caps per action
// @Tags rate-limit
// @Produce json
// @Success 200 {object} shared.Response{data=model.RateLimitConfig}
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/rate-limit/config [get]
func (h *ThrottleHandler) GetRateLimitConfig(c *fiber.Ctx) error {
	cfg, err := h.throttleSvc.GetRateLimitConfig(c.UserContext())
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, cfg)
}

// @Summary Throttle status
// @Description Reputation-scaled limits for an account and whether it may act now
// @Tags rate-limit
// @Produce json
// @Param account path string true "Account"
// @Param action path string true "Action" Enums(message, tip, transfer, tip_received)
// @Success 200 {object} shared.Response{data=dto.ThrottleStatusResponse}
// @Router /api/v1/rate-limit/status/{account}/{action} [get]
func (h *ThrottleHandler) GetThrottleStatus(c *fiber.Ctx) error {
	var params dto.ThrottleStatusParams
	if err := parseParams(c, &params); err != nil {
		return err
	}

	status, err := h.throttleSvc.GetThrottleStatus(c.UserContext(), params.Account, model.ActionType(params.Action))
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, status)
}
