package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/shared"
)

// currentAccount returns the account set by the auth middleware.
func currentAccount(c *fiber.Ctx) string {
	account, _ := c.Locals(shared.Account).(string)
	return account
}

func parseBody(c *fiber.Ctx, req dto.Validator) error {
	if err := c.BodyParser(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}
	return nil
}

func parseParams(c *fiber.Ctx, req dto.Validator) error {
	if err := c.ParamsParser(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid path parameters")
	}
	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Validation failed").WithData(dto.FormatValidationErrors(err))
	}
	return nil
}

func accountParam(c *fiber.Ctx, name string) (string, error) {
	account := c.Params(name)
	if !dto.IsValidAccount(account) {
		return "", shared.NewBadRequestError(nil, "Invalid "+name)
	}
	return account, nil
}

func claimIDParam(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, shared.NewBadRequestError(err, "Invalid claim id")
	}
	return id, nil
}

func tokenQuery(c *fiber.Ctx) (string, error) {
	token := c.Query("token")
	if !dto.IsValidAccount(token) {
		return "", shared.NewBadRequestError(nil, "token query parameter is required")
	}
	return token, nil
}
