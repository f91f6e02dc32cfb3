package services

import (
	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
)

type AuthMiddleware struct {
	context.DefaultService

	jwtSvc          *JWTService
	contractAccount string
}

const AUTH_MIDDLEWARE_SVC = "auth"

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.contractAccount = svc.Service(ASSET_SVC).(*AssetService).ContractAccount()
	return nil
}

// RequiredAuth rejects the request before any handler runs unless it carries
// a valid bearer token for a user account. The token's account is stored in
// c.Locals(shared.Account).
func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.ErrUnauthenticated.WithData(err.Error())
		}

		account, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			log.WithError(err).Debug("Rejected bearer token")
			return shared.ErrUnauthenticated.WithData("Invalid JWT token")
		}

		if !dto.IsValidAccount(account) {
			return shared.ErrUnauthenticated.WithData("Invalid account in token")
		}

		// the custody account never acts on its own behalf
		if account == svc.contractAccount {
			log.WithField("account", account).Warn("Rejected token for custody account")
			return shared.ErrUnauthenticated.WithData("Reserved account in token")
		}

		c.Locals(shared.Account, account)
		return c.Next()
	}
}
