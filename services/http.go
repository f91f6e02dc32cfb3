package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	docs "github.com/whsper-labs/whsper_api/docs"
	"github.com/whsper-labs/whsper_api/services/handlers"
	"github.com/whsper-labs/whsper_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc      *AuthMiddleware
	rateLimitSvc *RateLimitService

	platformHandler *handlers.PlatformHandler
	throttleHandler *handlers.ThrottleHandler
	claimHandler    *handlers.ClaimHandler
	adminHandler    *handlers.AdminHandler

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_MIDDLEWARE_SVC).(*AuthMiddleware)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	platformSvc := svc.Service(PLATFORM_SVC).(*PlatformService)
	throttleSvc := svc.Service(THROTTLE_SVC).(*ThrottleService)
	claimSvc := svc.Service(CLAIM_SVC).(*ClaimService)
	eventSvc := svc.Service(EVENT_SVC).(*EventService)
	archiveSvc := svc.Service(ARCHIVE_SVC).(*ArchiveService)

	svc.platformHandler = handlers.NewPlatformHandler(platformSvc)
	svc.throttleHandler = handlers.NewThrottleHandler(throttleSvc)
	svc.claimHandler = handlers.NewClaimHandler(claimSvc)
	svc.adminHandler = handlers.NewAdminHandler(throttleSvc, claimSvc, platformSvc, eventSvc, archiveSvc)

	svc.app = svc.newApp()

	log.Printf("HTTP server listening on :%d", svc.port)
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

func (svc *HttpService) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          shared.ErrorHandler,
		JSONEncoder:           shared.JSON().Marshal,
		JSONDecoder:           shared.JSON().Unmarshal,
	})

	docs.SwaggerInfo.BasePath = "/"
	app.Use(recover.New())

	if os.Getenv("LOG_LEVEL") == "TRACE" {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware())

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	if svc.rateLimitSvc != nil {
		v1.Use(svc.rateLimitSvc.IPRateLimit())
	}
	auth := svc.authSvc.RequiredAuth()

	v1.Get("/ping", svc.ping)
	v1.Get("/metadata", svc.platformHandler.GetMetadata)

	admin := v1.Group("/admin", auth)
	admin.Post("/init", svc.platformHandler.Init)
	admin.Put("/rate-limit/config", svc.adminHandler.SetRateLimitConfig)
	admin.Put("/reputation/:account", svc.adminHandler.SetReputation)
	admin.Put("/override/:account", svc.adminHandler.SetOverride)
	admin.Put("/claims/config", svc.adminHandler.SetClaimWindowConfig)
	admin.Post("/claims/:id/cancel-expired", svc.adminHandler.CancelExpiredClaim)
	admin.Post("/rewards/tip-received/:account", svc.adminHandler.RewardTipReceived)
	admin.Get("/events", svc.adminHandler.ListEvents)
	admin.Post("/events/archive", svc.adminHandler.ArchiveEvents)
	admin.Put("/settings/fee", svc.adminHandler.UpdateFee)
	admin.Put("/settings/admin", svc.adminHandler.UpdateAdmin)
	admin.Post("/treasury/withdraw", svc.adminHandler.WithdrawFees)

	v1.Get("/rate-limit/config", svc.throttleHandler.GetRateLimitConfig)
	v1.Get("/rate-limit/status/:account/:action", svc.throttleHandler.GetThrottleStatus)

	v1.Post("/rewards/message", auth, svc.platformHandler.RewardMessage)
	v1.Post("/tips", auth, svc.platformHandler.SendTip)
	v1.Post("/transfers", auth, svc.platformHandler.Transfer)

	claims := v1.Group("/claims")
	claims.Get("/config", svc.claimHandler.GetClaimWindowConfig)
	claims.Get("/recipient/:account", svc.claimHandler.GetClaimsByRecipient)
	claims.Get("/creator/:account", svc.claimHandler.GetClaimsByCreator)
	claims.Get("/:id", svc.claimHandler.GetClaim)
	claims.Post("/", auth, svc.claimHandler.CreateClaim)
	claims.Post("/:id/claim", auth, svc.claimHandler.Claim)
	claims.Post("/:id/cancel", auth, svc.claimHandler.CancelClaim)

	v1.Get("/escrow/:token", svc.claimHandler.GetEscrowBalance)
	v1.Get("/settings", svc.platformHandler.GetPlatformSettings)
	v1.Get("/treasury", svc.platformHandler.GetTreasury)
	v1.Get("/treasury/analytics", svc.platformHandler.GetTreasuryAnalytics)
	v1.Get("/profile/:account", svc.platformHandler.GetProfile)
	v1.Get("/balances/:account/:token", svc.platformHandler.GetBalance)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseJSON(c, fiber.StatusNotFound, "Not Found", nil)
	})

	return app
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}
