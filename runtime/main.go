package main

import (
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
	"github.com/whsper-labs/whsper_api/services"
)

// @title Whsper API
// @version 1.0
// @description Reputation-scaled throttling, XP rewards and claim escrow.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file found, using system environment variables")
	}

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	ctx, err := context.NewCtx(
		database(),
		&services.RedisService{},
		&services.MonitoringService{},

		&services.LedgerService{},
		&services.EventService{},
		&services.AssetService{},
		&services.ThrottleService{},
		&services.ClaimService{},
		&services.PlatformService{},

		&services.MinIOService{},
		&services.ArchiveService{},

		&services.JWTService{},
		&services.AuthMiddleware{},
		&services.RateLimitService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service stopped")
		return
	}
}

func database() context.Service {
	switch strings.ToLower(os.Getenv("DB_DRIVER")) {
	case "postgres", "postgresql":
		return &services.PostgresService{}
	default:
		return &services.SqliteService{}
	}
}
