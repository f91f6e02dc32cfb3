// seed/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/services"
	"github.com/whsper-labs/whsper_api/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mintGrant struct {
	account string
	token   string
	amount  int64
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		dbPath   = flag.String("db", "", "Database path (overrides DB_DATABASE env var)")
		admin    = flag.String("admin", "admin", "Admin account")
		name     = flag.String("name", "whsper", "Contract name")
		version  = flag.Uint("version", 1, "Contract version")
		window   = flag.Uint64("claim-window", 0, "Claim validity window in ledgers; 0 disables claims")
		mints    = flag.String("mint", "", "Comma separated account:token:amount grants")
		tokenFor = flag.String("token-for", "", "Print a development JWT for this account")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	grants, err := parseGrants(*mints)
	if err != nil {
		log.Fatalf("Invalid -mint: %v", err)
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_DATABASE")
		if databasePath == "" {
			databasePath = "whsper.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Connected to database: %s", databasePath)

	core, err := services.NewCore(db, nil)
	if err != nil {
		log.Fatalf("Failed to prepare ledger: %v", err)
	}

	ctx := context.Background()

	err = core.Platform.Init(ctx, *admin, *name, uint32(*version))
	switch {
	case errors.Is(err, shared.ErrAlreadyInitialized):
		log.Println("Contract already initialized, skipping")
	case err != nil:
		log.Fatalf("Failed to initialize contract: %v", err)
	}

	if *window > 0 {
		cfg := model.ClaimWindowConfig{Enabled: true, ClaimValidityWindow: *window}
		if err := core.Claims.SetClaimWindowConfig(ctx, *admin, cfg); err != nil {
			log.Fatalf("Failed to set claim window: %v", err)
		}
	}

	if len(grants) > 0 {
		err = core.Ledger.Invoke(ctx, func(env *services.Env) error {
			for _, g := range grants {
				if err := core.Assets.Mint(env, g.account, g.token, g.amount); err != nil {
					return fmt.Errorf("mint %s to %s: %w", g.token, g.account, err)
				}
			}
			return nil
		})
		if err != nil {
			log.Fatalf("Failed to mint balances: %v", err)
		}
		log.Printf("Minted %d balances", len(grants))
	}

	if *tokenFor != "" {
		if err := core.Assets.RequireUserAccounts(*tokenFor); err != nil {
			log.Fatalf("Refusing to sign a token for %s: %v", *tokenFor, err)
		}
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			log.Fatal("JWT_SECRET is required for -token-for")
		}
		token, err := services.NewJWTService(secret, 24*time.Hour).ToJWT(*tokenFor)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(token)
	}

	log.Println("Seeding operation completed successfully!")
}

func parseGrants(raw string) ([]mintGrant, error) {
	if raw == "" {
		return nil, nil
	}

	var grants []mintGrant
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("expected account:token:amount, got %q", part)
		}
		amount, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("amount in %q: %w", part, err)
		}
		grants = append(grants, mintGrant{account: fields[0], token: fields[1], amount: amount})
	}
	return grants, nil
}

func showHelp() {
	fmt.Print(`
Ledger seeding tool

Usage: go run ./seed [flags]

Flags:
  -db string            Database path (overrides DB_DATABASE)
  -admin string         Admin account (default "admin")
  -name string          Contract name (default "whsper")
  -version uint         Contract version (default 1)
  -claim-window uint    Claim validity window in ledgers, 0 leaves claims disabled
  -mint string          Comma separated account:token:amount grants
  -token-for string     Print a development JWT for the account (needs JWT_SECRET)
  -help                 Show this help message

Examples:
  go run ./seed -admin=alice -claim-window=17280
  go run ./seed -mint=alice:XLM:1000,bob:XLM:500 -token-for=alice
`)
}
