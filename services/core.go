package services

import (
	"gorm.io/gorm"
)

// Core is the ledger service graph wired without the service container, for
// tools and tests that work against a database handle directly.
type Core struct {
	Ledger   *LedgerService
	Events   *EventService
	Assets   *AssetService
	Throttle *ThrottleService
	Claims   *ClaimService
	Platform *PlatformService
}

// NewCore migrates db and wires the ledger services on top of it. A nil clock
// uses wall time with five second ledgers.
func NewCore(db *gorm.DB, clock Clock) (*Core, error) {
	if err := migrateModels(db); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = systemClock{closeSeconds: 5}
	}

	events := &EventService{channel: defaultEventsChannel}
	ledger := &LedgerService{
		database: &SqliteService{db: db},
		eventSvc: events,
		clock:    clock,
	}
	events.ledgerSvc = ledger

	assets := &AssetService{ledgerSvc: ledger, contractAccount: defaultContractAccount}
	throttle := &ThrottleService{ledgerSvc: ledger}
	claims := &ClaimService{ledgerSvc: ledger, assetSvc: assets}
	platform := &PlatformService{
		ledgerSvc:   ledger,
		throttleSvc: throttle,
		assetSvc:    assets,
		claimSvc:    claims,
	}

	return &Core{
		Ledger:   ledger,
		Events:   events,
		Assets:   assets,
		Throttle: throttle,
		Claims:   claims,
		Platform: platform,
	}, nil
}
