package services

import (
	"context"
	"os"

	appContext "github.com/alphabatem/common/context"
	"github.com/whsper-labs/whsper_api/shared"
)

const ASSET_SVC = "asset_svc"

const defaultContractAccount = "contract"

// AssetService moves fungible token balances between accounts. The contract
// holds fees and escrowed claim funds in its own custody account.
type AssetService struct {
	appContext.DefaultService

	ledgerSvc       *LedgerService
	contractAccount string
}

func (svc AssetService) Id() string {
	return ASSET_SVC
}

func (svc *AssetService) Configure(ctx *appContext.Context) error {
	svc.contractAccount = os.Getenv("CONTRACT_ACCOUNT")
	if svc.contractAccount == "" {
		svc.contractAccount = defaultContractAccount
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *AssetService) Start() error {
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	return nil
}

func (svc *AssetService) ContractAccount() string {
	return svc.contractAccount
}

// RequireUserAccounts fails with shared.ErrReservedAccount when any of
// accounts is the custody account. Funds leave custody only through claim
// settlement and treasury withdrawals.
func (svc *AssetService) RequireUserAccounts(accounts ...string) error {
	for _, account := range accounts {
		if account == svc.contractAccount {
			return shared.ErrReservedAccount.WithData(map[string]interface{}{
				"account": account,
			})
		}
	}
	return nil
}

// Transfer moves amount of token from one account to another inside the
// invocation. The whole invocation fails if the source cannot cover it.
func (svc *AssetService) Transfer(env *Env, token, from, to string, amount int64) error {
	if amount <= 0 {
		return shared.ErrInvalidAmount
	}
	if err := env.Balances().Debit(from, token, amount); err != nil {
		return err
	}
	return env.Balances().Credit(to, token, amount)
}

func (svc *AssetService) Mint(env *Env, account, token string, amount int64) error {
	if amount <= 0 {
		return shared.ErrInvalidAmount
	}
	if err := svc.RequireUserAccounts(account); err != nil {
		return err
	}
	return env.Balances().Credit(account, token, amount)
}

func (svc *AssetService) Balance(ctx context.Context, account, token string) (int64, error) {
	var balance int64
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		var err error
		balance, err = env.Balances().GetBalance(account, token)
		return err
	})
	return balance, err
}
