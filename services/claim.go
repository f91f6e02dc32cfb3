package services

import (
	"context"
	"fmt"

	appContext "github.com/alphabatem/common/context"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
)

const CLAIM_SVC = "claim_svc"

// MaxClaimValidityWindow is one year of five second ledgers.
const MaxClaimValidityWindow = 6_307_200

// ClaimService holds transferred funds in contract custody until the
// recipient claims them, the creator cancels, or an admin returns an expired
// claim to its creator. Expiry is measured in ledgers.
type ClaimService struct {
	appContext.DefaultService

	ledgerSvc *LedgerService
	assetSvc  *AssetService
}

func (svc ClaimService) Id() string {
	return CLAIM_SVC
}

func (svc *ClaimService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ClaimService) Start() error {
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	svc.assetSvc = svc.Service(ASSET_SVC).(*AssetService)
	return nil
}

func (svc *ClaimService) SetClaimWindowConfig(ctx context.Context, caller string, cfg model.ClaimWindowConfig) error {
	if cfg.Enabled && cfg.ClaimValidityWindow == 0 {
		return shared.ErrInvalidConfig.WithData(map[string]interface{}{
			"claim_validity_window": "must be greater than 0 when enabled",
		})
	}
	if cfg.ClaimValidityWindow > MaxClaimValidityWindow {
		return shared.ErrInvalidConfig.WithData(map[string]interface{}{
			"claim_validity_window": fmt.Sprintf("must be at most %d", MaxClaimValidityWindow),
		})
	}

	return svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}
		if err := env.Store().Set(model.ClaimWindowConfigKey{}, cfg); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"enabled": cfg.Enabled,
			"window":  cfg.ClaimValidityWindow,
		}).Info("Claim window config updated")
		return env.Emit(TopicClaimWindowConfigUpdated, caller, cfg)
	})
}

// GetClaimWindowConfig returns a disabled config when none was ever set.
func (svc *ClaimService) GetClaimWindowConfig(ctx context.Context) (*model.ClaimWindowConfig, error) {
	var cfg model.ClaimWindowConfig
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		var err error
		cfg, err = load(env, model.ClaimWindowConfigKey{}, model.ClaimWindowConfig{})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreatePendingClaim moves amount from creator into custody and returns the
// new claim id.
func (svc *ClaimService) CreatePendingClaim(ctx context.Context, creator, recipient, token string, amount int64) (uint64, error) {
	if err := svc.assetSvc.RequireUserAccounts(creator, recipient); err != nil {
		return 0, err
	}

	var (
		id     uint64
		escrow int64
	)

	err := svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		cfg, err := load(env, model.ClaimWindowConfigKey{}, model.ClaimWindowConfig{})
		if err != nil {
			return err
		}
		if !cfg.Enabled {
			return shared.ErrClaimWindowDisabled
		}
		if amount <= 0 {
			return shared.ErrInvalidAmount
		}

		if err := svc.assetSvc.Transfer(env, token, creator, svc.assetSvc.ContractAccount(), amount); err != nil {
			return err
		}

		id, err = load(env, model.NextClaimIDKey{}, uint64(1))
		if err != nil {
			return err
		}
		if err := env.Store().Set(model.NextClaimIDKey{}, id+1); err != nil {
			return err
		}

		claim := model.Claim{
			ID:              id,
			Creator:         creator,
			Recipient:       recipient,
			Token:           token,
			Amount:          amount,
			Status:          model.ClaimPending,
			CreatedAt:       env.Timestamp(),
			CreatedAtLedger: env.Sequence(),
			ExpiresAtLedger: env.Sequence() + cfg.ClaimValidityWindow,
		}
		if err := env.Store().Set(model.ClaimKey{ID: id}, claim); err != nil {
			return err
		}

		if err := appendClaimIndex(env, model.ClaimsByCreatorKey{Account: creator}, id); err != nil {
			return err
		}
		if err := appendClaimIndex(env, model.ClaimsByRecipientKey{Account: recipient}, id); err != nil {
			return err
		}

		if escrow, err = adjustEscrow(env, token, amount); err != nil {
			return err
		}

		return env.Emit(TopicClaimCreated, creator, claim)
	})
	if err != nil {
		return 0, err
	}

	recordClaimEvent("created")
	recordEscrowBalance(token, escrow)
	return id, nil
}

// TransferWithClaim is CreatePendingClaim under its transfer-facing name.
func (svc *ClaimService) TransferWithClaim(ctx context.Context, creator, recipient, token string, amount int64) (uint64, error) {
	return svc.CreatePendingClaim(ctx, creator, recipient, token, amount)
}

// Claim releases a pending claim's funds to its recipient.
func (svc *ClaimService) Claim(ctx context.Context, id uint64, caller string) (*dto.ClaimResponse, error) {
	var (
		claim  model.Claim
		escrow int64
	)

	err := svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		var err error
		claim, err = loadClaim(env, id)
		if err != nil {
			return err
		}
		if caller != claim.Recipient {
			return shared.ErrUnauthorized
		}
		if err := requirePending(claim); err != nil {
			return err
		}
		if claim.IsExpiredAt(env.Sequence()) {
			return shared.ErrClaimExpired.WithData(map[string]interface{}{
				"expires_at_ledger": claim.ExpiresAtLedger,
			})
		}

		if err := svc.assetSvc.Transfer(env, claim.Token, svc.assetSvc.ContractAccount(), caller, claim.Amount); err != nil {
			return err
		}

		claimedAt := env.Timestamp()
		claim.Status = model.ClaimClaimed
		claim.ClaimedBy = &caller
		claim.ClaimedAt = &claimedAt
		if err := env.Store().Set(model.ClaimKey{ID: id}, claim); err != nil {
			return err
		}

		if escrow, err = adjustEscrow(env, claim.Token, -claim.Amount); err != nil {
			return err
		}

		return env.Emit(TopicClaimProcessed, caller, claim)
	})
	if err != nil {
		return nil, err
	}

	recordClaimEvent("claimed")
	recordEscrowBalance(claim.Token, escrow)
	return &dto.ClaimResponse{Claim: claim}, nil
}

// CancelPendingClaim refunds a pending claim to its creator. Expired claims
// may still be cancelled by their creator.
func (svc *ClaimService) CancelPendingClaim(ctx context.Context, id uint64, caller string) (*dto.ClaimResponse, error) {
	var (
		claim  model.Claim
		escrow int64
	)

	err := svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		var err error
		claim, err = loadClaim(env, id)
		if err != nil {
			return err
		}
		if caller != claim.Creator {
			return shared.ErrUnauthorizedNotCreator
		}
		if err := requirePending(claim); err != nil {
			return err
		}

		if escrow, err = svc.refund(env, &claim); err != nil {
			return err
		}
		return env.Emit(TopicClaimCancelled, caller, claim)
	})
	if err != nil {
		return nil, err
	}

	recordClaimEvent("cancelled")
	recordEscrowBalance(claim.Token, escrow)
	return &dto.ClaimResponse{Claim: claim}, nil
}

// AdminCancelExpiredClaim returns an uncollected, expired claim to its
// creator. The admin never receives the funds.
func (svc *ClaimService) AdminCancelExpiredClaim(ctx context.Context, caller string, id uint64) (*dto.ClaimResponse, error) {
	var (
		claim  model.Claim
		escrow int64
	)

	err := svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}

		var err error
		claim, err = loadClaim(env, id)
		if err != nil {
			return err
		}
		if err := requirePending(claim); err != nil {
			return err
		}
		if !claim.IsExpiredAt(env.Sequence()) {
			return shared.ErrClaimNotExpired.WithData(map[string]interface{}{
				"expires_at_ledger": claim.ExpiresAtLedger,
			})
		}

		if escrow, err = svc.refund(env, &claim); err != nil {
			return err
		}
		return env.Emit(TopicClaimAdminCancelled, claim.Creator, claim)
	})
	if err != nil {
		return nil, err
	}

	recordClaimEvent("admin_cancelled")
	recordEscrowBalance(claim.Token, escrow)
	return &dto.ClaimResponse{Claim: claim}, nil
}

// refund moves the claim amount back to its creator and marks it cancelled.
func (svc *ClaimService) refund(env *Env, claim *model.Claim) (int64, error) {
	if err := svc.assetSvc.Transfer(env, claim.Token, svc.assetSvc.ContractAccount(), claim.Creator, claim.Amount); err != nil {
		return 0, err
	}

	cancelledAt := env.Timestamp()
	claim.Status = model.ClaimCancelled
	claim.CancelledAt = &cancelledAt
	if err := env.Store().Set(model.ClaimKey{ID: claim.ID}, *claim); err != nil {
		return 0, err
	}

	return adjustEscrow(env, claim.Token, -claim.Amount)
}

func (svc *ClaimService) GetPendingClaim(ctx context.Context, id uint64) (*dto.ClaimResponse, error) {
	var resp *dto.ClaimResponse
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		claim, err := loadClaim(env, id)
		if err != nil {
			return err
		}
		resp = claimResponse(claim, env.Sequence())
		return nil
	})
	return resp, err
}

func (svc *ClaimService) GetClaimsByRecipient(ctx context.Context, account string, limit uint32, pendingOnly bool) ([]dto.ClaimResponse, error) {
	return svc.listClaims(ctx, model.ClaimsByRecipientKey{Account: account}, limit, pendingOnly)
}

func (svc *ClaimService) GetClaimsByCreator(ctx context.Context, account string, limit uint32, pendingOnly bool) ([]dto.ClaimResponse, error) {
	return svc.listClaims(ctx, model.ClaimsByCreatorKey{Account: account}, limit, pendingOnly)
}

// listClaims walks an index in creation order and returns at most
// min(limit, shared.MaxPageSize) claims.
func (svc *ClaimService) listClaims(ctx context.Context, index model.DataKey, limit uint32, pendingOnly bool) ([]dto.ClaimResponse, error) {
	pageSize := int(limit)
	if pageSize > shared.MaxPageSize {
		pageSize = shared.MaxPageSize
	}

	claims := make([]dto.ClaimResponse, 0, pageSize)
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		ids, err := load(env, index, []uint64{})
		if err != nil {
			return err
		}

		for _, id := range ids {
			if len(claims) >= pageSize {
				break
			}

			claim, err := loadClaim(env, id)
			if err != nil {
				return err
			}
			if pendingOnly && claim.Status != model.ClaimPending {
				continue
			}
			claims = append(claims, *claimResponse(claim, env.Sequence()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (svc *ClaimService) GetEscrowBalance(ctx context.Context, token string) (int64, error) {
	var balance int64
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		var err error
		balance, err = load(env, model.EscrowBalanceKey{Token: token}, int64(0))
		return err
	})
	return balance, err
}

func loadClaim(env *Env, id uint64) (model.Claim, error) {
	var claim model.Claim
	found, err := env.Store().Get(model.ClaimKey{ID: id}, &claim)
	if err != nil {
		return claim, err
	}
	if !found {
		return claim, shared.ErrClaimNotFound
	}
	return claim, nil
}

func requirePending(claim model.Claim) error {
	switch claim.Status {
	case model.ClaimClaimed:
		return shared.ErrClaimAlreadyClaimed
	case model.ClaimCancelled:
		return shared.ErrClaimAlreadyCancelled
	}
	return nil
}

func claimResponse(claim model.Claim, sequence uint64) *dto.ClaimResponse {
	return &dto.ClaimResponse{
		Claim:   claim,
		Expired: claim.Status == model.ClaimPending && claim.IsExpiredAt(sequence),
	}
}

func appendClaimIndex(env *Env, index model.DataKey, id uint64) error {
	ids, err := load(env, index, []uint64{})
	if err != nil {
		return err
	}
	return env.Store().Set(index, append(ids, id))
}

func adjustEscrow(env *Env, token string, delta int64) (int64, error) {
	key := model.EscrowBalanceKey{Token: token}
	balance, err := load(env, key, int64(0))
	if err != nil {
		return 0, err
	}
	balance += delta
	return balance, env.Store().Set(key, balance)
}
