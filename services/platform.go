package services

import (
	"context"
	"errors"

	appContext "github.com/alphabatem/common/context"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
)

const PLATFORM_SVC = "platform_svc"

// XP awarded per event
const (
	XPMessage     = 1
	XPTipReceived = 5
	XPTipSent     = 20
)

const (
	MinTipAmount = 1
	MaxTipAmount = 1_000_000
)

// PlatformService owns the contract lifecycle and the throttled user entry
// points: message rewards, tips and direct transfers.
type PlatformService struct {
	appContext.DefaultService

	ledgerSvc   *LedgerService
	throttleSvc *ThrottleService
	assetSvc    *AssetService
	claimSvc    *ClaimService
}

func (svc PlatformService) Id() string {
	return PLATFORM_SVC
}

func (svc *PlatformService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *PlatformService) Start() error {
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	svc.throttleSvc = svc.Service(THROTTLE_SVC).(*ThrottleService)
	svc.assetSvc = svc.Service(ASSET_SVC).(*AssetService)
	svc.claimSvc = svc.Service(CLAIM_SVC).(*ClaimService)
	return nil
}

func loadAdmin(env *Env) (string, error) {
	var admin string
	found, err := env.Store().Get(model.AdminKey{}, &admin)
	if err != nil {
		return "", err
	}
	if !found {
		return "", shared.ErrNotInitialized
	}
	return admin, nil
}

// requireAdmin fails with shared.ErrNotInitialized before Init and with
// shared.ErrUnauthorized for any caller other than the stored admin.
func requireAdmin(env *Env, caller string) error {
	admin, err := loadAdmin(env)
	if err != nil {
		return err
	}
	if caller != admin {
		return shared.ErrUnauthorized
	}
	return nil
}

func (svc *PlatformService) Init(ctx context.Context, admin, name string, version uint32) error {
	if err := svc.assetSvc.RequireUserAccounts(admin); err != nil {
		return err
	}

	return svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		exists, err := env.Store().Has(model.AdminKey{})
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrAlreadyInitialized
		}

		if err := env.Store().Set(model.AdminKey{}, admin); err != nil {
			return err
		}
		metadata := model.ContractMetadata{Name: name, Version: version}
		if err := env.Store().Set(model.MetadataKey{}, metadata); err != nil {
			return err
		}
		if err := env.Store().Set(model.RateLimitConfigKey{}, model.DefaultRateLimitConfig()); err != nil {
			return err
		}
		if err := env.Store().Set(model.PlatformSettingsKey{}, model.DefaultPlatformSettings()); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"admin":   admin,
			"name":    name,
			"version": version,
		}).Info("Contract initialized")
		return env.Emit(TopicInitialized, admin, metadata)
	})
}

func (svc *PlatformService) Admin(ctx context.Context) (string, error) {
	var admin string
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		var err error
		admin, err = loadAdmin(env)
		return err
	})
	return admin, err
}

func (svc *PlatformService) Metadata(ctx context.Context) (*model.ContractMetadata, error) {
	var metadata model.ContractMetadata
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		found, err := env.Store().Get(model.MetadataKey{}, &metadata)
		if err != nil {
			return err
		}
		if !found {
			return shared.ErrNotInitialized
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &metadata, nil
}

func (svc *PlatformService) RewardMessage(ctx context.Context, account string) (*dto.XPAwardResponse, error) {
	resp := &dto.XPAwardResponse{Account: account}

	err := svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := svc.throttleSvc.CheckCanAct(env, account, model.ActionMessage); err != nil {
			return err
		}

		oldLevel, newLevel, err := svc.throttleSvc.AwardXP(env, account, XPMessage, model.ActionMessage)
		if err != nil {
			return err
		}
		resp.OldLevel, resp.NewLevel = oldLevel, newLevel

		if err := svc.throttleSvc.RecordAction(env, account, model.ActionMessage); err != nil {
			return err
		}
		return svc.fillXP(env, resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RewardTipReceived credits the tip recipient. It is admin-only and subject
// to the hourly XP ceiling but not to cooldowns or daily caps.
func (svc *PlatformService) RewardTipReceived(ctx context.Context, caller, account string) (*dto.XPAwardResponse, error) {
	resp := &dto.XPAwardResponse{Account: account}

	err := svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}

		oldLevel, newLevel, err := svc.throttleSvc.AwardXP(env, account, XPTipReceived, model.ActionTipReceived)
		if err != nil {
			return err
		}
		resp.OldLevel, resp.NewLevel = oldLevel, newLevel
		return svc.fillXP(env, resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (svc *PlatformService) fillXP(env *Env, resp *dto.XPAwardResponse) error {
	profile, err := load(env, model.ProfileKey{Account: resp.Account}, model.UserProfile{})
	if err != nil {
		return err
	}
	resp.XP = profile.XP
	return nil
}

func (svc *PlatformService) SendTip(ctx context.Context, sender, receiver, token string, amount int64) (*dto.TipResponse, error) {
	if amount < MinTipAmount || amount > MaxTipAmount {
		return nil, shared.ErrInvalidAmount
	}
	if err := svc.assetSvc.RequireUserAccounts(sender, receiver); err != nil {
		return nil, err
	}

	var fee, treasury int64

	err := svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := svc.throttleSvc.CheckCanAct(env, sender, model.ActionTip); err != nil {
			return err
		}

		settings, err := loadPlatformSettings(env)
		if err != nil {
			return err
		}
		fee = CalculateFee(amount, settings.FeeBasisPoints)

		if fee > 0 {
			if treasury, err = svc.collectFee(env, sender, token, fee); err != nil {
				return err
			}
		}

		if net := amount - fee; net > 0 {
			if err := svc.assetSvc.Transfer(env, token, sender, receiver, net); err != nil {
				return err
			}
		}

		if err := svc.throttleSvc.RecordAction(env, sender, model.ActionTip); err != nil {
			return err
		}

		// a capped sender still gets the tip through
		if _, _, err := svc.throttleSvc.AwardXP(env, sender, XPTipSent, model.ActionTip); err != nil {
			if !errors.Is(err, shared.ErrXpRateLimited) {
				return err
			}
			log.WithField("account", sender).Debug("Tip XP skipped, hourly limit reached")
		}

		return env.Emit(TopicTip, sender, map[string]interface{}{
			"sender":   sender,
			"receiver": receiver,
			"token":    token,
			"amount":   amount,
			"fee":      fee,
		})
	})
	if err != nil {
		return nil, err
	}

	if fee > 0 {
		recordTreasuryBalance(token, treasury)
	}

	return &dto.TipResponse{
		Sender:   sender,
		Receiver: receiver,
		Token:    token,
		Amount:   amount,
		Fee:      fee,
		Net:      amount - fee,
	}, nil
}

// TransferTokens moves tokens directly, or parks them in a pending claim for
// the recipient when withClaim is set. Claim-backed transfers are not
// throttled.
func (svc *PlatformService) TransferTokens(ctx context.Context, sender, recipient, token string, amount int64, withClaim bool) (*dto.TransferResponse, error) {
	if err := svc.assetSvc.RequireUserAccounts(sender, recipient); err != nil {
		return nil, err
	}

	resp := &dto.TransferResponse{
		Sender:    sender,
		Recipient: recipient,
		Token:     token,
		Amount:    amount,
	}

	if withClaim {
		id, err := svc.claimSvc.CreatePendingClaim(ctx, sender, recipient, token, amount)
		if err != nil {
			return nil, err
		}
		resp.ClaimID = &id
		return resp, nil
	}

	if amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}

	err := svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := svc.throttleSvc.CheckCanAct(env, sender, model.ActionTransfer); err != nil {
			return err
		}
		if err := svc.assetSvc.Transfer(env, token, sender, recipient, amount); err != nil {
			return err
		}
		if err := svc.throttleSvc.RecordAction(env, sender, model.ActionTransfer); err != nil {
			return err
		}
		return env.Emit(TopicTransfer, sender, map[string]interface{}{
			"sender":    sender,
			"recipient": recipient,
			"token":     token,
			"amount":    amount,
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTreasuryBalance returns the accumulated tip fees for token. Escrowed
// claim funds are not included.
func (svc *PlatformService) GetTreasuryBalance(ctx context.Context, token string) (int64, error) {
	var balance int64
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		var err error
		balance, err = load(env, model.TreasuryKey{Token: token}, int64(0))
		return err
	})
	return balance, err
}

func (svc *PlatformService) GetProfile(ctx context.Context, account string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		found, err := env.Store().Get(model.ProfileKey{Account: account}, &profile)
		if err != nil {
			return err
		}
		if !found {
			return shared.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (svc *PlatformService) GetBalance(ctx context.Context, account, token string) (int64, error) {
	return svc.assetSvc.Balance(ctx, account, token)
}
