package services

import (
	"context"

	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
)

const MaxFeeBasisPoints = 10_000

// CalculateFee returns the share of amount taken at feeBasisPoints, rounded
// down.
func CalculateFee(amount int64, feeBasisPoints uint32) int64 {
	return amount * int64(feeBasisPoints) / MaxFeeBasisPoints
}

// loadPlatformSettings falls back to the defaults for ledgers initialized
// before settings were stored.
func loadPlatformSettings(env *Env) (model.PlatformSettings, error) {
	return load(env, model.PlatformSettingsKey{}, model.DefaultPlatformSettings())
}

// collectFee moves fee from payer into custody and books it to the token's
// treasury. It returns the new treasury balance.
func (svc *PlatformService) collectFee(env *Env, payer, token string, fee int64) (int64, error) {
	if err := svc.assetSvc.Transfer(env, token, payer, svc.assetSvc.ContractAccount(), fee); err != nil {
		return 0, err
	}

	treasury, err := load(env, model.TreasuryKey{Token: token}, int64(0))
	if err != nil {
		return 0, err
	}
	treasury += fee
	if err := env.Store().Set(model.TreasuryKey{Token: token}, treasury); err != nil {
		return 0, err
	}

	collected, err := load(env, model.FeesCollectedKey{Token: token}, int64(0))
	if err != nil {
		return 0, err
	}
	if err := env.Store().Set(model.FeesCollectedKey{Token: token}, collected+fee); err != nil {
		return 0, err
	}

	return treasury, env.Emit(TopicFeeCollected, payer, map[string]interface{}{
		"token":    token,
		"fee":      fee,
		"treasury": treasury,
	})
}

func (svc *PlatformService) GetPlatformSettings(ctx context.Context) (*model.PlatformSettings, error) {
	var settings model.PlatformSettings
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		if _, err := loadAdmin(env); err != nil {
			return err
		}
		var err error
		settings, err = loadPlatformSettings(env)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (svc *PlatformService) UpdateFeePercentage(ctx context.Context, caller string, feeBasisPoints uint32) error {
	if feeBasisPoints > MaxFeeBasisPoints {
		return shared.ErrInvalidConfig.WithData(map[string]interface{}{
			"fee_basis_points": "must be at most 10000",
		})
	}

	return svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}

		settings, err := loadPlatformSettings(env)
		if err != nil {
			return err
		}
		old := settings.FeeBasisPoints
		settings.FeeBasisPoints = feeBasisPoints
		if err := env.Store().Set(model.PlatformSettingsKey{}, settings); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"admin": caller,
			"old":   old,
			"new":   feeBasisPoints,
		}).Info("Platform fee updated")
		return env.Emit(TopicFeePercentageUpdated, caller, map[string]interface{}{
			"old_fee_basis_points": old,
			"new_fee_basis_points": feeBasisPoints,
		})
	})
}

// WithdrawFees pays amount of token out of the treasury to recipient. Only
// collected fees can be withdrawn; escrowed claim funds are never touched.
func (svc *PlatformService) WithdrawFees(ctx context.Context, caller, token, recipient string, amount int64) (*dto.WithdrawFeesResponse, error) {
	if amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}
	if err := svc.assetSvc.RequireUserAccounts(recipient); err != nil {
		return nil, err
	}

	resp := &dto.WithdrawFeesResponse{
		Token:     token,
		Recipient: recipient,
		Amount:    amount,
	}

	err := svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}

		treasury, err := load(env, model.TreasuryKey{Token: token}, int64(0))
		if err != nil {
			return err
		}
		if amount > treasury {
			return shared.ErrInsufficientTreasury.WithData(map[string]interface{}{
				"treasury": treasury,
			})
		}

		if err := svc.assetSvc.Transfer(env, token, svc.assetSvc.ContractAccount(), recipient, amount); err != nil {
			return err
		}

		treasury -= amount
		if err := env.Store().Set(model.TreasuryKey{Token: token}, treasury); err != nil {
			return err
		}

		withdrawn, err := load(env, model.FeesWithdrawnKey{Token: token}, int64(0))
		if err != nil {
			return err
		}
		if err := env.Store().Set(model.FeesWithdrawnKey{Token: token}, withdrawn+amount); err != nil {
			return err
		}
		resp.TreasuryBalance = treasury

		return env.Emit(TopicTreasuryWithdrawal, caller, map[string]interface{}{
			"token":     token,
			"recipient": recipient,
			"amount":    amount,
			"treasury":  treasury,
		})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"token":     token,
		"recipient": recipient,
		"amount":    amount,
	}).Info("Treasury withdrawal")
	recordTreasuryBalance(token, resp.TreasuryBalance)
	return resp, nil
}

func (svc *PlatformService) GetTreasuryAnalytics(ctx context.Context, token string) (*dto.TreasuryAnalyticsResponse, error) {
	resp := &dto.TreasuryAnalyticsResponse{Token: token}

	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		settings, err := loadPlatformSettings(env)
		if err != nil {
			return err
		}
		resp.FeeBasisPoints = settings.FeeBasisPoints

		if resp.CurrentBalance, err = load(env, model.TreasuryKey{Token: token}, int64(0)); err != nil {
			return err
		}
		if resp.TotalCollected, err = load(env, model.FeesCollectedKey{Token: token}, int64(0)); err != nil {
			return err
		}
		resp.TotalWithdrawn, err = load(env, model.FeesWithdrawnKey{Token: token}, int64(0))
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateAdmin hands the admin role to newAdmin.
func (svc *PlatformService) UpdateAdmin(ctx context.Context, caller, newAdmin string) error {
	if err := svc.assetSvc.RequireUserAccounts(newAdmin); err != nil {
		return err
	}

	return svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}
		if err := env.Store().Set(model.AdminKey{}, newAdmin); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"old_admin": caller,
			"new_admin": newAdmin,
		}).Info("Admin changed")
		return env.Emit(TopicAdminChanged, caller, map[string]interface{}{
			"old_admin": caller,
			"new_admin": newAdmin,
		})
	})
}
