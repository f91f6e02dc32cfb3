package services

import (
	"context"
	"fmt"
	"math"

	appContext "github.com/alphabatem/common/context"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
)

const THROTTLE_SVC = "throttle_svc"

const (
	MaxReputation = 100
	MaxXPPerHour  = 60
	XPPerLevel    = 100

	// MaxCooldown bounds every configured cooldown to 30 days.
	MaxCooldown = 30 * secondsPerDay
)

// ThrottleService decides whether an account may perform a throttled action
// and keeps the per-account counters that decision is based on. Reputation
// shortens cooldowns and raises daily caps.
type ThrottleService struct {
	appContext.DefaultService

	ledgerSvc *LedgerService
}

func (svc ThrottleService) Id() string {
	return THROTTLE_SVC
}

func (svc *ThrottleService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ThrottleService) Start() error {
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	return nil
}

func ClampReputation(rep uint32) uint64 {
	if rep > MaxReputation {
		return MaxReputation
	}
	return uint64(rep)
}

// ScaleCooldown shortens base by up to half at full reputation.
func ScaleCooldown(base, rep uint64) uint64 {
	return base * (200 - rep) / 200
}

// ScaleDailyCap raises base by up to double at full reputation.
func ScaleDailyCap(base uint32, rep uint64) uint64 {
	return uint64(base) * (100 + rep) / 100
}

func CalculateLevel(xp uint64) uint32 {
	return uint32(xp/XPPerLevel + 1)
}

func baseLimits(cfg model.RateLimitConfig, action model.ActionType) (uint64, uint32) {
	switch action {
	case model.ActionMessage:
		return cfg.MessageCooldown, cfg.DailyMessageLimit
	case model.ActionTip:
		return cfg.TipCooldown, cfg.DailyTipLimit
	case model.ActionTransfer:
		return cfg.TransferCooldown, cfg.DailyTransferLimit
	}
	return 0, math.MaxUint32
}

// statsForDay returns the counters as they stand on day. Counters recorded on
// an earlier day read as zero.
func statsForDay(stats model.DailyStats, day uint64) model.DailyStats {
	if stats.LastDay != day {
		return model.DailyStats{LastDay: day}
	}
	return stats
}

func loadRateLimitConfig(env *Env) (model.RateLimitConfig, error) {
	var cfg model.RateLimitConfig
	found, err := env.Store().Get(model.RateLimitConfigKey{}, &cfg)
	if err != nil {
		return cfg, err
	}
	if !found {
		return cfg, shared.ErrNotInitialized
	}
	return cfg, nil
}

// throttleLimits resolves the reputation-scaled cooldown and daily cap.
func throttleLimits(env *Env, account string, action model.ActionType) (rep uint32, cooldown uint64, dailyCap uint64, err error) {
	cfg, err := loadRateLimitConfig(env)
	if err != nil {
		return 0, 0, 0, err
	}

	rep, err = load(env, model.ReputationKey{Account: account}, uint32(0))
	if err != nil {
		return 0, 0, 0, err
	}

	r := ClampReputation(rep)
	baseCooldown, baseCap := baseLimits(cfg, action)
	return rep, ScaleCooldown(baseCooldown, r), ScaleDailyCap(baseCap, r), nil
}

// CheckCanAct fails with shared.ErrCooldownActive or
// shared.ErrDailyLimitReached when account may not perform action now. It
// never writes.
func (svc *ThrottleService) CheckCanAct(env *Env, account string, action model.ActionType) error {
	exempt, err := load(env, model.OverrideKey{Account: account}, false)
	if err != nil {
		return err
	}
	if exempt {
		recordThrottleDecision(string(action), "exempt")
		return nil
	}

	_, cooldown, dailyCap, err := throttleLimits(env, account, action)
	if err != nil {
		return err
	}

	now := env.Timestamp()

	var last uint64
	found, err := env.Store().Get(model.LastActionKey{Account: account, Action: action}, &last)
	if err != nil {
		return err
	}
	if found && now < last+cooldown {
		recordThrottleDecision(string(action), "cooldown")
		return shared.ErrCooldownActive.WithData(map[string]interface{}{
			"retry_at": last + cooldown,
		})
	}

	stats, err := load(env, model.DailyStatsKey{Account: account}, model.DailyStats{})
	if err != nil {
		return err
	}
	stats = statsForDay(stats, now/secondsPerDay)

	if uint64(stats.Count(action)) >= dailyCap {
		recordThrottleDecision(string(action), "daily_limit")
		return shared.ErrDailyLimitReached.WithData(map[string]interface{}{
			"daily_cap": dailyCap,
		})
	}

	recordThrottleDecision(string(action), "allowed")
	return nil
}

// RecordAction stamps the action time and counts it against today's cap.
func (svc *ThrottleService) RecordAction(env *Env, account string, action model.ActionType) error {
	now := env.Timestamp()

	if err := env.Store().Set(model.LastActionKey{Account: account, Action: action}, now); err != nil {
		return err
	}

	stats, err := load(env, model.DailyStatsKey{Account: account}, model.DailyStats{})
	if err != nil {
		return err
	}
	stats = statsForDay(stats, now/secondsPerDay)

	switch action {
	case model.ActionMessage:
		stats.MessageCount++
	case model.ActionTip:
		stats.TipCount++
	case model.ActionTransfer:
		stats.TransferCount++
	}

	return env.Store().Set(model.DailyStatsKey{Account: account}, stats)
}

// AwardXP adds amount to the account's lifetime XP within the hourly ceiling
// and returns the level before and after. Exempt accounts are capped too.
func (svc *ThrottleService) AwardXP(env *Env, account string, amount uint64, action model.ActionType) (uint32, uint32, error) {
	now := env.Timestamp()
	hourKey := model.HourlyXpKey{Account: account, Hour: now / secondsPerHour}

	current, err := load(env, hourKey, uint64(0))
	if err != nil {
		return 0, 0, err
	}
	if current+amount > MaxXPPerHour {
		return 0, 0, shared.ErrXpRateLimited.WithData(map[string]interface{}{
			"hourly_xp": current,
			"limit":     MaxXPPerHour,
		})
	}
	if err := env.Store().Set(hourKey, current+amount); err != nil {
		return 0, 0, err
	}

	profile, err := load(env, model.ProfileKey{Account: account}, model.UserProfile{
		Account:  account,
		Level:    1,
		JoinDate: now,
	})
	if err != nil {
		return 0, 0, err
	}

	oldLevel := profile.Level
	profile.XP += amount
	profile.Level = CalculateLevel(profile.XP)

	if err := env.Store().Set(model.ProfileKey{Account: account}, profile); err != nil {
		return 0, 0, err
	}

	if err := env.Emit(TopicXPChanged, account, map[string]interface{}{
		"amount": amount,
		"xp":     profile.XP,
		"action": action,
	}); err != nil {
		return 0, 0, err
	}

	if profile.Level > oldLevel {
		if err := env.Emit(TopicLevelUp, account, map[string]interface{}{
			"old_level": oldLevel,
			"new_level": profile.Level,
		}); err != nil {
			return 0, 0, err
		}
	}

	recordXPAwarded(string(action), amount)
	return oldLevel, profile.Level, nil
}

// validateRateLimitConfig rejects cooldowns above MaxCooldown.
func validateRateLimitConfig(cfg model.RateLimitConfig) error {
	cooldowns := map[string]uint64{
		"message_cooldown":  cfg.MessageCooldown,
		"tip_cooldown":      cfg.TipCooldown,
		"transfer_cooldown": cfg.TransferCooldown,
	}
	for field, cooldown := range cooldowns {
		if cooldown > MaxCooldown {
			return shared.ErrInvalidConfig.WithData(map[string]interface{}{
				field: fmt.Sprintf("must be at most %d seconds", MaxCooldown),
			})
		}
	}
	return nil
}

func (svc *ThrottleService) SetRateLimitConfig(ctx context.Context, caller string, cfg model.RateLimitConfig) error {
	if err := validateRateLimitConfig(cfg); err != nil {
		return err
	}

	return svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}
		if err := env.Store().Set(model.RateLimitConfigKey{}, cfg); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"admin":  caller,
			"config": cfg,
		}).Info("Rate limit config updated")
		return env.Emit(TopicRateLimitConfigUpdated, caller, cfg)
	})
}

func (svc *ThrottleService) GetRateLimitConfig(ctx context.Context) (*model.RateLimitConfig, error) {
	var cfg model.RateLimitConfig
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		var err error
		cfg, err = loadRateLimitConfig(env)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetReputation stores score as given; values above MaxReputation are
// clamped when used.
func (svc *ThrottleService) SetReputation(ctx context.Context, caller, account string, score uint32) error {
	return svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}
		if err := env.Store().Set(model.ReputationKey{Account: account}, score); err != nil {
			return err
		}
		return env.Emit(TopicReputationUpdated, account, map[string]interface{}{
			"score": score,
		})
	})
}

func (svc *ThrottleService) SetOverride(ctx context.Context, caller, account string, exempt bool) error {
	return svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}
		if err := env.Store().Set(model.OverrideKey{Account: account}, exempt); err != nil {
			return err
		}
		return env.Emit(TopicOverrideUpdated, account, map[string]interface{}{
			"exempt": exempt,
		})
	})
}

// GetThrottleStatus reports the limits that apply to account for action and
// whether it could act right now.
func (svc *ThrottleService) GetThrottleStatus(ctx context.Context, account string, action model.ActionType) (*dto.ThrottleStatusResponse, error) {
	status := &dto.ThrottleStatusResponse{
		Account: account,
		Action:  string(action),
	}

	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		exempt, err := load(env, model.OverrideKey{Account: account}, false)
		if err != nil {
			return err
		}
		status.Exempt = exempt

		rep, cooldown, dailyCap, err := throttleLimits(env, account, action)
		if err != nil {
			return err
		}
		status.Reputation = rep
		status.Cooldown = cooldown
		status.DailyCap = dailyCap

		now := env.Timestamp()

		var last uint64
		found, err := env.Store().Get(model.LastActionKey{Account: account, Action: action}, &last)
		if err != nil {
			return err
		}
		if found {
			status.LastActionAt = &last
			if retryAt := last + cooldown; now < retryAt {
				status.RetryAt = &retryAt
			}
		}

		stats, err := load(env, model.DailyStatsKey{Account: account}, model.DailyStats{})
		if err != nil {
			return err
		}
		status.UsedToday = statsForDay(stats, now/secondsPerDay).Count(action)
		if used := uint64(status.UsedToday); used < dailyCap {
			status.Remaining = dailyCap - used
		}

		switch {
		case exempt:
			status.Allowed = true
		case status.RetryAt != nil:
			status.Reason = shared.ErrCooldownActive.Code
		case status.Remaining == 0:
			status.Reason = shared.ErrDailyLimitReached.Code
		default:
			status.Allowed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}
