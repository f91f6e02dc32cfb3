package handlers

import (
	"context"

	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/model"
)

type PlatformServiceInterface interface {
	Init(ctx context.Context, admin, name string, version uint32) error
	Metadata(ctx context.Context) (*model.ContractMetadata, error)
	RewardMessage(ctx context.Context, account string) (*dto.XPAwardResponse, error)
	RewardTipReceived(ctx context.Context, caller, account string) (*dto.XPAwardResponse, error)
	SendTip(ctx context.Context, sender, receiver, token string, amount int64) (*dto.TipResponse, error)
	TransferTokens(ctx context.Context, sender, recipient, token string, amount int64, withClaim bool) (*dto.TransferResponse, error)
	GetTreasuryBalance(ctx context.Context, token string) (int64, error)
	GetProfile(ctx context.Context, account string) (*model.UserProfile, error)
	GetBalance(ctx context.Context, account, token string) (int64, error)
	GetPlatformSettings(ctx context.Context) (*model.PlatformSettings, error)
	UpdateFeePercentage(ctx context.Context, caller string, feeBasisPoints uint32) error
	WithdrawFees(ctx context.Context, caller, token, recipient string, amount int64) (*dto.WithdrawFeesResponse, error)
	GetTreasuryAnalytics(ctx context.Context, token string) (*dto.TreasuryAnalyticsResponse, error)
	UpdateAdmin(ctx context.Context, caller, newAdmin string) error
}

type ThrottleServiceInterface interface {
	SetRateLimitConfig(ctx context.Context, caller string, cfg model.RateLimitConfig) error
	GetRateLimitConfig(ctx context.Context) (*model.RateLimitConfig, error)
	SetReputation(ctx context.Context, caller, account string, score uint32) error
	SetOverride(ctx context.Context, caller, account string, exempt bool) error
	GetThrottleStatus(ctx context.Context, account string, action model.ActionType) (*dto.ThrottleStatusResponse, error)
}

type ClaimServiceInterface interface {
	SetClaimWindowConfig(ctx context.Context, caller string, cfg model.ClaimWindowConfig) error
	GetClaimWindowConfig(ctx context.Context) (*model.ClaimWindowConfig, error)
	CreatePendingClaim(ctx context.Context, creator, recipient, token string, amount int64) (uint64, error)
	Claim(ctx context.Context, id uint64, caller string) (*dto.ClaimResponse, error)
	CancelPendingClaim(ctx context.Context, id uint64, caller string) (*dto.ClaimResponse, error)
	AdminCancelExpiredClaim(ctx context.Context, caller string, id uint64) (*dto.ClaimResponse, error)
	GetPendingClaim(ctx context.Context, id uint64) (*dto.ClaimResponse, error)
	GetClaimsByRecipient(ctx context.Context, account string, limit uint32, pendingOnly bool) ([]dto.ClaimResponse, error)
	GetClaimsByCreator(ctx context.Context, account string, limit uint32, pendingOnly bool) ([]dto.ClaimResponse, error)
	GetEscrowBalance(ctx context.Context, token string) (int64, error)
}

type EventServiceInterface interface {
	ListEvents(ctx context.Context, caller string, after uint64, limit int) ([]model.Event, error)
}

type ArchiveServiceInterface interface {
	ArchiveEvents(ctx context.Context, caller string) (*dto.ArchiveResponse, error)
}
