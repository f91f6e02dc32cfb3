package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
)

func TestInit(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	_, err := core.Platform.Metadata(ctx)
	assert.ErrorIs(t, err, shared.ErrNotInitialized)

	require.NoError(t, core.Platform.Init(ctx, testAdmin, "whsper", 3))

	err = core.Platform.Init(ctx, "mallory", "other", 1)
	assert.ErrorIs(t, err, shared.ErrAlreadyInitialized)

	admin, err := core.Platform.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, testAdmin, admin)

	metadata, err := core.Platform.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ContractMetadata{Name: "whsper", Version: 3}, *metadata)

	events, err := core.Events.ListEvents(ctx, testAdmin, 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, TopicInitialized, events[0].Topic)
	assert.Equal(t, uint64(1), events[0].Sequence)
}

func TestSendTipChargesFee(t *testing.T) {
	core, _ := newInitializedCore(t, map[string]int64{"alice": 1_000})
	ctx := context.Background()

	resp, err := core.Platform.SendTip(ctx, "alice", "bob", testToken, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Fee)
	assert.Equal(t, int64(98), resp.Net)

	assert.Equal(t, int64(900), balanceOf(t, core, "alice"))
	assert.Equal(t, int64(98), balanceOf(t, core, "bob"))
	assert.Equal(t, int64(2), balanceOf(t, core, core.Assets.ContractAccount()))

	treasury, err := core.Platform.GetTreasuryBalance(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, int64(2), treasury)

	profile, err := core.Platform.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(XPTipSent), profile.XP)

	_, err = core.Platform.GetProfile(ctx, "bob")
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestSendTipSmallAmountHasNoFee(t *testing.T) {
	core, _ := newInitializedCore(t, map[string]int64{"alice": 10})
	ctx := context.Background()

	resp, err := core.Platform.SendTip(ctx, "alice", "bob", testToken, 49)
	require.ErrorIs(t, err, shared.ErrInsufficientBalance)
	assert.Nil(t, resp)

	resp, err = core.Platform.SendTip(ctx, "alice", "bob", testToken, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Fee)
	assert.Equal(t, int64(10), balanceOf(t, core, "bob"))

	treasury, err := core.Platform.GetTreasuryBalance(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, int64(0), treasury)
}

func TestSendTipValidatesAmount(t *testing.T) {
	core, _ := newInitializedCore(t, map[string]int64{"alice": 10_000_000})
	ctx := context.Background()

	_, err := core.Platform.SendTip(ctx, "alice", "bob", testToken, 0)
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)

	_, err = core.Platform.SendTip(ctx, "alice", "bob", testToken, MaxTipAmount+1)
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)
}

func TestSendTipIgnoresXPCap(t *testing.T) {
	core, clock := newInitializedCore(t, map[string]int64{"alice": 10_000})
	ctx := context.Background()

	cfg := model.DefaultRateLimitConfig()
	cfg.TipCooldown = 0
	require.NoError(t, core.Throttle.SetRateLimitConfig(ctx, testAdmin, cfg))

	// 3 tips earn 60 XP and fill the hour
	for i := 0; i < 4; i++ {
		_, err := core.Platform.SendTip(ctx, "alice", "bob", testToken, 100)
		require.NoError(t, err)
		clock.advance(1, 1)
	}

	profile, err := core.Platform.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(MaxXPPerHour), profile.XP)
	assert.Equal(t, int64(4*98), balanceOf(t, core, "bob"))
}

func TestTipCooldown(t *testing.T) {
	core, clock := newInitializedCore(t, map[string]int64{"alice": 1_000})
	ctx := context.Background()

	_, err := core.Platform.SendTip(ctx, "alice", "bob", testToken, 100)
	require.NoError(t, err)

	clock.advance(299, 10)
	_, err = core.Platform.SendTip(ctx, "alice", "bob", testToken, 100)
	require.ErrorIs(t, err, shared.ErrCooldownActive)
	assert.Equal(t, int64(900), balanceOf(t, core, "alice"))

	clock.advance(1, 1)
	_, err = core.Platform.SendTip(ctx, "alice", "bob", testToken, 100)
	assert.NoError(t, err)
}

func TestTransferTokens(t *testing.T) {
	core, _ := newInitializedCore(t, map[string]int64{"alice": 1_000})
	ctx := context.Background()

	resp, err := core.Platform.TransferTokens(ctx, "alice", "bob", testToken, 400, false)
	require.NoError(t, err)
	assert.Nil(t, resp.ClaimID)
	assert.Equal(t, int64(600), balanceOf(t, core, "alice"))
	assert.Equal(t, int64(400), balanceOf(t, core, "bob"))

	_, err = core.Platform.TransferTokens(ctx, "alice", "bob", testToken, 0, false)
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)

	balance, err := core.Platform.GetBalance(ctx, "bob", testToken)
	require.NoError(t, err)
	assert.Equal(t, int64(400), balance)
}

func TestTransferWithClaimIsNotThrottled(t *testing.T) {
	core, _ := newInitializedCore(t, map[string]int64{"alice": 1_000})
	ctx := context.Background()

	_, err := core.Platform.TransferTokens(ctx, "alice", "bob", testToken, 100, true)
	assert.ErrorIs(t, err, shared.ErrClaimWindowDisabled)

	require.NoError(t, core.Claims.SetClaimWindowConfig(ctx, testAdmin, model.ClaimWindowConfig{
		Enabled:             true,
		ClaimValidityWindow: 100,
	}))

	for want := uint64(1); want <= 3; want++ {
		resp, err := core.Platform.TransferTokens(ctx, "alice", "bob", testToken, 100, true)
		require.NoError(t, err)
		require.NotNil(t, resp.ClaimID)
		assert.Equal(t, want, *resp.ClaimID)
	}

	assert.Equal(t, int64(700), balanceOf(t, core, "alice"))
	assert.Equal(t, int64(0), balanceOf(t, core, "bob"))

	escrow, err := core.Claims.GetEscrowBalance(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, int64(300), escrow)
}

func TestListEventsRequiresAdmin(t *testing.T) {
	core, _ := newInitializedCore(t, nil)

	_, err := core.Events.ListEvents(context.Background(), "mallory", 0, 10)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestCustodyAccountIsReserved(t *testing.T) {
	core, _ := newClaimCore(t, map[string]int64{"alice": 1_000})
	ctx := context.Background()
	contract := core.Assets.ContractAccount()

	id, err := core.Claims.CreatePendingClaim(ctx, "alice", "bob", testToken, 250)
	require.NoError(t, err)

	_, err = core.Platform.TransferTokens(ctx, contract, "mallory", testToken, 250, false)
	assert.ErrorIs(t, err, shared.ErrReservedAccount)
	_, err = core.Platform.TransferTokens(ctx, "alice", contract, testToken, 10, false)
	assert.ErrorIs(t, err, shared.ErrReservedAccount)
	_, err = core.Platform.TransferTokens(ctx, "alice", contract, testToken, 10, true)
	assert.ErrorIs(t, err, shared.ErrReservedAccount)
	_, err = core.Platform.SendTip(ctx, contract, "mallory", testToken, 100)
	assert.ErrorIs(t, err, shared.ErrReservedAccount)
	_, err = core.Platform.SendTip(ctx, "alice", contract, testToken, 100)
	assert.ErrorIs(t, err, shared.ErrReservedAccount)
	_, err = core.Claims.CreatePendingClaim(ctx, contract, "mallory", testToken, 100)
	assert.ErrorIs(t, err, shared.ErrReservedAccount)

	err = core.Ledger.Invoke(ctx, func(env *Env) error {
		return core.Assets.Mint(env, contract, testToken, 1)
	})
	assert.ErrorIs(t, err, shared.ErrReservedAccount)

	assert.Equal(t, int64(0), balanceOf(t, core, "mallory"))
	assert.Equal(t, int64(250), balanceOf(t, core, contract))
	assert.Equal(t, escrowOf(t, core), balanceOf(t, core, contract))

	_, err = core.Claims.Claim(ctx, id, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(250), balanceOf(t, core, "bob"))
	assert.Equal(t, int64(0), balanceOf(t, core, contract))
}

func TestInitRejectsCustodyAccount(t *testing.T) {
	core, _ := newTestCore(t)

	err := core.Platform.Init(context.Background(), core.Assets.ContractAccount(), "whsper", 1)
	assert.ErrorIs(t, err, shared.ErrReservedAccount)
}

func TestUpdateFeePercentage(t *testing.T) {
	core, _ := newInitializedCore(t, map[string]int64{"alice": 10_000})
	ctx := context.Background()

	settings, err := core.Platform.GetPlatformSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPlatformSettings(), *settings)

	assert.ErrorIs(t, core.Platform.UpdateFeePercentage(ctx, "mallory", 500), shared.ErrUnauthorized)
	assert.ErrorIs(t, core.Platform.UpdateFeePercentage(ctx, testAdmin, MaxFeeBasisPoints+1), shared.ErrInvalidConfig)

	cfg := model.DefaultRateLimitConfig()
	cfg.TipCooldown = 0
	require.NoError(t, core.Throttle.SetRateLimitConfig(ctx, testAdmin, cfg))

	require.NoError(t, core.Platform.UpdateFeePercentage(ctx, testAdmin, 500))
	resp, err := core.Platform.SendTip(ctx, "alice", "bob", testToken, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Fee)
	assert.Equal(t, int64(95), resp.Net)

	// the whole tip is fee
	require.NoError(t, core.Platform.UpdateFeePercentage(ctx, testAdmin, MaxFeeBasisPoints))
	resp, err = core.Platform.SendTip(ctx, "alice", "bob", testToken, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.Fee)
	assert.Equal(t, int64(0), resp.Net)
	assert.Equal(t, int64(95), balanceOf(t, core, "bob"))

	settings, err = core.Platform.GetPlatformSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(MaxFeeBasisPoints), settings.FeeBasisPoints)
}

func TestCalculateFee(t *testing.T) {
	assert.Equal(t, int64(2), CalculateFee(100, 200))
	assert.Equal(t, int64(0), CalculateFee(49, 200))
	assert.Equal(t, int64(1), CalculateFee(50, 200))
	assert.Equal(t, int64(0), CalculateFee(1_000, 0))
	assert.Equal(t, int64(MaxTipAmount), CalculateFee(MaxTipAmount, MaxFeeBasisPoints))
}

func TestWithdrawFees(t *testing.T) {
	core, _ := newClaimCore(t, map[string]int64{"alice": 1_000})
	ctx := context.Background()
	contract := core.Assets.ContractAccount()

	_, err := core.Platform.SendTip(ctx, "alice", "bob", testToken, 100)
	require.NoError(t, err)
	_, err = core.Claims.CreatePendingClaim(ctx, "alice", "bob", testToken, 250)
	require.NoError(t, err)
	require.Equal(t, int64(252), balanceOf(t, core, contract))

	// escrowed claim funds are not withdrawable
	_, err = core.Platform.WithdrawFees(ctx, testAdmin, testToken, "ops", 3)
	assert.ErrorIs(t, err, shared.ErrInsufficientTreasury)
	_, err = core.Platform.WithdrawFees(ctx, "mallory", testToken, "mallory", 2)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = core.Platform.WithdrawFees(ctx, testAdmin, testToken, "ops", 0)
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	_, err = core.Platform.WithdrawFees(ctx, testAdmin, testToken, contract, 2)
	assert.ErrorIs(t, err, shared.ErrReservedAccount)

	resp, err := core.Platform.WithdrawFees(ctx, testAdmin, testToken, "ops", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.TreasuryBalance)
	assert.Equal(t, int64(2), balanceOf(t, core, "ops"))
	assert.Equal(t, escrowOf(t, core), balanceOf(t, core, contract))

	analytics, err := core.Platform.GetTreasuryAnalytics(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, int64(0), analytics.CurrentBalance)
	assert.Equal(t, int64(2), analytics.TotalCollected)
	assert.Equal(t, int64(2), analytics.TotalWithdrawn)
	assert.Equal(t, uint32(200), analytics.FeeBasisPoints)

	events, err := core.Events.ListEvents(ctx, testAdmin, 0, shared.MaxPageSize)
	require.NoError(t, err)
	var topics []string
	for _, event := range events {
		topics = append(topics, event.Topic)
	}
	assert.Contains(t, topics, TopicFeeCollected)
	assert.Equal(t, TopicTreasuryWithdrawal, topics[len(topics)-1])
}

func TestUpdateAdmin(t *testing.T) {
	core, _ := newInitializedCore(t, nil)
	ctx := context.Background()

	assert.ErrorIs(t, core.Platform.UpdateAdmin(ctx, "mallory", "mallory"), shared.ErrUnauthorized)
	assert.ErrorIs(t, core.Platform.UpdateAdmin(ctx, testAdmin, core.Assets.ContractAccount()), shared.ErrReservedAccount)

	require.NoError(t, core.Platform.UpdateAdmin(ctx, testAdmin, "carol"))

	admin, err := core.Platform.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "carol", admin)

	assert.ErrorIs(t, core.Platform.UpdateFeePercentage(ctx, testAdmin, 100), shared.ErrUnauthorized)
	assert.NoError(t, core.Platform.UpdateFeePercentage(ctx, "carol", 100))

	events, err := core.Events.ListEvents(ctx, "carol", 0, shared.MaxPageSize)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, TopicAdminChanged, events[1].Topic)
	assert.Equal(t, TopicFeePercentageUpdated, events[2].Topic)
}

func TestPlatformSettingsBeforeInit(t *testing.T) {
	core, _ := newTestCore(t)

	_, err := core.Platform.GetPlatformSettings(context.Background())
	assert.ErrorIs(t, err, shared.ErrNotInitialized)
}
