package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
)

func TestReputationScaling(t *testing.T) {
	assert.Equal(t, uint64(0), ClampReputation(0))
	assert.Equal(t, uint64(73), ClampReputation(73))
	assert.Equal(t, uint64(100), ClampReputation(250))

	assert.Equal(t, uint64(60), ScaleCooldown(60, 0))
	assert.Equal(t, uint64(45), ScaleCooldown(60, 50))
	assert.Equal(t, uint64(30), ScaleCooldown(60, 100))
	assert.Equal(t, uint64(0), ScaleCooldown(0, 100))

	assert.Equal(t, uint64(100), ScaleDailyCap(100, 0))
	assert.Equal(t, uint64(150), ScaleDailyCap(100, 50))
	assert.Equal(t, uint64(200), ScaleDailyCap(100, 100))
	assert.Equal(t, uint64(0), ScaleDailyCap(0, 100))

	assert.Equal(t, uint32(1), CalculateLevel(0))
	assert.Equal(t, uint32(1), CalculateLevel(99))
	assert.Equal(t, uint32(2), CalculateLevel(100))
	assert.Equal(t, uint32(11), CalculateLevel(1000))
}

func TestRewardMessageBeforeInit(t *testing.T) {
	core, _ := newTestCore(t)

	_, err := core.Platform.RewardMessage(context.Background(), "alice")
	assert.ErrorIs(t, err, shared.ErrNotInitialized)
}

func TestMessageCooldown(t *testing.T) {
	core, clock := newInitializedCore(t, nil)
	ctx := context.Background()

	_, err := core.Platform.RewardMessage(ctx, "alice")
	require.NoError(t, err)
	started := clock.timestamp

	clock.advance(30, 6)
	_, err = core.Platform.RewardMessage(ctx, "alice")
	require.ErrorIs(t, err, shared.ErrCooldownActive)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"retry_at": started + 60}, appErr.Data)

	// the rejected call left the profile untouched
	profile, err := core.Platform.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(XPMessage), profile.XP)

	clock.advance(31, 6)
	resp, err := core.Platform.RewardMessage(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(2*XPMessage), resp.XP)
}

func TestCooldownEndsExactlyAtRetryTime(t *testing.T) {
	core, clock := newInitializedCore(t, nil)
	ctx := context.Background()

	_, err := core.Platform.RewardMessage(ctx, "alice")
	require.NoError(t, err)

	clock.advance(59, 1)
	_, err = core.Platform.RewardMessage(ctx, "alice")
	require.ErrorIs(t, err, shared.ErrCooldownActive)

	clock.advance(1, 1)
	_, err = core.Platform.RewardMessage(ctx, "alice")
	assert.NoError(t, err)
}

func TestReputationShortensCooldown(t *testing.T) {
	core, clock := newInitializedCore(t, nil)
	ctx := context.Background()

	require.NoError(t, core.Throttle.SetReputation(ctx, testAdmin, "alice", 500))

	_, err := core.Platform.RewardMessage(ctx, "alice")
	require.NoError(t, err)

	clock.advance(29, 1)
	_, err = core.Platform.RewardMessage(ctx, "alice")
	require.ErrorIs(t, err, shared.ErrCooldownActive)

	clock.advance(1, 1)
	_, err = core.Platform.RewardMessage(ctx, "alice")
	require.NoError(t, err)

	status, err := core.Throttle.GetThrottleStatus(ctx, "alice", model.ActionMessage)
	require.NoError(t, err)
	assert.Equal(t, uint32(500), status.Reputation)
	assert.Equal(t, uint64(30), status.Cooldown)
	assert.Equal(t, uint64(200), status.DailyCap)
}

func TestDailyLimitResetsNextDay(t *testing.T) {
	core, clock := newInitializedCore(t, nil)
	ctx := context.Background()

	cfg := model.DefaultRateLimitConfig()
	cfg.MessageCooldown = 0
	cfg.DailyMessageLimit = 2
	require.NoError(t, core.Throttle.SetRateLimitConfig(ctx, testAdmin, cfg))

	for i := 0; i < 2; i++ {
		_, err := core.Platform.RewardMessage(ctx, "alice")
		require.NoError(t, err)
		clock.advance(1, 1)
	}

	_, err := core.Platform.RewardMessage(ctx, "alice")
	require.ErrorIs(t, err, shared.ErrDailyLimitReached)

	status, err := core.Throttle.GetThrottleStatus(ctx, "alice", model.ActionMessage)
	require.NoError(t, err)
	assert.False(t, status.Allowed)
	assert.Equal(t, shared.ErrDailyLimitReached.Code, status.Reason)
	assert.Equal(t, uint32(2), status.UsedToday)
	assert.Equal(t, uint64(0), status.Remaining)

	// other accounts keep their own counters
	_, err = core.Platform.RewardMessage(ctx, "bob")
	require.NoError(t, err)

	clock.timestamp = testDayStart + secondsPerDay
	_, err = core.Platform.RewardMessage(ctx, "alice")
	assert.NoError(t, err)
}

func TestDailyCountersRollOverWithoutWrite(t *testing.T) {
	core, clock := newInitializedCore(t, nil)
	ctx := context.Background()

	_, err := core.Platform.RewardMessage(ctx, "alice")
	require.NoError(t, err)

	status, err := core.Throttle.GetThrottleStatus(ctx, "alice", model.ActionMessage)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), status.UsedToday)
	require.NotNil(t, status.RetryAt)
	assert.Equal(t, shared.ErrCooldownActive.Code, status.Reason)

	clock.timestamp = testDayStart + secondsPerDay + 10

	status, err = core.Throttle.GetThrottleStatus(ctx, "alice", model.ActionMessage)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), status.UsedToday)
	assert.Equal(t, uint64(100), status.Remaining)
	assert.Nil(t, status.RetryAt)
	assert.True(t, status.Allowed)
}

func TestOverrideSkipsThrottle(t *testing.T) {
	core, clock := newInitializedCore(t, map[string]int64{"alice": 1_000})
	ctx := context.Background()

	cfg := model.DefaultRateLimitConfig()
	cfg.DailyTransferLimit = 1
	require.NoError(t, core.Throttle.SetRateLimitConfig(ctx, testAdmin, cfg))
	require.NoError(t, core.Throttle.SetOverride(ctx, testAdmin, "alice", true))

	for i := 0; i < 3; i++ {
		_, err := core.Platform.TransferTokens(ctx, "alice", "bob", testToken, 10, false)
		require.NoError(t, err)
		clock.advance(1, 1)
	}
	assert.Equal(t, int64(30), balanceOf(t, core, "bob"))

	status, err := core.Throttle.GetThrottleStatus(ctx, "alice", model.ActionTransfer)
	require.NoError(t, err)
	assert.True(t, status.Exempt)
	assert.True(t, status.Allowed)

	require.NoError(t, core.Throttle.SetOverride(ctx, testAdmin, "alice", false))
	_, err = core.Platform.TransferTokens(ctx, "alice", "bob", testToken, 10, false)
	assert.ErrorIs(t, err, shared.ErrCooldownActive)
}

func TestHourlyXPCap(t *testing.T) {
	core, clock := newInitializedCore(t, nil)
	ctx := context.Background()

	// 12 rewards of 5 fill the hour exactly
	for i := 0; i < MaxXPPerHour/XPTipReceived; i++ {
		_, err := core.Platform.RewardTipReceived(ctx, testAdmin, "bob")
		require.NoError(t, err)
	}

	_, err := core.Platform.RewardTipReceived(ctx, testAdmin, "bob")
	require.ErrorIs(t, err, shared.ErrXpRateLimited)

	profile, err := core.Platform.GetProfile(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(MaxXPPerHour), profile.XP)
	assert.Equal(t, uint32(1), profile.Level)

	clock.advance(secondsPerHour, 720)

	for i := 0; i < 7; i++ {
		_, err := core.Platform.RewardTipReceived(ctx, testAdmin, "bob")
		require.NoError(t, err)
	}
	award, err := core.Platform.RewardTipReceived(ctx, testAdmin, "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), award.XP)
	assert.Equal(t, uint32(1), award.OldLevel)
	assert.Equal(t, uint32(2), award.NewLevel)

	events, err := core.Events.ListEvents(ctx, testAdmin, 0, 0)
	require.NoError(t, err)
	var levelUps int
	for _, event := range events {
		if event.Topic == TopicLevelUp {
			levelUps++
		}
	}
	assert.Equal(t, 1, levelUps)
}

func TestRewardTipReceivedRequiresAdmin(t *testing.T) {
	core, _ := newInitializedCore(t, nil)

	_, err := core.Platform.RewardTipReceived(context.Background(), "mallory", "bob")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestAdminSettersRequireAdmin(t *testing.T) {
	core, _ := newInitializedCore(t, nil)
	ctx := context.Background()

	assert.ErrorIs(t, core.Throttle.SetRateLimitConfig(ctx, "mallory", model.DefaultRateLimitConfig()), shared.ErrUnauthorized)
	assert.ErrorIs(t, core.Throttle.SetReputation(ctx, "mallory", "mallory", 100), shared.ErrUnauthorized)
	assert.ErrorIs(t, core.Throttle.SetOverride(ctx, "mallory", "mallory", true), shared.ErrUnauthorized)

	cfg, err := core.Throttle.GetRateLimitConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRateLimitConfig(), *cfg)
}

func TestRateLimitCooldownsAreBounded(t *testing.T) {
	core, _ := newInitializedCore(t, nil)
	ctx := context.Background()

	cfg := model.DefaultRateLimitConfig()
	cfg.TransferCooldown = math.MaxUint64
	assert.ErrorIs(t, core.Throttle.SetRateLimitConfig(ctx, testAdmin, cfg), shared.ErrInvalidConfig)

	cfg.TransferCooldown = MaxCooldown + 1
	assert.ErrorIs(t, core.Throttle.SetRateLimitConfig(ctx, testAdmin, cfg), shared.ErrInvalidConfig)

	cfg.TransferCooldown = MaxCooldown
	require.NoError(t, core.Throttle.SetRateLimitConfig(ctx, testAdmin, cfg))

	stored, err := core.Throttle.GetRateLimitConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(MaxCooldown), stored.TransferCooldown)
}
