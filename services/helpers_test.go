package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 2023-11-14 00:00:00 UTC, the start of an epoch day and of an hour.
const testDayStart = 1_699_920_000

const (
	testAdmin = "admin"
	testToken = "WHSP"
)

type manualClock struct {
	timestamp uint64
	sequence  uint64
}

func (c *manualClock) Timestamp() uint64 { return c.timestamp }

func (c *manualClock) Sequence() uint64 { return c.sequence }

func (c *manualClock) advance(seconds, ledgers uint64) {
	c.timestamp += seconds
	c.sequence += ledgers
}

func newTestCore(t *testing.T) (*Core, *manualClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	clock := &manualClock{timestamp: testDayStart, sequence: 100}
	core, err := NewCore(db, clock)
	require.NoError(t, err)
	return core, clock
}

// newInitializedCore returns a core with the contract initialized under
// testAdmin and the given balances minted.
func newInitializedCore(t *testing.T, balances map[string]int64) (*Core, *manualClock) {
	t.Helper()

	core, clock := newTestCore(t)
	ctx := context.Background()
	require.NoError(t, core.Platform.Init(ctx, testAdmin, "whsper", 1))

	if len(balances) > 0 {
		require.NoError(t, core.Ledger.Invoke(ctx, func(env *Env) error {
			for account, amount := range balances {
				if err := core.Assets.Mint(env, account, testToken, amount); err != nil {
					return err
				}
			}
			return nil
		}))
	}
	return core, clock
}

func balanceOf(t *testing.T, core *Core, account string) int64 {
	t.Helper()
	balance, err := core.Assets.Balance(context.Background(), account, testToken)
	require.NoError(t, err)
	return balance
}
