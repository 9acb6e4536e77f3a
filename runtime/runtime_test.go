// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaslink/gaslink/builtin"
	"github.com/gaslink/gaslink/builtin/captoken"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/logdb"
	"github.com/gaslink/gaslink/lvldb"
	"github.com/gaslink/gaslink/state"
)

var (
	admin = gaslink.BytesToAddress([]byte("admin"))
	alice = gaslink.BytesToAddress([]byte("alice"))
	bob   = gaslink.BytesToAddress([]byte("bob"))
)

type manualClock struct {
	now uint64
}

func (c *manualClock) Now() uint64 {
	return c.now
}

func (c *manualClock) advanceDays(days uint64) {
	c.now += days * gaslink.SecondsPerDay
}

func newRuntime(t *testing.T) (*Runtime, *manualClock, *logdb.LogDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logs, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(logs.Close)

	st := state.New(db)

	// Genesis-style seeding outside the runtime's operation surface.
	token := builtin.NewCapacityToken(st, nil)
	supply := new(big.Int).Mul(big.NewInt(1_000_000), gaslink.TokenUnit)
	require.NoError(t, token.Initialize(admin, admin, supply, 100_000, big.NewInt(500_000)))
	usd := builtin.NewFundingToken(st)
	for _, addr := range []gaslink.Address{admin, alice, bob} {
		require.NoError(t, usd.Mint(addr, big.NewInt(1_000_000_000_000)))
		require.NoError(t, usd.Approve(addr, builtin.CapacityTokenAddress, big.NewInt(1_000_000_000_000)))
	}
	require.NoError(t, st.Commit())

	clock := &manualClock{now: 1_700_000_000}
	rt := New(st, logs, clock)
	require.NoError(t, rt.Transfer(admin, alice, new(big.Int).Mul(big.NewInt(1000), gaslink.TokenUnit)))
	require.NoError(t, rt.Transfer(admin, bob, new(big.Int).Mul(big.NewInt(1000), gaslink.TokenUnit)))
	return rt, clock, logs
}

func TestOperationAtomicity(t *testing.T) {
	rt, clock, _ := newRuntime(t)

	require.NoError(t, rt.Stake(alice, big.NewInt(1000), 7))

	// A failed unstake leaves every observable unchanged.
	before, err := rt.GetStake(alice)
	require.NoError(t, err)
	assert.Equal(t, captoken.ErrStillLocked, rt.Unstake(alice, big.NewInt(1000)))
	after, err := rt.GetStake(alice)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	clock.advanceDays(8)
	require.NoError(t, rt.Unstake(alice, big.NewInt(1000)))
	snap, err := rt.GetStake(alice)
	require.NoError(t, err)
	assert.Zero(t, snap.Amount.Sign())
}

func TestCommitPersists(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	token := builtin.NewCapacityToken(st, nil)
	supply := new(big.Int).Mul(big.NewInt(1000), gaslink.TokenUnit)
	require.NoError(t, token.Initialize(admin, admin, supply, 1000, big.NewInt(1)))
	require.NoError(t, st.Commit())

	clock := &manualClock{now: 1_700_000_000}
	rt := New(st, nil, clock)
	require.NoError(t, rt.Transfer(admin, alice, big.NewInt(12345)))

	// A fresh state over the same store observes the committed balance.
	reopened := New(state.New(db), nil, clock)
	bal, err := reopened.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12345), bal)
}

func TestEventsPersistedOnCommitOnly(t *testing.T) {
	rt, _, logs := newRuntime(t)
	ctx := context.Background()

	require.NoError(t, rt.Stake(alice, big.NewInt(1000), 7))
	staked, err := logs.Filter(ctx, &logdb.Filter{Name: captoken.EvStaked})
	require.NoError(t, err)
	assert.Len(t, staked, 1)
	assert.Equal(t, alice, staked[0].Origin)

	// Reverted operations leave no events behind.
	assert.Equal(t, captoken.ErrInvalidAmount, rt.Stake(alice, big.NewInt(0), 7))
	staked, err = logs.Filter(ctx, &logdb.Filter{Name: captoken.EvStaked})
	require.NoError(t, err)
	assert.Len(t, staked, 1)
}

func TestBookingLifecycle(t *testing.T) {
	rt, clock, _ := newRuntime(t)

	id, err := rt.BookCapacity(alice, 1000, 10)
	require.NoError(t, err)

	stats, err := rt.GetPipelineStats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), stats.BookedMCF)

	clock.advanceDays(11)
	assert.Equal(t, captoken.ErrExpired, rt.CancelBooking(alice, id))

	swept, err := rt.SweepExpired(admin)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	stats, err = rt.GetPipelineStats()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.BookedMCF)
}

func TestAdminFlow(t *testing.T) {
	rt, _, _ := newRuntime(t)

	assert.Equal(t, captoken.ErrNotAdmin, rt.SetBasePrice(alice, big.NewInt(1)))
	require.NoError(t, rt.SetBasePrice(admin, big.NewInt(750_000)))

	stats, err := rt.GetPipelineStats()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(750_000), stats.BasePrice)

	require.NoError(t, rt.SetTransferRestricted(admin, true))
	restricted, err := rt.TransferRestricted()
	require.NoError(t, err)
	assert.True(t, restricted)

	a, err := rt.Admin()
	require.NoError(t, err)
	assert.Equal(t, admin, a)
}

func TestRewardFlowThroughRuntime(t *testing.T) {
	rt, _, _ := newRuntime(t)

	require.NoError(t, rt.Stake(alice, big.NewInt(500), 7))
	require.NoError(t, rt.Stake(bob, big.NewInt(1500), 7))
	require.NoError(t, rt.DepositRevenue(admin, big.NewInt(1000)))

	usd := rt.FundingToken()
	before, err := usd.BalanceOf(alice)
	require.NoError(t, err)
	require.NoError(t, rt.ClaimRewards(alice))
	after, err := usd.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(250), new(big.Int).Sub(after, before))
}
