// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaslink/gaslink/builtin"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/genesis"
	"github.com/gaslink/gaslink/lvldb"
	"github.com/gaslink/gaslink/state"
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db)
}

func TestBuildDevConfig(t *testing.T) {
	st := newState(t)
	cfg := genesis.DevConfig()
	require.NoError(t, genesis.Build(st, cfg))

	dev, err := gaslink.ParseAddress(cfg.Admin)
	require.NoError(t, err)

	token := builtin.NewCapacityToken(st, nil)
	admin, err := token.Admin()
	require.NoError(t, err)
	assert.Equal(t, dev, admin)

	bal, err := token.BalanceOf(dev)
	require.NoError(t, err)
	supply, err := token.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, supply, bal)

	stats, err := token.GetPipelineStats()
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), stats.TotalCapacityMCF)
	assert.Equal(t, big.NewInt(500_000), stats.BasePrice)

	usd := builtin.NewFundingToken(st)
	usdBal, err := usd.BalanceOf(dev)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000_000_000_000), usdBal)
	allowance, err := usd.Allowance(dev, builtin.CapacityTokenAddress)
	require.NoError(t, err)
	assert.Equal(t, usdBal, allowance)

	// Rebuilding over the same state is rejected.
	assert.Error(t, genesis.Build(st, cfg))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
admin: "0x00000000000000000000000000000061646d696e"
totalSupply: "1000000"
capacityMCF: 500
basePrice: "250000"
funding:
  - address: "0x00000000000000000000000000000061646d696e"
    amount: "777"
    preapprove: true
`), 0o600))

	cfg, err := genesis.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), cfg.CapacityMCF)
	require.Len(t, cfg.Funding, 1)
	assert.True(t, cfg.Funding[0].Preapprove)

	st := newState(t)
	require.NoError(t, genesis.Build(st, cfg))

	_, err = genesis.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildRejectsBadConfig(t *testing.T) {
	st := newState(t)
	cfg := genesis.DevConfig()
	cfg.TotalSupply = "not-a-number"
	assert.Error(t, genesis.Build(st, cfg))
}
