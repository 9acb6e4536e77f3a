// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaslink/gaslink/builtin/captoken/compliance"
	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/lvldb"
	"github.com/gaslink/gaslink/state"
)

func newService(t *testing.T) (*Service, *compliance.Service) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := slot.NewContext(gaslink.BytesToAddress([]byte("contract")), state.New(db))
	gate := compliance.New(sctx)
	return New(sctx, gate), gate
}

func TestMintAndTransfer(t *testing.T) {
	svc, _ := newService(t)

	alice := gaslink.BytesToAddress([]byte("alice"))
	bob := gaslink.BytesToAddress([]byte("bob"))

	require.NoError(t, svc.Mint(alice, big.NewInt(1000)))

	supply, err := svc.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), supply)

	require.NoError(t, svc.Transfer(alice, bob, big.NewInt(300)))

	aliceBal, err := svc.BalanceOf(alice)
	require.NoError(t, err)
	bobBal, err := svc.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(700), aliceBal)
	assert.Equal(t, big.NewInt(300), bobBal)

	// supply is preserved exactly
	supply, err = svc.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), new(big.Int).Add(aliceBal, bobBal))
	assert.Equal(t, big.NewInt(1000), supply)
}

func TestTransferInsufficientBalance(t *testing.T) {
	svc, _ := newService(t)

	alice := gaslink.BytesToAddress([]byte("alice"))
	bob := gaslink.BytesToAddress([]byte("bob"))

	require.NoError(t, svc.Mint(alice, big.NewInt(10)))
	assert.Equal(t, ErrInsufficientBalance, svc.Transfer(alice, bob, big.NewInt(11)))

	bal, err := svc.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), bal)
}

func TestTransferSelf(t *testing.T) {
	svc, _ := newService(t)

	alice := gaslink.BytesToAddress([]byte("alice"))
	require.NoError(t, svc.Mint(alice, big.NewInt(10)))
	require.NoError(t, svc.Transfer(alice, alice, big.NewInt(5)))

	bal, err := svc.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), bal)
}

func TestTransferConsultsGate(t *testing.T) {
	svc, gate := newService(t)

	alice := gaslink.BytesToAddress([]byte("alice"))
	bob := gaslink.BytesToAddress([]byte("bob"))

	require.NoError(t, svc.Mint(alice, big.NewInt(10)))
	require.NoError(t, gate.SetBlacklisted(bob, true))

	err := svc.Transfer(alice, bob, big.NewInt(5))
	assert.Equal(t, compliance.ErrRecipientBlacklisted, err)

	// mint is not gated
	require.NoError(t, svc.Mint(bob, big.NewInt(1)))
}
