// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package funding

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/lvldb"
	"github.com/gaslink/gaslink/state"
)

func newToken(t *testing.T) *Token {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(gaslink.BytesToAddress([]byte("usdx")), state.New(db))
}

func TestMintTransfer(t *testing.T) {
	tok := newToken(t)

	alice := gaslink.BytesToAddress([]byte("alice"))
	bob := gaslink.BytesToAddress([]byte("bob"))

	require.NoError(t, tok.Mint(alice, big.NewInt(1_000_000)))
	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(400_000)))

	aliceBal, err := tok.BalanceOf(alice)
	require.NoError(t, err)
	bobBal, err := tok.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600_000), aliceBal)
	assert.Equal(t, big.NewInt(400_000), bobBal)

	assert.Equal(t, ErrInsufficientFunds, tok.Transfer(bob, alice, big.NewInt(400_001)))

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000_000), supply)
}

func TestAllowance(t *testing.T) {
	tok := newToken(t)

	alice := gaslink.BytesToAddress([]byte("alice"))
	spender := gaslink.BytesToAddress([]byte("contract"))
	sink := gaslink.BytesToAddress([]byte("sink"))

	require.NoError(t, tok.Mint(alice, big.NewInt(100)))

	assert.Equal(t, ErrInsufficientAllowance, tok.TransferFrom(spender, alice, sink, big.NewInt(10)))

	require.NoError(t, tok.Approve(alice, spender, big.NewInt(60)))
	require.NoError(t, tok.TransferFrom(spender, alice, sink, big.NewInt(40)))

	remaining, err := tok.Allowance(alice, spender)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), remaining)

	assert.Equal(t, ErrInsufficientAllowance, tok.TransferFrom(spender, alice, sink, big.NewInt(30)))
}

func TestGateway(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	tok := New(gaslink.BytesToAddress([]byte("usdx")), st)

	holder := gaslink.BytesToAddress([]byte("captoken"))
	payer := gaslink.BytesToAddress([]byte("payer"))
	gw := NewGateway(tok, holder)

	require.NoError(t, tok.Mint(payer, big.NewInt(500)))
	require.NoError(t, tok.Approve(payer, holder, big.NewInt(500)))

	require.NoError(t, gw.Collect(payer, big.NewInt(300)))
	bal, err := gw.Balance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), bal)

	require.NoError(t, gw.Pay(payer, big.NewInt(100)))
	bal, err = gw.Balance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(200), bal)
}
