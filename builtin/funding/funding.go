// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package funding

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/builtin/reverts"
	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/state"
)

var (
	slotBalances    = gaslink.BytesToBytes32([]byte("funding-balances"))
	slotAllowances  = gaslink.BytesToBytes32([]byte("funding-allowances"))
	slotTotalSupply = gaslink.BytesToBytes32([]byte("funding-total-supply"))
)

// Revert errors of the funding token.
var (
	ErrInsufficientFunds     = reverts.New("insufficient funding balance")
	ErrInsufficientAllowance = reverts.New("insufficient allowance")
)

type allowanceKey struct {
	owner   gaslink.Address
	spender gaslink.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token is the stable-value funding asset used for staking rewards and
// booking payments. It carries 6 fractional digits, distinct from the
// capacity token's 18.
type Token struct {
	addr        gaslink.Address
	balances    *slot.Mapping[gaslink.Address, *big.Int]
	allowances  *slot.Mapping[allowanceKey, *big.Int]
	totalSupply *slot.Uint256
}

// New create a new instance bound to the token's own contract address.
func New(addr gaslink.Address, st *state.State) *Token {
	sctx := slot.NewContext(addr, st)
	return &Token{
		addr:        addr,
		balances:    slot.NewMapping[gaslink.Address, *big.Int](sctx, slotBalances),
		allowances:  slot.NewMapping[allowanceKey, *big.Int](sctx, slotAllowances),
		totalSupply: slot.NewUint256(sctx, slotTotalSupply),
	}
}

// Address returns the token's contract address.
func (t *Token) Address() gaslink.Address {
	return t.addr
}

// BalanceOf returns the funding balance of an account.
func (t *Token) BalanceOf(addr gaslink.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get funding balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// TotalSupply returns the issued funding supply.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

// Mint issues new funding supply to the given account.
func (t *Token) Mint(to gaslink.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, new(big.Int).Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set funding balance")
	}
	return t.totalSupply.Add(amount)
}

// Transfer moves funds between two accounts.
func (t *Token) Transfer(from, to gaslink.Address, amount *big.Int) error {
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	if from == to {
		return nil
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set sender balance")
	}
	if err := t.balances.Set(to, new(big.Int).Add(toBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set recipient balance")
	}
	return nil
}

// Approve lets spender move up to amount of owner's funds.
func (t *Token) Approve(owner, spender gaslink.Address, amount *big.Int) error {
	return t.allowances.Set(allowanceKey{owner, spender}, amount)
}

// Allowance returns the remaining amount spender may move on owner's behalf.
func (t *Token) Allowance(owner, spender gaslink.Address) (*big.Int, error) {
	allowance, err := t.allowances.Get(allowanceKey{owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	if allowance == nil {
		return new(big.Int), nil
	}
	return allowance, nil
}

// TransferFrom moves owner's funds under spender's allowance.
func (t *Token) TransferFrom(spender, from, to gaslink.Address, amount *big.Int) error {
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	return t.allowances.Set(allowanceKey{from, spender}, new(big.Int).Sub(allowance, amount))
}
