// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/builtin/reverts"
	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
)

var (
	slotBalances    = gaslink.BytesToBytes32([]byte("ledger-balances"))
	slotTotalSupply = gaslink.BytesToBytes32([]byte("ledger-total-supply"))
)

// ErrInsufficientBalance transfer amount exceeds the sender's balance.
var ErrInsufficientBalance = reverts.New("insufficient balance")

// Gate is the compliance predicate consulted on every non-mint transfer.
type Gate interface {
	CheckTransfer(sender, recipient gaslink.Address) error
}

// Service owns account balances and the total supply. All other components
// move value exclusively through it.
type Service struct {
	gate        Gate
	balances    *slot.Mapping[gaslink.Address, *big.Int]
	totalSupply *slot.Uint256
}

// New create a new instance.
func New(sctx *slot.Context, gate Gate) *Service {
	return &Service{
		gate:        gate,
		balances:    slot.NewMapping[gaslink.Address, *big.Int](sctx, slotBalances),
		totalSupply: slot.NewUint256(sctx, slotTotalSupply),
	}
}

// BalanceOf returns the token balance of an account.
func (s *Service) BalanceOf(addr gaslink.Address) (*big.Int, error) {
	bal, err := s.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if bal == nil || bal.Sign() == 0 {
		return new(big.Int), nil
	}
	return bal, nil
}

// TotalSupply returns the fixed token supply.
func (s *Service) TotalSupply() (*big.Int, error) {
	return s.totalSupply.Get()
}

// Mint creates supply and credits it to the given account. It bypasses the
// gate and is only reachable during genesis construction.
func (s *Service) Mint(to gaslink.Address, amount *big.Int) error {
	bal, err := s.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := s.balances.Set(to, new(big.Int).Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return s.totalSupply.Add(amount)
}

// Transfer atomically debits from and credits to, preserving total supply
// exactly. It never produces a negative balance.
func (s *Service) Transfer(from, to gaslink.Address, amount *big.Int) error {
	if err := s.gate.CheckTransfer(from, to); err != nil {
		return err
	}
	fromBal, err := s.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	toBal, err := s.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := s.balances.Set(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set sender balance")
	}
	if err := s.balances.Set(to, new(big.Int).Add(toBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set recipient balance")
	}
	return nil
}
