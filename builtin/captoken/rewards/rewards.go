// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
)

var (
	slotAccPerShare      = gaslink.BytesToBytes32([]byte("rewards-acc-per-share"))
	slotPendingRevenue   = gaslink.BytesToBytes32([]byte("rewards-pending-revenue"))
	slotTotalDistributed = gaslink.BytesToBytes32([]byte("rewards-total-distributed"))
)

// Service owns the cumulative reward-per-share state machine that turns
// deposited revenue into per-staker entitlements without iterating over
// stakers. The accumulator only ever increases; folding pending revenue into
// it must happen before any stake amount change to keep attribution correct.
type Service struct {
	accPerShare      *slot.Uint256
	pendingRevenue   *slot.Uint256
	totalDistributed *slot.Uint256
}

// New create a new instance.
func New(sctx *slot.Context) *Service {
	return &Service{
		accPerShare:      slot.NewUint256(sctx, slotAccPerShare),
		pendingRevenue:   slot.NewUint256(sctx, slotPendingRevenue),
		totalDistributed: slot.NewUint256(sctx, slotTotalDistributed),
	}
}

func (s *Service) AccRewardPerShare() (*big.Int, error) {
	return s.accPerShare.Get()
}

func (s *Service) PendingRevenue() (*big.Int, error) {
	return s.pendingRevenue.Get()
}

func (s *Service) TotalDistributed() (*big.Int, error) {
	return s.totalDistributed.Get()
}

// AddPendingRevenue queues deposited revenue for the next settlement.
func (s *Service) AddPendingRevenue(amount *big.Int) error {
	return s.pendingRevenue.Add(amount)
}

// Settle folds pending revenue into the accumulator. A no-op while nothing is
// staked or nothing is pending. It returns the amount distributed.
func (s *Service) Settle(totalStaked *big.Int) (*big.Int, error) {
	pending, err := s.pendingRevenue.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pending revenue")
	}
	if totalStaked.Sign() == 0 || pending.Sign() == 0 {
		return new(big.Int), nil
	}

	delta := new(big.Int).Mul(pending, gaslink.RewardPrecision)
	delta.Div(delta, totalStaked)
	if err := s.accPerShare.Add(delta); err != nil {
		return nil, err
	}
	if err := s.totalDistributed.Add(pending); err != nil {
		return nil, err
	}
	if err := s.pendingRevenue.Set(new(big.Int)); err != nil {
		return nil, err
	}
	return pending, nil
}

// ProjectedAccPerShare returns the accumulator value as it would be right
// after settlement, without mutating state. Used by view queries.
func (s *Service) ProjectedAccPerShare(totalStaked *big.Int) (*big.Int, error) {
	acc, err := s.accPerShare.Get()
	if err != nil {
		return nil, err
	}
	pending, err := s.pendingRevenue.Get()
	if err != nil {
		return nil, err
	}
	if totalStaked.Sign() == 0 || pending.Sign() == 0 {
		return acc, nil
	}
	delta := new(big.Int).Mul(pending, gaslink.RewardPrecision)
	delta.Div(delta, totalStaked)
	return acc.Add(acc, delta), nil
}

// Entitlement computes the accumulated reward of a stake of the given amount
// at the given accumulator value, rounding toward zero.
func Entitlement(amount, accPerShare *big.Int) *big.Int {
	e := new(big.Int).Mul(amount, accPerShare)
	return e.Div(e, gaslink.RewardPrecision)
}
