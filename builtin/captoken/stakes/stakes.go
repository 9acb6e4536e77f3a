// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
)

var (
	slotStakes      = gaslink.BytesToBytes32([]byte("stakes"))
	slotTotalStaked = gaslink.BytesToBytes32([]byte("stakes-total"))
)

// StakeInfo is the per-account staking record. It is created on first stake
// and never deleted; the amount can return to zero.
type StakeInfo struct {
	Amount     *big.Int
	RewardDebt *big.Int
	StakedAt   uint64
	LockUntil  uint64
}

// IsEmpty returns whether the record has never held a stake.
func (i *StakeInfo) IsEmpty() bool {
	return i.Amount.Sign() == 0 && i.StakedAt == 0
}

// Service owns per-account stake records and the total staked amount.
type Service struct {
	stakes      *slot.Mapping[gaslink.Address, *StakeInfo]
	totalStaked *slot.Uint256
}

// New create a new instance.
func New(sctx *slot.Context) *Service {
	return &Service{
		stakes:      slot.NewMapping[gaslink.Address, *StakeInfo](sctx, slotStakes),
		totalStaked: slot.NewUint256(sctx, slotTotalStaked),
	}
}

// Get returns the stake record of an account, normalized so that amount and
// reward debt are never nil.
func (s *Service) Get(addr gaslink.Address) (*StakeInfo, error) {
	info, err := s.stakes.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	if info.Amount == nil {
		info.Amount = new(big.Int)
	}
	if info.RewardDebt == nil {
		info.RewardDebt = new(big.Int)
	}
	return info, nil
}

// Set stores the stake record of an account.
func (s *Service) Set(addr gaslink.Address, info *StakeInfo) error {
	if err := s.stakes.Set(addr, info); err != nil {
		return errors.Wrap(err, "failed to set stake")
	}
	return nil
}

// TotalStaked returns the sum of all stake amounts.
func (s *Service) TotalStaked() (*big.Int, error) {
	return s.totalStaked.Get()
}

// AddTotal increases the total staked amount.
func (s *Service) AddTotal(amount *big.Int) error {
	return s.totalStaked.Add(amount)
}

// SubTotal decreases the total staked amount.
func (s *Service) SubTotal(amount *big.Int) error {
	return s.totalStaked.Sub(amount)
}
