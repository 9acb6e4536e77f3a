// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package captoken

import (
	"math/big"

	"github.com/gaslink/gaslink/builtin/captoken/ledger"
	"github.com/gaslink/gaslink/builtin/captoken/rewards"
	"github.com/gaslink/gaslink/builtin/captoken/stakes"
	"github.com/gaslink/gaslink/gaslink"
)

// Stake escrows tokens in the contract for at least lockDays days.
// Any reward pending from an earlier stake is paid out first, then the
// reward checkpoint is recomputed from the enlarged stake. Repeated
// stakes can only extend the lock, never shorten it.
func (c *CapacityToken) Stake(caller gaslink.Address, amount *big.Int, lockDays uint64, now uint64) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if lockDays < uint64(gaslink.MinLockDays) {
		return ErrLockTooShort
	}
	if lockDays > uint64(gaslink.MaxLockDays) {
		return ErrLockTooLong
	}
	bal, err := c.ledger.BalanceOf(caller)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ledger.ErrInsufficientBalance
	}

	if err := c.settle(); err != nil {
		return err
	}
	info, err := c.stakes.Get(caller)
	if err != nil {
		return err
	}
	if info.Amount.Sign() > 0 {
		if err := c.payoutPending(caller, info); err != nil {
			return err
		}
	}

	if err := c.ledger.Transfer(caller, c.Address(), amount); err != nil {
		return err
	}
	info.Amount = new(big.Int).Add(info.Amount, amount)
	if err := c.stakes.AddTotal(amount); err != nil {
		return err
	}
	if err := c.checkpoint(info); err != nil {
		return err
	}
	info.StakedAt = now
	if lockUntil := now + lockDays*gaslink.SecondsPerDay; lockUntil > info.LockUntil {
		info.LockUntil = lockUntil
	}
	if err := c.stakes.Set(caller, info); err != nil {
		return err
	}

	c.record(EvStaked, caller, map[string]any{
		"amount":    amount,
		"lockUntil": info.LockUntil,
	})
	return nil
}

// Unstake returns escrowed tokens to the caller once the lock has
// elapsed, paying out the pending reward along the way.
func (c *CapacityToken) Unstake(caller gaslink.Address, amount *big.Int, now uint64) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	info, err := c.stakes.Get(caller)
	if err != nil {
		return err
	}
	if amount.Cmp(info.Amount) > 0 {
		return ErrInsufficientStake
	}
	if now < info.LockUntil {
		return ErrStillLocked
	}

	if err := c.settle(); err != nil {
		return err
	}
	if err := c.payoutPending(caller, info); err != nil {
		return err
	}

	info.Amount = new(big.Int).Sub(info.Amount, amount)
	if err := c.stakes.SubTotal(amount); err != nil {
		return err
	}
	if err := c.checkpoint(info); err != nil {
		return err
	}
	if err := c.stakes.Set(caller, info); err != nil {
		return err
	}
	if err := c.ledger.Transfer(c.Address(), caller, amount); err != nil {
		return err
	}

	c.record(EvUnstaked, caller, map[string]any{
		"amount":    amount,
		"remaining": info.Amount,
	})
	return nil
}

// ClaimRewards pays out the caller's full pending reward and resets the
// checkpoint so the same entitlement cannot be claimed twice.
func (c *CapacityToken) ClaimRewards(caller gaslink.Address) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if err := c.settle(); err != nil {
		return err
	}
	info, err := c.stakes.Get(caller)
	if err != nil {
		return err
	}
	acc, err := c.rewards.AccRewardPerShare()
	if err != nil {
		return err
	}
	pending := new(big.Int).Sub(rewards.Entitlement(info.Amount, acc), info.RewardDebt)
	if pending.Sign() <= 0 {
		return ErrNoRewards
	}
	paid, err := c.payFunding(caller, pending)
	if err != nil {
		return err
	}
	info.RewardDebt = rewards.Entitlement(info.Amount, acc)
	if err := c.stakes.Set(caller, info); err != nil {
		return err
	}

	c.record(EvRewardsClaimed, caller, map[string]any{
		"amount": paid,
	})
	return nil
}

// DepositRevenue collects funding-asset revenue from the caller into
// the pending pool, to be folded into the accumulator at the next
// settlement.
func (c *CapacityToken) DepositRevenue(caller gaslink.Address, amount *big.Int) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := c.gateway.Collect(caller, amount); err != nil {
		return err
	}
	if err := c.rewards.AddPendingRevenue(amount); err != nil {
		return err
	}

	c.record(EvRevenueDeposited, caller, map[string]any{
		"amount": amount,
	})
	return nil
}

// payoutPending pays the account's settled pending reward, if any, and
// records the claim. The caller is responsible for recomputing the
// checkpoint afterwards.
func (c *CapacityToken) payoutPending(addr gaslink.Address, info *stakes.StakeInfo) error {
	acc, err := c.rewards.AccRewardPerShare()
	if err != nil {
		return err
	}
	pending := new(big.Int).Sub(rewards.Entitlement(info.Amount, acc), info.RewardDebt)
	if pending.Sign() <= 0 {
		return nil
	}
	paid, err := c.payFunding(addr, pending)
	if err != nil {
		return err
	}
	if paid.Sign() > 0 {
		c.record(EvRewardsClaimed, addr, map[string]any{
			"amount": paid,
		})
	}
	return nil
}

// checkpoint recomputes the reward debt from the stake's current amount
// and the current accumulator value.
func (c *CapacityToken) checkpoint(info *stakes.StakeInfo) error {
	acc, err := c.rewards.AccRewardPerShare()
	if err != nil {
		return err
	}
	info.RewardDebt = rewards.Entitlement(info.Amount, acc)
	return nil
}
