// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package captoken implements the capacity token contract: a fungible
// ledger, a pooled staking scheme with reward-per-share distribution,
// and a time-bounded capacity booking registry, all guarded by a
// compliance gate. State lives in keccak-derived storage slots under
// the contract's own address.
package captoken

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/builtin/captoken/bookings"
	"github.com/gaslink/gaslink/builtin/captoken/compliance"
	"github.com/gaslink/gaslink/builtin/captoken/ledger"
	"github.com/gaslink/gaslink/builtin/captoken/rewards"
	"github.com/gaslink/gaslink/builtin/captoken/stakes"
	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
)

var slotAdmin = gaslink.BytesToBytes32([]byte("admin-address"))

// PaymentGateway is the narrow capability through which the contract
// moves the funding asset. Collect pulls a payment from a payer into
// the contract's holdings; Pay sends from the holdings to a recipient.
type PaymentGateway interface {
	Balance() (*big.Int, error)
	Collect(payer gaslink.Address, amount *big.Int) error
	Pay(recipient gaslink.Address, amount *big.Int) error
}

// CapacityToken is the facade over the contract's five components.
// It is not safe for concurrent use; the runtime serializes operations.
type CapacityToken struct {
	sctx     *slot.Context
	admin    *slot.Address
	gateway  PaymentGateway
	recorder Recorder

	compliance *compliance.Service
	ledger     *ledger.Service
	rewards    *rewards.Service
	stakes     *stakes.Service
	bookings   *bookings.Service

	entered bool
}

// New create a new instance bound to the given slot context.
func New(sctx *slot.Context, gateway PaymentGateway, recorder Recorder) *CapacityToken {
	comp := compliance.New(sctx)
	return &CapacityToken{
		sctx:       sctx,
		admin:      slot.NewAddress(sctx, slotAdmin),
		gateway:    gateway,
		recorder:   recorder,
		compliance: comp,
		ledger:     ledger.New(sctx, comp),
		rewards:    rewards.New(sctx),
		stakes:     stakes.New(sctx),
		bookings:   bookings.New(sctx),
	}
}

// Address returns the contract's own address.
func (c *CapacityToken) Address() gaslink.Address {
	return c.sctx.Address()
}

// Initialize seeds the contract at genesis: admin identity, full token
// issuance to the holder, the capacity ceiling and the base price.
// It fails if the contract has already been initialized.
func (c *CapacityToken) Initialize(admin, holder gaslink.Address, supply *big.Int, capacityMCF uint64, basePrice *big.Int) error {
	cur, err := c.admin.Get()
	if err != nil {
		return err
	}
	if !cur.IsZero() {
		return errors.New("already initialized")
	}
	if err := c.admin.Set(admin); err != nil {
		return err
	}
	if err := c.ledger.Mint(holder, supply); err != nil {
		return err
	}
	if err := c.bookings.SetTotalCapacity(capacityMCF); err != nil {
		return err
	}
	return c.bookings.SetBasePrice(basePrice)
}

func (c *CapacityToken) enter() error {
	if c.entered {
		return ErrReentrancy
	}
	c.entered = true
	return nil
}

func (c *CapacityToken) leave() {
	c.entered = false
}

// settle folds pending revenue into the accumulator, recording a
// distribution event when anything was actually distributed.
func (c *CapacityToken) settle() error {
	total, err := c.stakes.TotalStaked()
	if err != nil {
		return err
	}
	distributed, err := c.rewards.Settle(total)
	if err != nil {
		return err
	}
	if distributed.Sign() > 0 {
		c.record(EvRevenueDistributed, c.Address(), map[string]any{
			"amount":      distributed,
			"totalStaked": total,
		})
	}
	return nil
}

// payFunding pays at most the contract's funding-asset balance,
// degrading to a partial payout instead of reverting.
func (c *CapacityToken) payFunding(recipient gaslink.Address, amount *big.Int) (*big.Int, error) {
	held, err := c.gateway.Balance()
	if err != nil {
		return nil, err
	}
	pay := amount
	if held.Cmp(amount) < 0 {
		pay = held
	}
	if pay.Sign() <= 0 {
		return new(big.Int), nil
	}
	if err := c.gateway.Pay(recipient, pay); err != nil {
		return nil, errors.Wrap(err, "failed to pay funding asset")
	}
	return pay, nil
}

// BalanceOf returns the token balance of an account.
func (c *CapacityToken) BalanceOf(addr gaslink.Address) (*big.Int, error) {
	return c.ledger.BalanceOf(addr)
}

// TotalSupply returns the token's total supply.
func (c *CapacityToken) TotalSupply() (*big.Int, error) {
	return c.ledger.TotalSupply()
}

// Transfer moves tokens between accounts, subject to the compliance gate.
func (c *CapacityToken) Transfer(caller, to gaslink.Address, amount *big.Int) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := c.ledger.Transfer(caller, to, amount); err != nil {
		return err
	}
	c.record(EvTransfer, caller, map[string]any{
		"to":     to,
		"amount": amount,
	})
	return nil
}

// StakeSnapshot is the per-account staking view.
type StakeSnapshot struct {
	Amount        *big.Int
	PendingReward *big.Int
	StakedAt      uint64
	LockUntil     uint64
}

// GetStake returns an account's stake together with its live pending
// reward, projected as if pending revenue were settled now.
func (c *CapacityToken) GetStake(addr gaslink.Address) (*StakeSnapshot, error) {
	info, err := c.stakes.Get(addr)
	if err != nil {
		return nil, err
	}
	pending, err := c.pendingReward(info)
	if err != nil {
		return nil, err
	}
	return &StakeSnapshot{
		Amount:        info.Amount,
		PendingReward: pending,
		StakedAt:      info.StakedAt,
		LockUntil:     info.LockUntil,
	}, nil
}

func (c *CapacityToken) pendingReward(info *stakes.StakeInfo) (*big.Int, error) {
	if info.Amount.Sign() == 0 {
		return new(big.Int), nil
	}
	total, err := c.stakes.TotalStaked()
	if err != nil {
		return nil, err
	}
	acc, err := c.rewards.ProjectedAccPerShare(total)
	if err != nil {
		return nil, err
	}
	pending := new(big.Int).Sub(rewards.Entitlement(info.Amount, acc), info.RewardDebt)
	if pending.Sign() < 0 {
		return new(big.Int), nil
	}
	return pending, nil
}

// GetBooking returns the booking stored under id, or nil if no booking
// was ever created with that id.
func (c *CapacityToken) GetBooking(id bookings.ID) (*bookings.Booking, error) {
	b, err := c.bookings.Get(id)
	if err != nil {
		return nil, err
	}
	if b.IsEmpty() {
		return nil, nil
	}
	return b, nil
}

// BookingCount returns the number of bookings ever created.
func (c *CapacityToken) BookingCount() (uint64, error) {
	return c.bookings.Count()
}

// PipelineStats aggregates the capacity booking state.
type PipelineStats struct {
	TotalCapacityMCF uint64
	BookedMCF        uint64
	AvailableMCF     uint64
	UtilizationBps   uint64
	BasePrice        *big.Int
}

// GetPipelineStats returns the aggregate booking view.
func (c *CapacityToken) GetPipelineStats() (*PipelineStats, error) {
	total, err := c.bookings.TotalCapacity()
	if err != nil {
		return nil, err
	}
	booked, err := c.bookings.TotalBooked()
	if err != nil {
		return nil, err
	}
	util, err := c.bookings.Utilization()
	if err != nil {
		return nil, err
	}
	price, err := c.bookings.BasePrice()
	if err != nil {
		return nil, err
	}
	return &PipelineStats{
		TotalCapacityMCF: total,
		BookedMCF:        booked,
		AvailableMCF:     total - booked,
		UtilizationBps:   util,
		BasePrice:        price,
	}, nil
}

// StakingStats aggregates the staking and reward state.
type StakingStats struct {
	TotalStaked       *big.Int
	TotalDistributed  *big.Int
	PendingRevenue    *big.Int
	AccRewardPerShare *big.Int
}

// GetStakingStats returns the aggregate staking view.
func (c *CapacityToken) GetStakingStats() (*StakingStats, error) {
	total, err := c.stakes.TotalStaked()
	if err != nil {
		return nil, err
	}
	distributed, err := c.rewards.TotalDistributed()
	if err != nil {
		return nil, err
	}
	pending, err := c.rewards.PendingRevenue()
	if err != nil {
		return nil, err
	}
	acc, err := c.rewards.AccRewardPerShare()
	if err != nil {
		return nil, err
	}
	return &StakingStats{
		TotalStaked:       total,
		TotalDistributed:  distributed,
		PendingRevenue:    pending,
		AccRewardPerShare: acc,
	}, nil
}

// CapacityEntitlement converts a token amount to the capacity it
// entitles its holder to book, in MCF, saturating at the maximum
// representable capacity.
func CapacityEntitlement(tokenAmount *big.Int) uint64 {
	if tokenAmount == nil || tokenAmount.Sign() <= 0 {
		return 0
	}
	mcf := new(big.Int).Mul(tokenAmount, new(big.Int).SetUint64(gaslink.CapacityPerToken))
	mcf.Div(mcf, gaslink.TokenUnit)
	if !mcf.IsUint64() {
		return math.MaxUint64
	}
	return mcf.Uint64()
}

// IsBlacklisted reports whether an account is blacklisted.
func (c *CapacityToken) IsBlacklisted(addr gaslink.Address) (bool, error) {
	return c.compliance.IsBlacklisted(addr)
}

// IsWhitelisted reports whether an account is whitelisted.
func (c *CapacityToken) IsWhitelisted(addr gaslink.Address) (bool, error) {
	return c.compliance.IsWhitelisted(addr)
}

// TransferRestricted reports whether restricted transfer mode is on.
func (c *CapacityToken) TransferRestricted() (bool, error) {
	return c.compliance.TransferRestricted()
}
