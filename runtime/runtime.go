// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime drives the capacity token contract: it serializes
// operations into a single global order, makes each one atomic against
// the backing state, and persists the events of committed operations.
package runtime

import (
	"math/big"
	"sync"
	"time"

	"github.com/gaslink/gaslink/builtin"
	"github.com/gaslink/gaslink/builtin/captoken"
	"github.com/gaslink/gaslink/builtin/captoken/bookings"
	"github.com/gaslink/gaslink/builtin/funding"
	"github.com/gaslink/gaslink/builtin/reverts"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/log"
	"github.com/gaslink/gaslink/logdb"
	"github.com/gaslink/gaslink/metrics"
	"github.com/gaslink/gaslink/state"
)

var logger = log.WithContext("pkg", "runtime")

var (
	metricOpCount = metrics.LazyLoadCounterVec("operation_count", []string{"op", "outcome"})
	metricOpMs    = metrics.LazyLoadHistogramVec("operation_duration_ms", []string{"op"}, []int64{1, 5, 10, 50, 100})
)

// Clock supplies the current unix time to time-dependent operations.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Runtime owns the contract state. All operations either fully commit
// or leave no trace. Safe for concurrent use.
type Runtime struct {
	lock  sync.Mutex
	state *state.State
	token *captoken.CapacityToken
	usd   *funding.Token
	logs  *logdb.LogDB
	clock Clock

	buffered []*captoken.Event
}

// New creates a runtime over the given state. logs may be nil to skip
// event persistence.
func New(st *state.State, logs *logdb.LogDB, clock Clock) *Runtime {
	rt := &Runtime{
		state: st,
		usd:   builtin.NewFundingToken(st),
		logs:  logs,
		clock: clock,
	}
	rt.token = builtin.NewCapacityToken(st, rt)
	return rt
}

// Record buffers an event until the surrounding operation commits.
// It implements captoken.Recorder.
func (rt *Runtime) Record(ev *captoken.Event) {
	rt.buffered = append(rt.buffered, ev)
}

// FundingToken exposes the funding-asset contract, bound to the same
// state. Mutations on it bypass the runtime's atomicity; use it for
// reads and genesis-style setup only.
func (rt *Runtime) FundingToken() *funding.Token {
	return rt.usd
}

func (rt *Runtime) execute(op string, fn func(now uint64) error) error {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	started := time.Now()
	now := rt.clock.Now()
	checkpoint := rt.state.NewCheckpoint()
	rt.buffered = rt.buffered[:0]

	if err := fn(now); err != nil {
		rt.state.RevertTo(checkpoint)
		rt.buffered = rt.buffered[:0]
		outcome := "error"
		if reverts.IsRevertErr(err) {
			outcome = "reverted"
			logger.Debug("operation reverted", "op", op, "err", err)
		} else {
			logger.Error("operation failed", "op", op, "err", err)
		}
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
		return err
	}
	if err := rt.state.Commit(); err != nil {
		rt.state.RevertTo(checkpoint)
		rt.buffered = rt.buffered[:0]
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "outcome": "error"})
		return err
	}
	if rt.logs != nil {
		for _, ev := range rt.buffered {
			if err := rt.logs.Append(now, ev.Name, ev.Origin, ev.Data); err != nil {
				// The state change is already durable; losing an event
				// record must not fail the operation.
				logger.Warn("failed to persist event", "name", ev.Name, "err", err)
			}
		}
	}
	rt.buffered = rt.buffered[:0]

	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "outcome": "ok"})
	metricOpMs().ObserveWithLabels(time.Since(started).Milliseconds(), map[string]string{"op": op})
	return nil
}

func (rt *Runtime) query(fn func() error) error {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return fn()
}

// Transfer moves capacity tokens between accounts.
func (rt *Runtime) Transfer(caller, to gaslink.Address, amount *big.Int) error {
	return rt.execute("transfer", func(uint64) error {
		return rt.token.Transfer(caller, to, amount)
	})
}

// Stake escrows the caller's tokens for at least lockDays days.
func (rt *Runtime) Stake(caller gaslink.Address, amount *big.Int, lockDays uint64) error {
	return rt.execute("stake", func(now uint64) error {
		return rt.token.Stake(caller, amount, lockDays, now)
	})
}

// Unstake withdraws staked tokens after the lock elapses.
func (rt *Runtime) Unstake(caller gaslink.Address, amount *big.Int) error {
	return rt.execute("unstake", func(now uint64) error {
		return rt.token.Unstake(caller, amount, now)
	})
}

// ClaimRewards pays out the caller's pending reward.
func (rt *Runtime) ClaimRewards(caller gaslink.Address) error {
	return rt.execute("claim_rewards", func(uint64) error {
		return rt.token.ClaimRewards(caller)
	})
}

// DepositRevenue collects funding-asset revenue into the reward pool.
func (rt *Runtime) DepositRevenue(caller gaslink.Address, amount *big.Int) error {
	return rt.execute("deposit_revenue", func(uint64) error {
		return rt.token.DepositRevenue(caller, amount)
	})
}

// BookCapacity reserves pipeline capacity and returns the booking id.
func (rt *Runtime) BookCapacity(caller gaslink.Address, capacityMCF, durationDays uint64) (id bookings.ID, err error) {
	err = rt.execute("book_capacity", func(now uint64) error {
		id, err = rt.token.BookCapacity(caller, capacityMCF, durationDays, now)
		return err
	})
	return
}

// CancelBooking cancels a live booking with a pro-rated refund.
func (rt *Runtime) CancelBooking(caller gaslink.Address, id bookings.ID) error {
	return rt.execute("cancel_booking", func(now uint64) error {
		return rt.token.CancelBooking(caller, id, now)
	})
}

// SetBasePrice is an admin operation updating the booking price.
func (rt *Runtime) SetBasePrice(caller gaslink.Address, price *big.Int) error {
	return rt.execute("set_base_price", func(uint64) error {
		auth, err := rt.token.RequireAdmin(caller)
		if err != nil {
			return err
		}
		return rt.token.SetBasePrice(auth, price)
	})
}

// ResizeCapacity is an admin operation changing the capacity ceiling.
func (rt *Runtime) ResizeCapacity(caller gaslink.Address, capacityMCF uint64) error {
	return rt.execute("resize_capacity", func(uint64) error {
		auth, err := rt.token.RequireAdmin(caller)
		if err != nil {
			return err
		}
		return rt.token.ResizeCapacity(auth, capacityMCF)
	})
}

// SetBlacklisted is an admin operation updating the blacklist.
func (rt *Runtime) SetBlacklisted(caller, addr gaslink.Address, listed bool) error {
	return rt.execute("set_blacklisted", func(uint64) error {
		auth, err := rt.token.RequireAdmin(caller)
		if err != nil {
			return err
		}
		return rt.token.SetBlacklisted(auth, addr, listed)
	})
}

// SetWhitelisted is an admin operation updating the whitelist.
func (rt *Runtime) SetWhitelisted(caller, addr gaslink.Address, listed bool) error {
	return rt.execute("set_whitelisted", func(uint64) error {
		auth, err := rt.token.RequireAdmin(caller)
		if err != nil {
			return err
		}
		return rt.token.SetWhitelisted(auth, addr, listed)
	})
}

// SetTransferRestricted is an admin operation toggling restricted mode.
func (rt *Runtime) SetTransferRestricted(caller gaslink.Address, restricted bool) error {
	return rt.execute("set_transfer_restricted", func(uint64) error {
		auth, err := rt.token.RequireAdmin(caller)
		if err != nil {
			return err
		}
		return rt.token.SetTransferRestricted(auth, restricted)
	})
}

// EmergencyWithdraw is an admin operation sweeping funding holdings.
func (rt *Runtime) EmergencyWithdraw(caller gaslink.Address, amount *big.Int) error {
	return rt.execute("emergency_withdraw", func(uint64) error {
		auth, err := rt.token.RequireAdmin(caller)
		if err != nil {
			return err
		}
		return rt.token.EmergencyWithdraw(auth, amount)
	})
}

// SweepExpired is an admin operation releasing elapsed bookings.
func (rt *Runtime) SweepExpired(caller gaslink.Address) (swept int, err error) {
	err = rt.execute("sweep_expired", func(now uint64) error {
		auth, err := rt.token.RequireAdmin(caller)
		if err != nil {
			return err
		}
		swept, err = rt.token.SweepExpired(auth, now)
		return err
	})
	return
}

// BalanceOf returns an account's token balance.
func (rt *Runtime) BalanceOf(addr gaslink.Address) (bal *big.Int, err error) {
	err = rt.query(func() error {
		bal, err = rt.token.BalanceOf(addr)
		return err
	})
	return
}

// TotalSupply returns the token's total supply.
func (rt *Runtime) TotalSupply() (supply *big.Int, err error) {
	err = rt.query(func() error {
		supply, err = rt.token.TotalSupply()
		return err
	})
	return
}

// GetStake returns an account's stake with its live pending reward.
func (rt *Runtime) GetStake(addr gaslink.Address) (snap *captoken.StakeSnapshot, err error) {
	err = rt.query(func() error {
		snap, err = rt.token.GetStake(addr)
		return err
	})
	return
}

// GetBooking returns a booking by id, or nil if it does not exist.
func (rt *Runtime) GetBooking(id bookings.ID) (booking *bookings.Booking, err error) {
	err = rt.query(func() error {
		booking, err = rt.token.GetBooking(id)
		return err
	})
	return
}

// BookingCount returns the number of bookings ever created.
func (rt *Runtime) BookingCount() (count uint64, err error) {
	err = rt.query(func() error {
		count, err = rt.token.BookingCount()
		return err
	})
	return
}

// GetPipelineStats returns the aggregate booking view.
func (rt *Runtime) GetPipelineStats() (stats *captoken.PipelineStats, err error) {
	err = rt.query(func() error {
		stats, err = rt.token.GetPipelineStats()
		return err
	})
	return
}

// GetStakingStats returns the aggregate staking view.
func (rt *Runtime) GetStakingStats() (stats *captoken.StakingStats, err error) {
	err = rt.query(func() error {
		stats, err = rt.token.GetStakingStats()
		return err
	})
	return
}

// Admin returns the contract's admin identity.
func (rt *Runtime) Admin() (admin gaslink.Address, err error) {
	err = rt.query(func() error {
		admin, err = rt.token.Admin()
		return err
	})
	return
}

// IsBlacklisted reports whether an account is blacklisted.
func (rt *Runtime) IsBlacklisted(addr gaslink.Address) (listed bool, err error) {
	err = rt.query(func() error {
		listed, err = rt.token.IsBlacklisted(addr)
		return err
	})
	return
}

// IsWhitelisted reports whether an account is whitelisted.
func (rt *Runtime) IsWhitelisted(addr gaslink.Address) (listed bool, err error) {
	err = rt.query(func() error {
		listed, err = rt.token.IsWhitelisted(addr)
		return err
	})
	return
}

// TransferRestricted reports whether restricted transfer mode is on.
func (rt *Runtime) TransferRestricted() (restricted bool, err error) {
	err = rt.query(func() error {
		restricted, err = rt.token.TransferRestricted()
		return err
	})
	return
}
