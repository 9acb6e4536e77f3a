// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package captoken

import (
	"math/big"

	"github.com/gaslink/gaslink/builtin/captoken/bookings"
	"github.com/gaslink/gaslink/gaslink"
)

// BookCapacity reserves pipeline capacity for the given number of days,
// collecting the full booking cost in the funding asset up front. The
// cost flows into the pending revenue pool, so bookers indirectly fund
// staker rewards. The booking captures the base price at booking time;
// later price changes do not affect it.
//
// Booking rights are tied to token holdings at call time only; the
// backing tokens are not escrowed.
func (c *CapacityToken) BookCapacity(caller gaslink.Address, capacityMCF, durationDays uint64, now uint64) (bookings.ID, error) {
	if err := c.enter(); err != nil {
		return 0, err
	}
	defer c.leave()

	if capacityMCF == 0 {
		return 0, ErrInvalidCapacity
	}
	if durationDays == 0 || durationDays > gaslink.MaxBookingDays {
		return 0, ErrInvalidDuration
	}
	totalCap, err := c.bookings.TotalCapacity()
	if err != nil {
		return 0, err
	}
	booked, err := c.bookings.TotalBooked()
	if err != nil {
		return 0, err
	}
	// booked never exceeds totalCap, so the subtraction cannot wrap.
	if capacityMCF > totalCap-booked {
		return 0, ErrCapacityExceeded
	}
	bal, err := c.ledger.BalanceOf(caller)
	if err != nil {
		return 0, err
	}
	if CapacityEntitlement(bal) < capacityMCF {
		return 0, ErrInsufficientCollateral
	}

	price, err := c.bookings.BasePrice()
	if err != nil {
		return 0, err
	}
	cost := new(big.Int).Mul(new(big.Int).SetUint64(capacityMCF), price)
	cost.Mul(cost, new(big.Int).SetUint64(durationDays))
	if err := c.gateway.Collect(caller, cost); err != nil {
		return 0, err
	}
	if err := c.rewards.AddPendingRevenue(cost); err != nil {
		return 0, err
	}

	id, err := c.bookings.NextID()
	if err != nil {
		return 0, err
	}
	booking := &bookings.Booking{
		Booker:      caller,
		CapacityMCF: capacityMCF,
		StartTime:   now,
		EndTime:     now + durationDays*gaslink.SecondsPerDay,
		PricePerMCF: price,
		Active:      true,
	}
	if err := c.bookings.Set(id, booking); err != nil {
		return 0, err
	}
	if err := c.bookings.AddBooked(capacityMCF); err != nil {
		return 0, err
	}
	if err := c.updateUtilization(); err != nil {
		return 0, err
	}

	c.record(EvBookingCreated, caller, map[string]any{
		"id":          uint64(id),
		"capacityMCF": capacityMCF,
		"startTime":   booking.StartTime,
		"endTime":     booking.EndTime,
		"pricePerMCF": price,
		"cost":        cost,
	})
	return id, nil
}

// CancelBooking deactivates a live booking and refunds the remaining
// window pro rata, less a flat 10% penalty. The refund comes out of the
// contract's funding holdings directly; it is a return of the booker's
// own escrow, not staker revenue.
func (c *CapacityToken) CancelBooking(caller gaslink.Address, id bookings.ID, now uint64) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	booking, err := c.bookings.Get(id)
	if err != nil {
		return err
	}
	if booking.IsEmpty() {
		return ErrNotActive
	}
	if booking.Booker != caller {
		return ErrNotOwner
	}
	if !booking.Active {
		return ErrNotActive
	}
	if now >= booking.EndTime {
		return ErrExpired
	}

	remaining := booking.EndTime - now
	refund := new(big.Int).Mul(new(big.Int).SetUint64(booking.CapacityMCF), booking.PricePerMCF)
	refund.Mul(refund, new(big.Int).SetUint64(remaining))
	refund.Div(refund, new(big.Int).SetUint64(gaslink.SecondsPerDay))
	refund.Mul(refund, new(big.Int).SetUint64(gaslink.BasisPoints-gaslink.CancellationPenaltyBps))
	refund.Div(refund, new(big.Int).SetUint64(gaslink.BasisPoints))

	booking.Active = false
	if err := c.bookings.Set(id, booking); err != nil {
		return err
	}
	if err := c.bookings.SubBooked(booking.CapacityMCF); err != nil {
		return err
	}
	if err := c.updateUtilization(); err != nil {
		return err
	}
	paid, err := c.payFunding(caller, refund)
	if err != nil {
		return err
	}

	c.record(EvBookingCancelled, caller, map[string]any{
		"id":     uint64(id),
		"refund": paid,
	})
	return nil
}

// SweepExpired is admin housekeeping that releases the capacity of
// bookings whose window has elapsed without cancellation. Bookings do
// not expire on their own, so without the sweep the available capacity
// can be understated indefinitely. No refund applies; the booking ran
// its full term. Returns the number of bookings swept.
func (c *CapacityToken) SweepExpired(auth *AdminCapability, now uint64) (int, error) {
	if err := c.enter(); err != nil {
		return 0, err
	}
	defer c.leave()

	count, err := c.bookings.Count()
	if err != nil {
		return 0, err
	}
	swept := 0
	for id := bookings.ID(1); uint64(id) <= count; id++ {
		booking, err := c.bookings.Get(id)
		if err != nil {
			return swept, err
		}
		if !booking.Active || now < booking.EndTime {
			continue
		}
		booking.Active = false
		if err := c.bookings.Set(id, booking); err != nil {
			return swept, err
		}
		if err := c.bookings.SubBooked(booking.CapacityMCF); err != nil {
			return swept, err
		}
		c.record(EvBookingExpired, auth.Address(), map[string]any{
			"id":          uint64(id),
			"capacityMCF": booking.CapacityMCF,
		})
		swept++
	}
	if swept > 0 {
		if err := c.updateUtilization(); err != nil {
			return swept, err
		}
	}
	return swept, nil
}

func (c *CapacityToken) updateUtilization() error {
	util, err := c.bookings.RecomputeUtilization()
	if err != nil {
		return err
	}
	booked, err := c.bookings.TotalBooked()
	if err != nil {
		return err
	}
	c.record(EvUtilizationUpdated, c.Address(), map[string]any{
		"bookedMCF":      booked,
		"utilizationBps": util,
	})
	return nil
}
