// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package captoken

import (
	"math/big"

	"github.com/gaslink/gaslink/gaslink"
)

// AdminCapability witnesses a successful admin check. Privileged
// operations take it as a parameter so a call site cannot reach them
// without going through RequireAdmin first.
type AdminCapability struct {
	addr gaslink.Address
}

// Address returns the admin identity the capability was issued for.
func (a *AdminCapability) Address() gaslink.Address {
	return a.addr
}

// Admin returns the contract's admin identity.
func (c *CapacityToken) Admin() (gaslink.Address, error) {
	return c.admin.Get()
}

// RequireAdmin checks the caller against the stored admin identity and
// issues a capability for privileged operations.
func (c *CapacityToken) RequireAdmin(caller gaslink.Address) (*AdminCapability, error) {
	admin, err := c.admin.Get()
	if err != nil {
		return nil, err
	}
	if caller != admin || admin.IsZero() {
		return nil, ErrNotAdmin
	}
	return &AdminCapability{addr: caller}, nil
}

// SetBasePrice updates the per-MCF per-day booking price. Existing
// bookings keep the price captured when they were created.
func (c *CapacityToken) SetBasePrice(auth *AdminCapability, price *big.Int) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if price == nil || price.Sign() <= 0 {
		return ErrInvalidAmount
	}
	old, err := c.bookings.BasePrice()
	if err != nil {
		return err
	}
	if err := c.bookings.SetBasePrice(price); err != nil {
		return err
	}

	c.record(EvPriceUpdated, auth.Address(), map[string]any{
		"oldPrice": old,
		"newPrice": price,
	})
	return nil
}

// ResizeCapacity changes the total capacity ceiling. Shrinking below
// the currently booked capacity is rejected.
func (c *CapacityToken) ResizeCapacity(auth *AdminCapability, capacityMCF uint64) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	booked, err := c.bookings.TotalBooked()
	if err != nil {
		return err
	}
	if capacityMCF < booked {
		return ErrBelowBooked
	}
	old, err := c.bookings.TotalCapacity()
	if err != nil {
		return err
	}
	if err := c.bookings.SetTotalCapacity(capacityMCF); err != nil {
		return err
	}
	if err := c.updateUtilization(); err != nil {
		return err
	}

	c.record(EvCapacityUpdated, auth.Address(), map[string]any{
		"oldCapacityMCF": old,
		"newCapacityMCF": capacityMCF,
	})
	return nil
}

// SetBlacklisted adds or removes an account from the blacklist.
func (c *CapacityToken) SetBlacklisted(auth *AdminCapability, addr gaslink.Address, listed bool) error {
	if err := c.compliance.SetBlacklisted(addr, listed); err != nil {
		return err
	}
	c.record(EvBlacklistUpdated, auth.Address(), map[string]any{
		"account": addr,
		"listed":  listed,
	})
	return nil
}

// SetWhitelisted adds or removes an account from the whitelist.
func (c *CapacityToken) SetWhitelisted(auth *AdminCapability, addr gaslink.Address, listed bool) error {
	if err := c.compliance.SetWhitelisted(addr, listed); err != nil {
		return err
	}
	c.record(EvWhitelistUpdated, auth.Address(), map[string]any{
		"account": addr,
		"listed":  listed,
	})
	return nil
}

// SetTransferRestricted toggles restricted transfer mode.
func (c *CapacityToken) SetTransferRestricted(auth *AdminCapability, restricted bool) error {
	if err := c.compliance.SetTransferRestricted(restricted); err != nil {
		return err
	}
	c.record(EvRestrictionUpdated, auth.Address(), map[string]any{
		"restricted": restricted,
	})
	return nil
}

// EmergencyWithdraw sweeps funding-asset holdings to the admin. This is
// a full custodial override with no guardrail beyond the admin check;
// it can drain collateral backing unclaimed rewards and refunds.
func (c *CapacityToken) EmergencyWithdraw(auth *AdminCapability, amount *big.Int) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := c.gateway.Pay(auth.Address(), amount); err != nil {
		return err
	}

	c.record(EvEmergencyWithdrawal, auth.Address(), map[string]any{
		"amount": amount,
	})
	return nil
}
