// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package captoken

import (
	"github.com/gaslink/gaslink/gaslink"
)

// Event names emitted by the capacity token contract.
const (
	EvTransfer            = "Transfer"
	EvStaked              = "Staked"
	EvUnstaked            = "Unstaked"
	EvRewardsClaimed      = "RewardsClaimed"
	EvRevenueDeposited    = "RevenueDeposited"
	EvRevenueDistributed  = "RevenueDistributed"
	EvBookingCreated      = "BookingCreated"
	EvBookingCancelled    = "BookingCancelled"
	EvBookingExpired      = "BookingExpired"
	EvPriceUpdated        = "PriceUpdated"
	EvCapacityUpdated     = "CapacityUpdated"
	EvUtilizationUpdated  = "UtilizationUpdated"
	EvBlacklistUpdated    = "BlacklistUpdated"
	EvWhitelistUpdated    = "WhitelistUpdated"
	EvRestrictionUpdated  = "RestrictionUpdated"
	EvEmergencyWithdrawal = "EmergencyWithdrawal"
)

// Event is a record of a committed state transition, handed to the
// Recorder for external observers and indexers.
type Event struct {
	Name   string
	Origin gaslink.Address
	Data   map[string]any
}

// Recorder receives events as operations emit them. Events for an
// operation that ultimately reverts must be discarded by the caller.
type Recorder interface {
	Record(ev *Event)
}

func (c *CapacityToken) record(name string, origin gaslink.Address, data map[string]any) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(&Event{Name: name, Origin: origin, Data: data})
}
