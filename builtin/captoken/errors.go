// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package captoken

import (
	"github.com/gaslink/gaslink/builtin/reverts"
)

var (
	ErrInvalidAmount          = reverts.New("invalid amount")
	ErrLockTooShort           = reverts.New("lock period too short")
	ErrLockTooLong            = reverts.New("lock period too long")
	ErrInsufficientStake      = reverts.New("insufficient stake")
	ErrStillLocked            = reverts.New("stake still locked")
	ErrNoRewards              = reverts.New("no rewards to claim")
	ErrInvalidCapacity        = reverts.New("invalid capacity")
	ErrInvalidDuration        = reverts.New("invalid duration")
	ErrCapacityExceeded       = reverts.New("capacity exceeded")
	ErrInsufficientCollateral = reverts.New("insufficient collateral")
	ErrNotOwner               = reverts.New("not booking owner")
	ErrNotActive              = reverts.New("booking not active")
	ErrExpired                = reverts.New("booking expired")
	ErrBelowBooked            = reverts.New("capacity below booked")
	ErrNotAdmin               = reverts.New("not admin")
	ErrReentrancy             = reverts.New("reentrant call")
)
