// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gaslink

import "math/big"

// Constants of the capacity token platform.
const (
	// TokenDecimals fractional digits of the capacity token.
	TokenDecimals = 18
	// FundingDecimals fractional digits of the funding asset used for
	// booking payments and staking rewards.
	FundingDecimals = 6

	// MinLockDays minimum staking lock period in days.
	MinLockDays uint32 = 7
	// MaxLockDays maximum staking lock period in days. Bounding the lock
	// keeps now + lockDays*SecondsPerDay within uint64 range.
	MaxLockDays uint32 = 3650
	// MaxBookingDays maximum booking duration in days, bounding the
	// booking end time the same way.
	MaxBookingDays uint64 = 3650
	// SecondsPerDay used to convert day-denominated durations.
	SecondsPerDay uint64 = 86400

	// BasisPoints denominator for utilization and penalty rates.
	BasisPoints uint64 = 10000
	// CancellationPenaltyBps flat penalty applied to pro-rated booking refunds.
	CancellationPenaltyBps uint64 = 1000

	// CapacityPerToken MCF of pipeline capacity one whole token entitles
	// its holder to book.
	CapacityPerToken uint64 = 100
)

var (
	// TokenUnit amount of one whole capacity token.
	TokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)
	// FundingUnit amount of one whole funding asset unit.
	FundingUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(FundingDecimals), nil)
	// RewardPrecision scale factor of the cumulative reward-per-share accumulator.
	RewardPrecision = new(big.Int).Exp(big.NewInt(10), big.NewInt(12), nil)
)
