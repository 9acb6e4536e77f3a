// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin hosts the native contracts and their well-known
// addresses.
package builtin

import (
	"github.com/gaslink/gaslink/builtin/captoken"
	"github.com/gaslink/gaslink/builtin/funding"
	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/state"
)

// Well-known contract addresses.
var (
	CapacityTokenAddress = gaslink.BytesToAddress([]byte("capacity-token"))
	FundingTokenAddress  = gaslink.BytesToAddress([]byte("funding-token"))
)

// NewFundingToken binds the funding-asset contract to the given state.
func NewFundingToken(st *state.State) *funding.Token {
	return funding.New(FundingTokenAddress, st)
}

// NewCapacityToken binds the capacity token contract to the given
// state, wiring its payment gateway to the funding-asset contract.
// A nil recorder discards events.
func NewCapacityToken(st *state.State, recorder captoken.Recorder) *captoken.CapacityToken {
	sctx := slot.NewContext(CapacityTokenAddress, st)
	gateway := funding.NewGateway(NewFundingToken(st), CapacityTokenAddress)
	return captoken.New(sctx, gateway, recorder)
}
