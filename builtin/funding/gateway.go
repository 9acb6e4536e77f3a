// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package funding

import (
	"math/big"

	"github.com/gaslink/gaslink/gaslink"
)

// Gateway adapts the funding token to the narrow payment surface the capacity
// token contract consumes. The holder is the contract's own address: Collect
// pulls approved funds from a payer into the holder, Pay moves the holder's
// funds out.
type Gateway struct {
	token  *Token
	holder gaslink.Address
}

// NewGateway create a gateway on behalf of the holder.
func NewGateway(token *Token, holder gaslink.Address) *Gateway {
	return &Gateway{token: token, holder: holder}
}

// Balance returns the holder's funding balance.
func (g *Gateway) Balance() (*big.Int, error) {
	return g.token.BalanceOf(g.holder)
}

// Collect pulls amount from the payer into the holder, consuming allowance.
func (g *Gateway) Collect(payer gaslink.Address, amount *big.Int) error {
	return g.token.TransferFrom(g.holder, payer, g.holder, amount)
}

// Pay moves amount of the holder's funds to the recipient.
func (g *Gateway) Pay(recipient gaslink.Address, amount *big.Int) error {
	return g.token.Transfer(g.holder, recipient, amount)
}
