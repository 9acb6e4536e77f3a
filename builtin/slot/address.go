// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"github.com/gaslink/gaslink/gaslink"
)

// Address is a wrapper for storage and retrieval of an address, similar to
// storing an address in a smart contract.
type Address struct {
	context *Context
	pos     gaslink.Bytes32
}

func NewAddress(context *Context, pos gaslink.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (gaslink.Address, error) {
	var addr gaslink.Address
	if err := a.context.state.GetStructured(a.context.address, a.pos, &addr); err != nil {
		return gaslink.Address{}, err
	}
	return addr, nil
}

func (a *Address) Set(addr gaslink.Address) error {
	return a.context.state.SetStructured(a.context.address, a.pos, addr)
}
