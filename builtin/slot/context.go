// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/state"
)

// Context binds a built-in contract's storage helpers to its address and the world state.
type Context struct {
	address gaslink.Address
	state   *state.State
}

func NewContext(address gaslink.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() gaslink.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
