// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"math/big"

	"github.com/gaslink/gaslink/gaslink"
)

// Uint256 is a wrapper for storage and retrieval of an unsigned integer,
// similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     gaslink.Bytes32
}

func NewUint256(context *Context, pos gaslink.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	value := new(big.Int)
	if err := u.context.state.GetStructured(u.context.address, u.pos, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (u *Uint256) Set(value *big.Int) error {
	return u.context.state.SetStructured(u.context.address, u.pos, value)
}

func (u *Uint256) Add(value *big.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	current.Add(current, value)
	return u.Set(current)
}

func (u *Uint256) Sub(value *big.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	current.Sub(current, value)
	return u.Set(current)
}
