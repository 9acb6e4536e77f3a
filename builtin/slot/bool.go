// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"math/big"

	"github.com/gaslink/gaslink/gaslink"
)

// Bool is a wrapper for storage and retrieval of a boolean flag,
// stored as 0/1 in its slot.
type Bool struct {
	inner *Uint256
}

func NewBool(context *Context, pos gaslink.Bytes32) *Bool {
	return &Bool{inner: NewUint256(context, pos)}
}

func (b *Bool) Get() (bool, error) {
	v, err := b.inner.Get()
	if err != nil {
		return false, err
	}
	return v.Sign() != 0, nil
}

func (b *Bool) Set(value bool) error {
	if value {
		return b.inner.Set(big.NewInt(1))
	}
	return b.inner.Set(new(big.Int))
}
