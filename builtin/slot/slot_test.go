// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/lvldb"
	"github.com/gaslink/gaslink/state"
)

func newContext(t *testing.T) *slot.Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return slot.NewContext(gaslink.BytesToAddress([]byte("contract")), state.New(db))
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := slot.NewUint256(ctx, gaslink.BytesToBytes32([]byte("counter")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Set(big.NewInt(100)))
	require.NoError(t, u.Add(big.NewInt(20)))
	require.NoError(t, u.Sub(big.NewInt(50)))

	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(70), v)
}

func TestBool(t *testing.T) {
	ctx := newContext(t)
	b := slot.NewBool(ctx, gaslink.BytesToBytes32([]byte("flag")))

	v, err := b.Get()
	require.NoError(t, err)
	assert.False(t, v)

	require.NoError(t, b.Set(true))
	v, err = b.Get()
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, b.Set(false))
	v, err = b.Get()
	require.NoError(t, err)
	assert.False(t, v)
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	a := slot.NewAddress(ctx, gaslink.BytesToBytes32([]byte("admin")))

	v, err := a.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	admin := gaslink.BytesToAddress([]byte("boss"))
	require.NoError(t, a.Set(admin))
	v, err = a.Get()
	require.NoError(t, err)
	assert.Equal(t, admin, v)
}

type record struct {
	Amount *big.Int
	Expiry uint64
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := slot.NewMapping[gaslink.Address, *record](ctx, gaslink.BytesToBytes32([]byte("records")))

	addr := gaslink.BytesToAddress([]byte("a1"))

	// missing entries decode to zero values
	r, err := m.Get(addr)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Nil(t, r.Amount)

	require.NoError(t, m.Set(addr, &record{Amount: big.NewInt(5), Expiry: 99}))
	r, err = m.Get(addr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), r.Amount)
	assert.Equal(t, uint64(99), r.Expiry)

	// entries with distinct keys live in distinct slots
	other, err := m.Get(gaslink.BytesToAddress([]byte("a2")))
	require.NoError(t, err)
	assert.Nil(t, other.Amount)
}
