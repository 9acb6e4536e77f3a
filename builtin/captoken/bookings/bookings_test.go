// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bookings

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

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(slot.NewContext(gaslink.BytesToAddress([]byte("contract")), state.New(db)))
}

func TestBookingRoundTrip(t *testing.T) {
	svc := newService(t)

	id, err := svc.NextID()
	require.NoError(t, err)
	assert.Equal(t, ID(1), id)

	missing, err := svc.Get(ID(99))
	require.NoError(t, err)
	assert.True(t, missing.IsEmpty())

	booker := gaslink.BytesToAddress([]byte("booker"))
	require.NoError(t, svc.Set(id, &Booking{
		Booker:      booker,
		CapacityMCF: 1000,
		StartTime:   100,
		EndTime:     100 + 10*86400,
		PricePerMCF: big.NewInt(500000),
		Active:      true,
	}))

	loaded, err := svc.Get(id)
	require.NoError(t, err)
	assert.False(t, loaded.IsEmpty())
	assert.Equal(t, booker, loaded.Booker)
	assert.Equal(t, uint64(1000), loaded.CapacityMCF)
	assert.Equal(t, big.NewInt(500000), loaded.PricePerMCF)
	assert.True(t, loaded.Active)

	next, err := svc.NextID()
	require.NoError(t, err)
	assert.Equal(t, ID(2), next)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestUtilization(t *testing.T) {
	svc := newService(t)

	// no ceiling set yet
	rate, err := svc.RecomputeUtilization()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rate)

	require.NoError(t, svc.SetTotalCapacity(50000))
	require.NoError(t, svc.AddBooked(12500))

	rate, err = svc.RecomputeUtilization()
	require.NoError(t, err)
	assert.Equal(t, uint64(2500), rate)

	stored, err := svc.Utilization()
	require.NoError(t, err)
	assert.Equal(t, uint64(2500), stored)

	require.NoError(t, svc.SubBooked(12500))
	rate, err = svc.RecomputeUtilization()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rate)
}
