// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaslink/gaslink/api"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/genesis"
	"github.com/gaslink/gaslink/logdb"
	"github.com/gaslink/gaslink/lvldb"
	"github.com/gaslink/gaslink/runtime"
	"github.com/gaslink/gaslink/state"
)

var (
	admin = gaslink.BytesToAddress([]byte("admin"))
	alice = gaslink.BytesToAddress([]byte("alice"))
)

type manualClock struct {
	now uint64
}

func (c *manualClock) Now() uint64 {
	return c.now
}

func newServer(t *testing.T) (*httptest.Server, *runtime.Runtime, *manualClock) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logs, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(logs.Close)

	st := state.New(db)
	cfg := &genesis.Config{
		Admin:       admin.String(),
		TotalSupply: "1000000000000000000000000",
		CapacityMCF: 100_000,
		BasePrice:   "500000",
		Funding: []genesis.Allocation{
			{Address: admin.String(), Amount: "1000000000000", Preapprove: true},
			{Address: alice.String(), Amount: "1000000000000", Preapprove: true},
		},
	}
	require.NoError(t, genesis.Build(st, cfg))

	clock := &manualClock{now: 1_700_000_000}
	rt := runtime.New(st, logs, clock)
	require.NoError(t, rt.Transfer(admin, alice, new(big.Int).Set(gaslink.TokenUnit)))

	srv := httptest.NewServer(api.New(rt, logs, api.Options{
		AllowedOrigins: "*",
		LogsLimit:      100,
	}))
	t.Cleanup(srv.Close)
	return srv, rt, clock
}

func httpGet(t *testing.T, url string, out any) int {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func httpPost(t *testing.T, url string, body any, out any) int {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestTokenEndpoints(t *testing.T) {
	srv, _, _ := newServer(t)

	var supply map[string]string
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/token/supply", &supply))
	assert.NotEmpty(t, supply["totalSupply"])

	var bal map[string]any
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/token/balances/"+alice.String(), &bal))
	assert.Equal(t, float64(100), bal["entitlementMCF"])

	assert.Equal(t, http.StatusBadRequest, httpGet(t, srv.URL+"/token/balances/nonsense", nil))

	code := httpPost(t, srv.URL+"/token/transfers", map[string]any{
		"from":   alice.String(),
		"to":     admin.String(),
		"amount": "0x1",
	}, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestStakingEndpoints(t *testing.T) {
	srv, _, _ := newServer(t)

	code := httpPost(t, srv.URL+"/staking/stakes", map[string]any{
		"staker":   alice.String(),
		"amount":   "0x3e8",
		"lockDays": 7,
	}, nil)
	require.Equal(t, http.StatusOK, code)

	// Lock below the minimum is a caller-fixable rejection.
	code = httpPost(t, srv.URL+"/staking/stakes", map[string]any{
		"staker":   alice.String(),
		"amount":   "0x3e8",
		"lockDays": 3,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var stake map[string]any
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/staking/stakes/"+alice.String(), &stake))
	assert.Equal(t, "0x3e8", stake["amount"])

	code = httpPost(t, srv.URL+"/staking/revenue", map[string]any{
		"from":   admin.String(),
		"amount": "0x64",
	}, nil)
	require.Equal(t, http.StatusOK, code)

	var stats map[string]any
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/staking/stats", &stats))
	assert.Equal(t, "0x64", stats["pendingRevenue"])

	code = httpPost(t, srv.URL+"/staking/claims", map[string]any{
		"staker": alice.String(),
	}, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestBookingEndpoints(t *testing.T) {
	srv, _, clock := newServer(t)

	var created map[string]uint64
	code := httpPost(t, srv.URL+"/bookings", map[string]any{
		"booker":       alice.String(),
		"capacityMCF":  100,
		"durationDays": 10,
	}, &created)
	require.Equal(t, http.StatusOK, code)
	id := created["id"]
	require.NotZero(t, id)

	var booking map[string]any
	require.Equal(t, http.StatusOK, httpGet(t, fmt.Sprintf("%s/bookings/%d", srv.URL, id), &booking))
	assert.Equal(t, true, booking["active"])

	assert.Equal(t, http.StatusNotFound, httpGet(t, srv.URL+"/bookings/999", nil))

	var list []map[string]any
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/bookings?active=true", &list))
	assert.Len(t, list, 1)

	var stats map[string]any
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/bookings/stats", &stats))
	assert.Equal(t, float64(100), stats["bookedMCF"])

	clock.now += 4 * gaslink.SecondsPerDay
	code = httpPost(t, fmt.Sprintf("%s/bookings/%d/cancel", srv.URL, id), map[string]any{
		"caller": alice.String(),
	}, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminEndpoints(t *testing.T) {
	srv, _, _ := newServer(t)

	// Non-admin callers are rejected with 403.
	code := httpPost(t, srv.URL+"/admin/price", map[string]any{
		"caller": alice.String(),
		"price":  "0x1",
	}, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code = httpPost(t, srv.URL+"/admin/price", map[string]any{
		"caller": admin.String(),
		"price":  "0xf4240",
	}, nil)
	require.Equal(t, http.StatusOK, code)

	code = httpPost(t, srv.URL+"/admin/restriction", map[string]any{
		"caller":     admin.String(),
		"restricted": true,
	}, nil)
	require.Equal(t, http.StatusOK, code)

	// With restriction on, a peer-to-peer transfer is forbidden.
	code = httpPost(t, srv.URL+"/token/transfers", map[string]any{
		"from":   alice.String(),
		"to":     admin.String(),
		"amount": "0x1",
	}, nil)
	assert.Equal(t, http.StatusForbidden, code)

	var who map[string]string
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/admin", &who))
	assert.Equal(t, admin.String(), who["admin"])
}

func TestEventsEndpoint(t *testing.T) {
	srv, _, _ := newServer(t)

	code := httpPost(t, srv.URL+"/staking/stakes", map[string]any{
		"staker":   alice.String(),
		"amount":   "0x3e8",
		"lockDays": 7,
	}, nil)
	require.Equal(t, http.StatusOK, code)

	var events []map[string]any
	code = httpPost(t, srv.URL+"/events", map[string]any{
		"name": "Staked",
	}, &events)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, events, 1)
	assert.Equal(t, alice.String(), events[0]["origin"])

	// Limit above the configured maximum is rejected.
	code = httpPost(t, srv.URL+"/events", map[string]any{
		"options": map[string]any{"limit": 1000},
	}, nil)
	assert.Equal(t, http.StatusForbidden, code)
}
