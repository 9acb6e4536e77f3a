// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gaslink_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaslink/gaslink/gaslink"
)

func TestAddress(t *testing.T) {
	addr := gaslink.BytesToAddress([]byte("addr"))
	assert.Equal(t, "0x0000000000000000000000000000000061646472", addr.String())
	assert.False(t, addr.IsZero())
	assert.True(t, gaslink.Address{}.IsZero())

	parsed, err := gaslink.ParseAddress(addr.String())
	assert.Nil(t, err)
	assert.Equal(t, addr, parsed)

	_, err = gaslink.ParseAddress("0x1234")
	assert.Error(t, err)
	_, err = gaslink.ParseAddress("zz" + addr.String()[2:])
	assert.Error(t, err)

	data, err := json.Marshal(&addr)
	assert.Nil(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded gaslink.Address
	assert.Nil(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestBytes32(t *testing.T) {
	b32 := gaslink.BytesToBytes32([]byte("key"))
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000000000006b6579", b32.String())
	assert.True(t, gaslink.Bytes32{}.IsZero())

	parsed, err := gaslink.ParseBytes32(b32.String())
	assert.Nil(t, err)
	assert.Equal(t, b32, parsed)

	assert.False(t, gaslink.Keccak256([]byte("key")).IsZero())
}
