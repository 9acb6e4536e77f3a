// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	revert := New("insufficient balance")
	assert.Equal(t, "insufficient balance", revert.Error())

	assert.True(t, IsRevertErr(revert))
	assert.True(t, IsRevertErr(errors.Wrap(revert, "transfer")))
	assert.True(t, IsRevertErr(fmt.Errorf("op: %w", revert)))

	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(errors.New("io failure")))
	assert.False(t, IsRevertErr("not an error"))
}
