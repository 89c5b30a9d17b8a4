// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"testing"

	mapset "github.com/deckarep/golang-set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeum/dropvm/common"
)

func newTestFrame(code []byte, dropLimit uint64) *Frame {
	return NewFrame(common.Address{}, common.Address{}, common.Address{}, code, nil, nil, dropLimit, 0, false)
}

func TestUseDropFailsWithoutMutatingOnInsufficientBudget(t *testing.T) {
	f := newTestFrame(nil, 10)
	defer f.Release()

	err := f.UseDrop(11)
	require.Error(t, err)
	var want *NotEnoughDropError
	assert.ErrorAs(t, err, &want)
	assert.Equal(t, uint64(10), f.Drop, "Drop must be unchanged on a failed charge")

	require.NoError(t, f.UseDrop(10))
	assert.Zero(t, f.Drop)
}

func TestRefundAddAndSub(t *testing.T) {
	f := newTestFrame(nil, 100)
	defer f.Release()

	f.RefundAdd(50)
	f.RefundAdd(10)
	assert.Equal(t, uint64(60), f.Refund())

	f.RefundSub(20)
	assert.Equal(t, uint64(40), f.Refund())

	f.RefundSub(1000)
	assert.Zero(t, f.Refund(), "RefundSub must floor at zero")
}

func TestFailConsumesRemainingDropAndClearsRefund(t *testing.T) {
	f := newTestFrame(nil, 100)
	defer f.Release()

	f.RefundAdd(30)
	f.fail()

	assert.Zero(t, f.Drop)
	assert.Zero(t, f.Refund())
	assert.True(t, f.Halted)
}

func TestValidJumpdestFindsOnlyRealDestinations(t *testing.T) {
	code := []byte{
		byte(PUSH1), byte(JUMPDEST), // the JUMPDEST byte here is PUSH1's immediate, not a real dest
		byte(JUMPDEST),
		byte(STOP),
	}
	f := newTestFrame(code, 1000)
	defer f.Release()

	assert.False(t, f.validJumpdest(1), "a PUSH immediate must never count as a jump destination")
	assert.True(t, f.validJumpdest(2))
	assert.False(t, f.validJumpdest(3))
}

func TestGetOpPastEndOfCodeIsStop(t *testing.T) {
	f := newTestFrame([]byte{byte(PUSH1), 1}, 1000)
	defer f.Release()

	assert.Equal(t, STOP, f.GetOp(100))
}

func TestMergeChildFoldsRefundLogsAndTouched(t *testing.T) {
	f := newTestFrame(nil, 1000)
	defer f.Release()

	f.RefundAdd(5)
	target := common.BytesToAddress([]byte{0x09})
	f.Touched.Add(common.BytesToAddress([]byte{0x01}))

	childTouched := mapset.NewSet()
	childTouched.Add(target)
	childResult := &CallResult{Refund: 25, Logs: []LogRecord{{Address: target}}, Touched: childTouched}
	f.mergeChild(childResult)

	assert.Equal(t, uint64(30), f.Refund(), "parent refund must accumulate the child's credit")
	require.Len(t, f.Logs, 1)
	assert.Equal(t, target, f.Logs[0].Address)
	assert.True(t, f.Touched.Contains(target), "parent touched set must gain the child's entries")
	assert.True(t, f.Touched.Contains(common.BytesToAddress([]byte{0x01})), "merging must not drop the parent's own touched set")
}
