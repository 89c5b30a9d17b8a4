// Copyright 2015 The go-probeum Authors
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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeum/dropvm/common"
	"github.com/probeum/dropvm/params"
)

func TestToWordSizeRoundsUp(t *testing.T) {
	assert.Equal(t, uint64(0), toWordSize(0))
	assert.Equal(t, uint64(1), toWordSize(1))
	assert.Equal(t, uint64(1), toWordSize(32))
	assert.Equal(t, uint64(2), toWordSize(33))
}

func TestMemExpNoGrowthIsFree(t *testing.T) {
	newSize, cost, err := memExp(64, 32, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(64), newSize)
	assert.Zero(t, cost)
}

func TestMemExpChargesQuadraticGrowth(t *testing.T) {
	newSize, cost, err := memExp(0, 32, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(32), newSize)
	assert.Equal(t, params.MemoryDrop*uint64(1)+uint64(1)/params.QuadCoeffDiv, cost)
}

func TestMemExpOverflowRejected(t *testing.T) {
	_, _, err := memExp(0, uint64(1)<<31, 0)
	assert.ErrorIs(t, err, ErrMemoryOverflow)
}

func TestNeedZeroSizeNeverExpands(t *testing.T) {
	hugeOffset := new(Word).SetAllOne()
	zero := new(Word)
	n, overflow := need(hugeOffset, zero)
	assert.False(t, overflow)
	assert.Zero(t, n)
}

func TestNeedOverflowDetected(t *testing.T) {
	max := new(Word).SetAllOne()
	one := word(1)
	_, overflow := need(max, &one)
	assert.True(t, overflow)
}

func TestCallGasAppliesReserveDivisor(t *testing.T) {
	requested := new(Word).SetAllOne() // request everything available
	got := callGas(6400, 0, requested)
	assert.Equal(t, uint64(6400)-uint64(6400)/params.CallGasReserveDivisor, got)
}

func TestCallGasCapsAtRequestedWhenSmaller(t *testing.T) {
	requested := word(100)
	got := callGas(6400, 0, &requested)
	assert.Equal(t, uint64(100), got)
}

func TestCallGasZeroWhenBaseExceedsAvailable(t *testing.T) {
	requested := word(100)
	assert.Zero(t, callGas(50, 100, &requested))
}

func TestBytesOccupied(t *testing.T) {
	assert.Equal(t, 0, bytesOccupied(new(Word)))
	assert.Equal(t, 1, bytesOccupied(new(Word).SetUint64(1)))
	assert.Equal(t, 2, bytesOccupied(new(Word).SetUint64(256)))
}

func TestChargeMemoryGrowsAndCharges(t *testing.T) {
	f := NewFrame(common.Address{}, common.Address{}, common.Address{}, nil, nil, nil, 1_000_000, 0, false)
	defer f.Release()

	offset, size := new(Word), new(Word).SetUint64(32)
	require.NoError(t, f.chargeMemory(offset, size, false))
	assert.Equal(t, 32, f.Memory.Len())
	assert.Less(t, f.Drop, uint64(1_000_000))
}
