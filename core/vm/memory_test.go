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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryResizeIsIdempotentBelowCurrentSize(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	require.Equal(t, 64, m.Len())

	m.Resize(32)
	assert.Equal(t, 64, m.Len(), "Resize must never shrink")
}

func TestMemorySetAndGetCopy(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	m.Set(0, 4, []byte{1, 2, 3, 4})

	got := m.GetCopy(0, 4)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)

	got[0] = 0xff
	assert.Equal(t, byte(1), m.GetPtr(0, 4)[0], "GetCopy must not alias memory's backing store")
}

func TestMemorySet32LeftPads(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	w := word(1)
	m.Set32(0, &w)

	data := m.Data()
	for i := 0; i < 31; i++ {
		assert.Equal(t, byte(0), data[i])
	}
	assert.Equal(t, byte(1), data[31])
}

func TestMemorySetOutOfBoundsPanics(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	assert.Panics(t, func() {
		m.Set(16, 32, make([]byte, 32))
	})
}

func TestMemoryGetCopyZeroSizeReturnsNil(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	assert.Nil(t, m.GetCopy(0, 0))
}
