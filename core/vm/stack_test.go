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

func word(v uint64) Word { return *new(Word).SetUint64(v) }

func TestStackPushPop(t *testing.T) {
	st := newstack()
	a, b := word(42), word(99)
	st.push(&a)
	st.push(&b)
	require.Equal(t, 2, st.len())

	assert.Equal(t, uint64(99), st.pop().Uint64())
	assert.Equal(t, uint64(42), st.pop().Uint64())
	assert.Equal(t, 0, st.len())
}

func TestStackPeekAndBack(t *testing.T) {
	st := newstack()
	for _, v := range []uint64{10, 20, 30} {
		w := word(v)
		st.push(&w)
	}

	assert.Equal(t, uint64(30), st.peek().Uint64())
	assert.Equal(t, uint64(30), st.Back(0).Uint64())
	assert.Equal(t, uint64(20), st.Back(1).Uint64())
	assert.Equal(t, uint64(10), st.Back(2).Uint64())
}

func TestStackDupIsIndependentCopy(t *testing.T) {
	st := newstack()
	for _, v := range []uint64{10, 20, 30} {
		w := word(v)
		st.push(&w)
	}

	st.dup(2) // duplicate the 2nd from top (20)
	require.Equal(t, 4, st.len())
	assert.Equal(t, uint64(20), st.peek().Uint64())

	st.peek().SetUint64(999)
	assert.Equal(t, uint64(20), st.Back(2).Uint64(), "dup must not alias the original entry")
}

func TestStackSwap(t *testing.T) {
	st := newstack()
	for _, v := range []uint64{1, 2, 3} {
		w := word(v)
		st.push(&w)
	}

	st.swap(2) // swap top (3) with the 2nd item below it (1)
	assert.Equal(t, uint64(1), st.peek().Uint64())
	assert.Equal(t, uint64(3), st.Back(2).Uint64())
}

func TestStackRequireUnderflow(t *testing.T) {
	st := newstack()
	w := word(1)
	st.push(&w)

	assert.NoError(t, st.require(1))
	err := st.require(2)
	require.Error(t, err)
	var underflow *StackUnderflowError
	assert.ErrorAs(t, err, &underflow)
}
