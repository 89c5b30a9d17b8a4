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
	"sync"

	"github.com/holiman/uint256"
)

// Word is the universal 256-bit stack/storage element.
type Word = uint256.Int

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{data: make([]Word, 0, 16)}
	},
}

// Stack is the EVM-style operand stack: a LIFO of Words, bounded at
// params.StackLimit entries.
type Stack struct {
	data []Word
}

func newstack() *Stack {
	return stackPool.Get().(*Stack)
}

func returnStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

func (st *Stack) Data() []Word { return st.data }

func (st *Stack) push(d *Word) {
	st.data = append(st.data, *d)
}

func (st *Stack) pop() (ret Word) {
	ret = st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return
}

func (st *Stack) len() int { return len(st.data) }

// swap exchanges the top of stack with the item n positions below it
// (SWAP1 swaps top with the 2nd entry).
func (st *Stack) swap(n int) {
	top := len(st.data) - 1
	st.data[top], st.data[top-n] = st.data[top-n], st.data[top]
}

// dup pushes an independent copy of the n-th item from the top
// (1-indexed: dup(1) duplicates the current top).
func (st *Stack) dup(n int) {
	st.push(&st.data[len(st.data)-n])
}

// peek returns the top item without popping it.
func (st *Stack) peek() *Word {
	return &st.data[len(st.data)-1]
}

// Back returns the n-th item from the top without removing it; Back(0)
// is the current top.
func (st *Stack) Back(n int) *Word {
	return &st.data[len(st.data)-1-n]
}

func (st *Stack) require(n int) error {
	if st.len() < n {
		return &StackUnderflowError{StackLen: st.len(), Required: n}
	}
	return nil
}
