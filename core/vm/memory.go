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

// Memory is the frame's byte-addressable, zero-initialized volatile
// scratch space. It only ever grows, in whole 32-byte words.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

func NewMemory() *Memory {
	return &Memory{}
}

// Set writes value into the memory at offset. It never grows memory: it
// panics if [offset, offset+size) runs past the current length, so
// callers must have already paid for and performed the expansion.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		panic("memory: write out of bounds")
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes a 32-byte word at offset, left-padding with zero if the
// word's significant bytes are fewer than 32.
func (m *Memory) Set32(offset uint64, val *Word) {
	if offset+32 > uint64(len(m.store)) {
		panic("memory: write out of bounds")
	}
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

// Resize grows the memory to size bytes (size must already be a multiple
// of 32; callers compute this via memExp before calling Resize).
func (m *Memory) Resize(size uint64) {
	if uint64(m.Len()) < size {
		grown := make([]byte, size)
		copy(grown, m.store)
		m.store = grown
	}
}

// GetCopy returns an independent copy of memory[offset:offset+size].
func (m *Memory) GetCopy(offset, size int64) (cpy []byte) {
	if size == 0 {
		return nil
	}
	if int64(len(m.store)) > offset {
		cpy = make([]byte, size)
		copy(cpy, m.store[offset:offset+size])
		return
	}
	return
}

// GetPtr returns a slice view into memory[offset:offset+size] (no copy).
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if int64(len(m.store)) > offset {
		return m.store[offset : offset+size]
	}
	return nil
}

// Len returns the current byte length of memory (always a multiple of 32
// in a well-formed frame).
func (m *Memory) Len() int { return len(m.store) }

// Data returns the underlying byte slice. Callers must not retain it
// past the next mutating call.
func (m *Memory) Data() []byte { return m.store }
