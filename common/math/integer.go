// Copyright 2016 The go-probeum Authors
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

// Package math holds overflow-checked uint64 arithmetic used throughout
// the drop-accounting pricing code.
package math

import "math"

const (
	MaxUint64 = 1<<64 - 1
)

// SafeAdd returns a+b and a bool reporting whether the addition overflowed.
func SafeAdd(a, b uint64) (uint64, bool) {
	if a > MaxUint64-b {
		return 0, true
	}
	return a + b, false
}

// SafeMul returns a*b and a bool reporting whether the multiplication
// overflowed.
func SafeMul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	if a > MaxUint64/b {
		return 0, true
	}
	return a * b, false
}

// BigMax returns the larger of a and b.
func BigMax(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// FitsInt31 reports whether v fits the int32 range used by the
// memory-expansion bound in spec (2^31-1).
func FitsInt31(v uint64) bool {
	return v <= math.MaxInt32
}
