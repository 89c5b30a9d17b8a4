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

// Package params names every drop (gas) constant the interpreter's
// pricing code references. Kept separate from core/vm so alternate
// schedules can be swapped in without touching the interpreter.
package params

const (
	// Tier step costs.
	Zero     uint64 = 0
	Base     uint64 = 2
	VeryLow  uint64 = 3
	Low      uint64 = 5
	Mid      uint64 = 8
	High     uint64 = 10
	Ext      uint64 = 20
	Special  uint64 = 1

	StopDrop    uint64 = 0
	SuicideDrop uint64 = 5000

	SstoreSetDrop   uint64 = 20000
	SstoreResetDrop uint64 = 5000
	SstoreClearDrop uint64 = 5000
	RefundSstore    uint64 = 15000

	SloadDrop   uint64 = 50
	BalanceDrop uint64 = 400

	CallDrop         uint64 = 40
	NewAcctCallDrop  uint64 = 25000
	VtCallDrop       uint64 = 9000
	StipendCallDrop  uint64 = 2300
	CreateDrop       uint64 = 32000

	Sha3Drop     uint64 = 30
	Sha3WordDrop uint64 = 6

	ExpDrop     uint64 = 10
	ExpByteDrop uint64 = 10

	LogDrop      uint64 = 375
	LogTopicDrop uint64 = 375
	LogDataDrop  uint64 = 8

	ExtCodeSizeDrop uint64 = 700
	ExtCodeCopyDrop uint64 = 700

	MemoryDrop uint64 = 3
	CopyDrop   uint64 = 3

	// QuadCoeffDiv is the divisor of the quadratic memory-expansion term.
	QuadCoeffDiv uint64 = 512

	// CallCreateDepth bounds nested CALL/CREATE frames.
	CallCreateDepth uint64 = 1024

	// StackLimit bounds the operand stack.
	StackLimit = 1024

	// CallGasReserveDivisor reserves 1/64th of remaining drops for the
	// caller to keep, passing the rest to a CALL/CREATE sub-frame.
	CallGasReserveDivisor uint64 = 64

	// MaxCodeSize bounds CREATE's returned init-code / deployed-code size.
	MaxCodeSize = 24576
)
