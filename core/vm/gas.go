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
	"github.com/probeum/dropvm/common"
	"github.com/probeum/dropvm/common/math"
	"github.com/probeum/dropvm/params"
)

// toWordSize rounds size up to the next multiple of 32, in words.
func toWordSize(size uint64) uint64 {
	if size > MaxUint64-31 {
		return MaxUint64/32 + 1
	}
	return (size + 31) / 32
}

const MaxUint64 = ^uint64(0)

// memExp implements the closed-form memory-expansion cost. old and
// newNeed are both byte counts; newNeed may exceed the current
// words-based memory size. copySize, when non-zero, adds the linear
// COPY_GAS term for *COPY opcodes.
func memExp(old uint64, newNeed uint64, copySize uint64) (newSize uint64, cost uint64, err error) {
	if newNeed == 0 {
		return old, 0, nil
	}
	if newNeed > uint64(1)<<31-1 {
		return 0, 0, ErrMemoryOverflow
	}
	newSize = toWordSize(newNeed) * 32
	if newSize > old {
		w := newSize / 32
		wOld := old / 32
		quad := func(words uint64) uint64 {
			return params.MemoryDrop*words + (words*words)/params.QuadCoeffDiv
		}
		cost = quad(w) - quad(wOld)
	} else {
		newSize = old
	}
	if copySize > 0 {
		words := toWordSize(copySize)
		c, overflow := math.SafeMul(words, params.CopyDrop)
		if overflow {
			return 0, 0, ErrMemoryOverflow
		}
		cost += c
	}
	return newSize, cost, nil
}

// need computes offset+size: 0 if size == 0, else
// offset+size computed without truncating to 64 bits prematurely (an
// attacker-controlled huge offset with size 0 must not trigger
// expansion, and offset+size must be checked against the int31 bound
// before truncation).
func need(offset, size *Word) (uint64, bool) {
	if size.IsZero() {
		return 0, false
	}
	sum := new(Word)
	overflow := sum.AddOverflow(offset, size)
	if overflow || !sum.IsUint64() {
		return 0, true
	}
	return sum.Uint64(), false
}

// chargeMemory prices and (if the frame has enough drops) performs the
// memory expansion needed to cover [offset, offset+size): compute and
// charge before mutating memory. When withCopyCost is set, size itself
// (not offset+size) also pays the linear per-word COPY_GAS term for
// the *COPY family.
func (f *Frame) chargeMemory(offset, size *Word, withCopyCost bool) error {
	n, overflow := need(offset, size)
	if overflow {
		return ErrMemoryOverflow
	}
	var copySize uint64
	if withCopyCost {
		if !size.IsUint64() {
			return ErrMemoryOverflow
		}
		copySize = size.Uint64()
	}
	newSize, cost, err := memExp(uint64(f.Memory.Len()), n, copySize)
	if err != nil {
		return err
	}
	if err := f.UseDrop(cost); err != nil {
		return err
	}
	f.Memory.Resize(newSize)
	return nil
}

// chargeMemoryRange is chargeMemory without a *Word offset: used where
// the new size is already a concrete byte count (e.g. combining two
// independent windows, as CALL's args+return windows require).
func (f *Frame) chargeMemoryRange(needed uint64) error {
	newSize, cost, err := memExp(uint64(f.Memory.Len()), needed, 0)
	if err != nil {
		return err
	}
	if err := f.UseDrop(cost); err != nil {
		return err
	}
	f.Memory.Resize(newSize)
	return nil
}

// callGas computes the adjusted call-drop handed to a CALL-family
// sub-frame: min(requested, remaining * 63/64), with a stipend if
// value is transferred (added by the caller after this returns).
func callGas(availableDrop uint64, base uint64, requested *Word) uint64 {
	if availableDrop < base {
		return 0
	}
	available := availableDrop - base
	reserved := available / params.CallGasReserveDivisor
	capDrop := available - reserved
	if !requested.IsUint64() || requested.Uint64() > capDrop {
		return capDrop
	}
	return requested.Uint64()
}

func leadingZeroBytes(w *Word) int {
	b := w.Bytes32()
	n := 0
	for _, c := range b {
		if c != 0 {
			break
		}
		n++
	}
	return n
}

// bytesOccupied returns 0 for a zero word, otherwise the count of
// significant bytes.
func bytesOccupied(w *Word) int { return 32 - leadingZeroBytes(w) }

func gasExp(stack *Stack) uint64 {
	exponent := stack.Back(1)
	return params.ExpDrop + uint64(bytesOccupied(exponent))*params.ExpByteDrop
}

// dynGasExp prices EXP: a base plus a per-significant-byte term on the
// exponent (so 2**0 is cheap, 2**(2**255) is not).
func dynGasExp(in *Interpreter, frame *Frame, stack *Stack) error {
	return frame.UseDrop(gasExp(stack))
}

// dynGasSha3 prices SHA3: memory expansion for [offset,offset+size) plus
// SHA3_WORD per 32-byte word of the hashed range.
func dynGasSha3(in *Interpreter, frame *Frame, stack *Stack) error {
	offset, size := stack.Back(0), stack.Back(1)
	if err := frame.chargeMemory(offset, size, false); err != nil {
		return err
	}
	if !size.IsUint64() {
		return ErrMemoryOverflow
	}
	words := toWordSize(size.Uint64())
	cost, overflow := math.SafeMul(words, params.Sha3WordDrop)
	if overflow {
		return ErrMemoryOverflow
	}
	return frame.UseDrop(cost)
}

// dynGasCopy builds the dynamicGas for the *COPY family: memory expansion
// for [dest, dest+size) plus the linear per-word COPY_GAS term, where
// destIdx/sizeIdx index the destination offset and length among the
// opcode's not-yet-popped stack operands (the Back(k) convention).
func dynGasCopy(destIdx, sizeIdx int) dynamicGasFunc {
	return func(in *Interpreter, frame *Frame, stack *Stack) error {
		dest, size := stack.Back(destIdx), stack.Back(sizeIdx)
		return frame.chargeMemory(dest, size, true)
	}
}

// dynGasMemWord builds the dynamicGas for MLOAD/MSTORE/MSTORE8: memory
// expansion to cover a fixed-width word at an operand offset, with no
// linear copy term.
func dynGasMemWord(offIdx int, width uint64) dynamicGasFunc {
	return func(in *Interpreter, frame *Frame, stack *Stack) error {
		offset := stack.Back(offIdx)
		w := new(Word).SetUint64(width)
		return frame.chargeMemory(offset, w, false)
	}
}

// dynGasSstore prices SSTORE's set/reset/clear schedule, crediting the
// clear-slot refund into the frame's refund counter.
func dynGasSstore(in *Interpreter, frame *Frame, stack *Stack) error {
	if frame.Static {
		return ErrStaticCallModification
	}
	key, newValRaw := stack.Back(0), stack.Back(1)
	old := in.evm.StateDB.GetState(frame.Owner, common.BigToHash(key))
	newVal := common.BigToHash(newValRaw)

	var cost uint64
	switch {
	case old.IsZero() && !newVal.IsZero():
		cost = params.SstoreSetDrop
	case !old.IsZero() && newVal.IsZero():
		frame.RefundAdd(params.RefundSstore)
		cost = params.SstoreClearDrop
	default:
		cost = params.SstoreResetDrop
	}
	return frame.UseDrop(cost)
}

// dynGasReturnRevert prices RETURN/REVERT: memory expansion only, no
// linear term (the bytes are read, not copied into memory).
func dynGasReturnRevert(in *Interpreter, frame *Frame, stack *Stack) error {
	offset, size := stack.Back(0), stack.Back(1)
	return frame.chargeMemory(offset, size, false)
}

// makeDynGasLog builds the dynamicGas for LOGn: memory expansion for the
// logged range, plus LOG_TOPIC_GAS per topic and LOG_DATA_GAS per byte.
func makeDynGasLog(n int) dynamicGasFunc {
	return func(in *Interpreter, frame *Frame, stack *Stack) error {
		if frame.Static {
			return ErrStaticCallModification
		}
		memStart, memLen := stack.Back(0), stack.Back(1)
		if err := frame.chargeMemory(memStart, memLen, false); err != nil {
			return err
		}
		if !memLen.IsUint64() {
			return ErrMemoryOverflow
		}
		cost := uint64(n) * params.LogTopicDrop
		dataCost, overflow := math.SafeMul(memLen.Uint64(), params.LogDataDrop)
		if overflow {
			return ErrMemoryOverflow
		}
		cost, overflow = math.SafeAdd(cost, dataCost)
		if overflow {
			return ErrMemoryOverflow
		}
		return frame.UseDrop(cost)
	}
}

// dynGasCreate prices CREATE: memory expansion over the init-code window
// (the CREATE_GAS constant term is already in operation.constantGas).
func dynGasCreate(in *Interpreter, frame *Frame, stack *Stack) error {
	if frame.Static {
		return ErrStaticCallModification
	}
	offset, size := stack.Back(1), stack.Back(2)
	return frame.chargeMemory(offset, size, false)
}

// dynGasCallCommon prices the CALL family's memory expansion (the wider
// of the args and return windows) plus the value-transfer and
// new-account surcharges. hasValue distinguishes CALL/CALLCODE
// (value operand present) from DELEGATECALL/STATICCALL.
func dynGasCallCommon(in *Interpreter, frame *Frame, stack *Stack, hasValue bool) error {
	var addrIdx, argsOffIdx, argsSizeIdx, retOffIdx, retSizeIdx int
	var value *Word
	if hasValue {
		addrIdx, argsOffIdx, argsSizeIdx, retOffIdx, retSizeIdx = 1, 3, 4, 5, 6
		value = stack.Back(2)
	} else {
		addrIdx, argsOffIdx, argsSizeIdx, retOffIdx, retSizeIdx = 1, 2, 3, 4, 5
	}
	argsOff, argsSize := stack.Back(argsOffIdx), stack.Back(argsSizeIdx)
	retOff, retSize := stack.Back(retOffIdx), stack.Back(retSizeIdx)

	argsNeed, overflow := need(argsOff, argsSize)
	if overflow {
		return ErrMemoryOverflow
	}
	retNeed, overflow := need(retOff, retSize)
	if overflow {
		return ErrMemoryOverflow
	}
	maxNeed := argsNeed
	if retNeed > maxNeed {
		maxNeed = retNeed
	}
	if err := frame.chargeMemoryRange(maxNeed); err != nil {
		return err
	}

	if hasValue && !value.IsZero() {
		cost, overflow := math.SafeAdd(0, params.VtCallDrop)
		if overflow {
			return ErrMemoryOverflow
		}
		addr := common.BigToAddress(stack.Back(addrIdx))
		if !in.evm.StateDB.Exist(addr) {
			cost, overflow = math.SafeAdd(cost, params.NewAcctCallDrop)
			if overflow {
				return ErrMemoryOverflow
			}
		}
		return frame.UseDrop(cost)
	}
	return nil
}

func dynGasCall(in *Interpreter, frame *Frame, stack *Stack) error {
	return dynGasCallCommon(in, frame, stack, true)
}

func dynGasCallCode(in *Interpreter, frame *Frame, stack *Stack) error {
	return dynGasCallCommon(in, frame, stack, true)
}

func dynGasDelegateStaticCall(in *Interpreter, frame *Frame, stack *Stack) error {
	return dynGasCallCommon(in, frame, stack, false)
}
