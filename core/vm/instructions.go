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
	"github.com/probeum/dropvm/crypto"
	"github.com/probeum/dropvm/params"
)

// --- 0x00s: stop and arithmetic ---------------------------------------

func opStop(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Halted = true
	return nil, errStopToken
}

func opAdd(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.Add(&x, y)
	return nil, nil
}

func opMul(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.Mul(&x, y)
	return nil, nil
}

func opSub(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.Sub(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.SMod(&x, y)
	return nil, nil
}

func opAddmod(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y, z := frame.Stack.pop(), frame.Stack.pop(), frame.Stack.peek()
	z.AddMod(&x, &y, z)
	return nil, nil
}

func opMulmod(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y, z := frame.Stack.pop(), frame.Stack.pop(), frame.Stack.peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opExp(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	base, exponent := frame.Stack.pop(), frame.Stack.peek()
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	back, num := frame.Stack.pop(), frame.Stack.peek()
	num.ExtendSign(num, &back)
	return nil, nil
}

// --- 0x10s: comparison and bitwise logic ------------------------------

func opLt(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIszero(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x := frame.Stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x, y := frame.Stack.pop(), frame.Stack.peek()
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x := frame.Stack.peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	th, val := frame.Stack.pop(), frame.Stack.peek()
	val.Byte(&th)
	return nil, nil
}

// --- 0x20s: SHA3 -------------------------------------------------------

func opSha3(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	offset, size := frame.Stack.pop(), frame.Stack.pop()
	data := frame.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	hash := crypto.Keccak256(data)
	frame.Stack.push(new(Word).SetBytes(hash))
	return nil, nil
}

// --- 0x30s: environment -------------------------------------------------

func opAddress(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetBytes(frame.Owner.Bytes()))
	return nil, nil
}

func opBalance(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	slot := frame.Stack.peek()
	addr := common.BigToAddress(slot)
	slot.Set(in.evm.StateDB.GetBalance(addr))
	return nil, nil
}

func opOrigin(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetBytes(in.evm.TxContext.Origin.Bytes()))
	return nil, nil
}

func opCaller(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetBytes(frame.Caller.Bytes()))
	return nil, nil
}

func opCallValue(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).Set(frame.Value))
	return nil, nil
}

func opCallDataLoad(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	x := frame.Stack.peek()
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		data := common.GetData(frame.Input, offset, 32)
		x.SetBytes(data)
	} else {
		x.Clear()
	}
	return nil, nil
}

func opCallDataSize(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetUint64(uint64(len(frame.Input))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	destOffset, offset, size := frame.Stack.pop(), frame.Stack.pop(), frame.Stack.pop()
	data := getDataBounded(frame.Input, &offset, &size)
	frame.Memory.Set(destOffset.Uint64(), size.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetUint64(uint64(len(frame.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	destOffset, offset, size := frame.Stack.pop(), frame.Stack.pop(), frame.Stack.pop()
	data := getDataBounded(frame.Code, &offset, &size)
	frame.Memory.Set(destOffset.Uint64(), size.Uint64(), data)
	return nil, nil
}

func opGasPrice(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).Set(in.evm.TxContext.DropPrice))
	return nil, nil
}

func opExtCodeSize(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	slot := frame.Stack.peek()
	addr := common.BigToAddress(slot)
	slot.SetUint64(uint64(in.evm.StateDB.GetCodeSize(addr)))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	addrWord, destOffset, offset, size := frame.Stack.pop(), frame.Stack.pop(), frame.Stack.pop(), frame.Stack.pop()
	addr := common.BigToAddress(&addrWord)
	code := in.evm.StateDB.GetCode(addr)
	data := getDataBounded(code, &offset, &size)
	frame.Memory.Set(destOffset.Uint64(), size.Uint64(), data)
	return nil, nil
}

func opReturnDataSize(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetUint64(uint64(len(in.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	destOffset, offset, size := frame.Stack.pop(), frame.Stack.pop(), frame.Stack.pop()
	off64, overflow1 := offset.Uint64WithOverflow()
	size64, overflow2 := size.Uint64WithOverflow()
	if overflow1 || overflow2 || off64+size64 > uint64(len(in.returnData)) {
		return nil, ErrReturnDataOutOfBounds
	}
	frame.Memory.Set(destOffset.Uint64(), size64, in.returnData[off64:off64+size64])
	return nil, nil
}

// --- 0x40s: block oracle -------------------------------------------------

func opBlockHash(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	num := frame.Stack.peek()
	if !num.IsUint64() {
		num.Clear()
		return nil, nil
	}
	n := num.Uint64()
	num.SetBytes(in.evm.BlockContext.GetHash(n).Bytes())
	return nil, nil
}

func opCoinbase(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetBytes(in.evm.BlockContext.Coinbase.Bytes()))
	return nil, nil
}

func opTimestamp(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).Set(in.evm.BlockContext.Time))
	return nil, nil
}

func opNumber(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).Set(in.evm.BlockContext.BlockNumber))
	return nil, nil
}

func opDifficulty(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).Set(in.evm.BlockContext.Difficulty))
	return nil, nil
}

func opGasLimit(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetUint64(in.evm.BlockContext.GasLimit))
	return nil, nil
}

// --- 0x50s: stack, memory, storage, flow --------------------------------

func opPop(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.pop()
	return nil, nil
}

func opMload(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	offset := frame.Stack.peek()
	offset.SetBytes(frame.Memory.GetPtr(int64(offset.Uint64()), 32))
	return nil, nil
}

func opMstore(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	offset, val := frame.Stack.pop(), frame.Stack.pop()
	frame.Memory.Set32(offset.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	offset, val := frame.Stack.pop(), frame.Stack.pop()
	frame.Memory.Set(offset.Uint64(), 1, []byte{byte(val.Uint64())})
	return nil, nil
}

func opSload(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	loc := frame.Stack.peek()
	hash := common.BigToHash(loc)
	val := in.evm.StateDB.GetState(frame.Owner, hash)
	loc.SetBytes(val.Bytes())
	return nil, nil
}

func opSstore(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	if frame.Static {
		return nil, ErrStaticCallModification
	}
	loc, val := frame.Stack.pop(), frame.Stack.pop()
	in.evm.StateDB.SetState(frame.Owner, common.BigToHash(&loc), common.BigToHash(&val))
	return nil, nil
}

func opJump(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	dest := frame.Stack.pop()
	if !dest.IsUint64() || !frame.validJumpdest(dest.Uint64()) {
		return nil, ErrBadJumpDestination
	}
	*pc = dest.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	dest, cond := frame.Stack.pop(), frame.Stack.pop()
	if !cond.IsZero() {
		if !dest.IsUint64() || !frame.validJumpdest(dest.Uint64()) {
			return nil, ErrBadJumpDestination
		}
		*pc = dest.Uint64()
	} else {
		*pc++
	}
	return nil, nil
}

func opPc(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetUint64(*pc))
	return nil, nil
}

func opMsize(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetUint64(uint64(frame.Memory.Len())))
	return nil, nil
}

func opGas(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	frame.Stack.push(new(Word).SetUint64(frame.Drop))
	return nil, nil
}

func opJumpdest(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	return nil, nil
}

// --- 0x60s-0x9f: PUSH/DUP/SWAP ------------------------------------------

func pushGas(size int) uint64 {
	if size == 0 {
		return params.Base
	}
	return params.VeryLow
}

func makePush(size int) executionFunc {
	return func(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
		start := *pc + 1
		codeLen := uint64(len(frame.Code))
		var buf [32]byte
		if start >= codeLen {
			frame.Stack.push(new(Word))
		} else {
			end := start + uint64(size)
			if end > codeLen {
				end = codeLen
			}
			copy(buf[32-size:], frame.Code[start:end])
			frame.Stack.push(new(Word).SetBytes(buf[32-size:32]))
		}
		*pc += uint64(size)
		return nil, nil
	}
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
		frame.Stack.dup(n)
		return nil, nil
	}
}

func makeSwap(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
		frame.Stack.swap(n)
		return nil, nil
	}
}

// --- 0xa0s: LOGn ----------------------------------------------------------

func makeLog(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
		if frame.Static {
			return nil, ErrStaticCallModification
		}
		memStart, memLen := frame.Stack.pop(), frame.Stack.pop()
		topics := make([]common.Hash, n)
		for i := 0; i < n; i++ {
			t := frame.Stack.pop()
			topics[i] = common.BigToHash(&t)
		}
		data := frame.Memory.GetCopy(int64(memStart.Uint64()), int64(memLen.Uint64()))
		frame.appendLog(LogRecord{Address: frame.Owner, Topics: topics, Data: data})
		return nil, nil
	}
}

// --- 0xf0s: create/call/return -------------------------------------------

func opCreate(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	if frame.Static {
		return nil, ErrStaticCallModification
	}
	value, offset, size := frame.Stack.pop(), frame.Stack.pop(), frame.Stack.pop()
	code := frame.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))

	// Same 1/64 reserve as the CALL family: CREATE forwards everything
	// else to the init-code frame.
	reserve := frame.Drop / params.CallGasReserveDivisor
	forwarded := frame.Drop - reserve

	addr, result := in.evm.Create(frame.Owner, code, forwarded, &value)
	frame.Drop -= forwarded
	frame.Drop += result.Leftover
	if result.Err != nil && result.Err != ErrExecutionReverted {
		frame.Stack.push(new(Word))
	} else {
		frame.Stack.push(new(Word).SetBytes(addr.Bytes()))
	}
	if result.Err == ErrExecutionReverted {
		in.returnData = result.ReturnData
	} else {
		in.returnData = nil
	}
	if result.Err == nil {
		frame.mergeChild(result)
	}
	return nil, nil
}

func opCall(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	dropReq := frame.Stack.pop()
	addrWord := frame.Stack.pop()
	value := frame.Stack.pop()
	inOffset, inSize := frame.Stack.pop(), frame.Stack.pop()
	retOffset, retSize := frame.Stack.pop(), frame.Stack.pop()

	if frame.Static && !value.IsZero() {
		return nil, ErrStaticCallModification
	}
	addr := common.BigToAddress(&addrWord)
	frame.Touched.Add(addr)
	args := frame.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	// The stipend is a bonus handed to the callee, never charged to the
	// caller: forwarded (deducted from frame.Drop) excludes it, childDrop
	// (the sub-frame's budget) includes it.
	forwarded := callGas(frame.Drop, 0, &dropReq)
	childDrop := forwarded
	if !value.IsZero() {
		childDrop += params.StipendCallDrop
	}

	result := in.evm.Call(frame.Owner, addr, args, childDrop, &value)
	frame.Drop -= forwarded
	frame.Drop += result.Leftover
	return finishCall(frame, in, result, &retOffset, &retSize)
}

func opCallCode(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	dropReq := frame.Stack.pop()
	addrWord := frame.Stack.pop()
	value := frame.Stack.pop()
	inOffset, inSize := frame.Stack.pop(), frame.Stack.pop()
	retOffset, retSize := frame.Stack.pop(), frame.Stack.pop()

	addr := common.BigToAddress(&addrWord)
	frame.Touched.Add(addr)
	args := frame.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	forwarded := callGas(frame.Drop, 0, &dropReq)
	childDrop := forwarded
	if !value.IsZero() {
		childDrop += params.StipendCallDrop
	}

	result := in.evm.CallCode(frame.Owner, addr, args, childDrop, &value)
	frame.Drop -= forwarded
	frame.Drop += result.Leftover
	return finishCall(frame, in, result, &retOffset, &retSize)
}

func opDelegateCall(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	dropReq := frame.Stack.pop()
	addrWord := frame.Stack.pop()
	inOffset, inSize := frame.Stack.pop(), frame.Stack.pop()
	retOffset, retSize := frame.Stack.pop(), frame.Stack.pop()

	addr := common.BigToAddress(&addrWord)
	args := frame.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	callDrop := callGas(frame.Drop, 0, &dropReq)

	result := in.evm.DelegateCall(frame, addr, args, callDrop)
	frame.Drop -= callDrop
	frame.Drop += result.Leftover
	return finishCall(frame, in, result, &retOffset, &retSize)
}

func opStaticCall(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	dropReq := frame.Stack.pop()
	addrWord := frame.Stack.pop()
	inOffset, inSize := frame.Stack.pop(), frame.Stack.pop()
	retOffset, retSize := frame.Stack.pop(), frame.Stack.pop()

	addr := common.BigToAddress(&addrWord)
	frame.Touched.Add(addr)
	args := frame.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	callDrop := callGas(frame.Drop, 0, &dropReq)

	result := in.evm.StaticCall(frame.Owner, addr, args, callDrop)
	frame.Drop -= callDrop
	frame.Drop += result.Leftover
	return finishCall(frame, in, result, &retOffset, &retSize)
}

// finishCall implements the shared tail of every CALL-family opcode:
// push success/failure, merge the sub-frame's refund/logs/touched-set
// into frame on success, stash return data, and copy the output window
// into memory.
func finishCall(frame *Frame, in *Interpreter, result *CallResult, retOffset, retSize *Word) ([]byte, error) {
	if result.Err != nil {
		frame.Stack.push(new(Word))
	} else {
		frame.Stack.push(new(Word).SetOne())
		frame.mergeChild(result)
	}
	if result.Err == nil || result.Err == ErrExecutionReverted {
		in.returnData = result.ReturnData
		if size := retSize.Uint64(); size > 0 {
			frame.Memory.Set(retOffset.Uint64(), size, result.ReturnData)
		}
	} else {
		in.returnData = nil
	}
	return nil, nil
}

func opReturn(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	offset, size := frame.Stack.pop(), frame.Stack.pop()
	ret := frame.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	frame.Halted = true
	frame.ReturnData = ret
	return ret, errStopToken
}

func opRevert(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	offset, size := frame.Stack.pop(), frame.Stack.pop()
	ret := frame.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	frame.Halted = true
	frame.Reverted = true
	frame.ReturnData = ret
	return ret, ErrExecutionReverted
}

func opInvalid(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	return nil, ErrInvalidOpcode
}

func opSuicide(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error) {
	if frame.Static {
		return nil, ErrStaticCallModification
	}
	beneficiaryWord := frame.Stack.pop()
	beneficiary := common.BigToAddress(&beneficiaryWord)
	balance := in.evm.StateDB.GetBalance(frame.Owner)
	in.evm.StateDB.AddBalance(beneficiary, balance)
	in.evm.StateDB.Suicide(frame.Owner, beneficiary)
	frame.Touched.Add(beneficiary)
	frame.Halted = true
	return nil, errStopToken
}

// getDataBounded is common/bytes.go's GetData specialized to *Word
// offset/size operands: opcode operands always arrive as 256-bit stack
// words, but the window itself is bounded to an int64.
func getDataBounded(data []byte, offset, size *Word) []byte {
	off64, overflow := offset.Uint64WithOverflow()
	if overflow {
		off64 = uint64(len(data))
	}
	sz64, overflow := size.Uint64WithOverflow()
	if overflow {
		sz64 = uint64(len(data))
	}
	return common.GetData(data, off64, sz64)
}

