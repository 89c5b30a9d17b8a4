// Copyright 2017 The go-probeum Authors
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

import "github.com/probeum/dropvm/params"

type (
	executionFunc func(pc *uint64, in *Interpreter, frame *Frame) ([]byte, error)
	// dynamicGasFunc prices and charges (via frame.UseDrop/frame.chargeMemory)
	// everything beyond an opcode's constantGas: memory expansion and any
	// per-word/per-account terms. It returns only an error —
	// NotEnoughDropError on underfunding, ErrMemoryOverflow or
	// ErrStaticCallModification where those apply, otherwise nil.
	dynamicGasFunc func(in *Interpreter, frame *Frame, stack *Stack) error
)

// operation is one JumpTable slot: everything the interpreter's step
// loop needs to validate, price, and run a single opcode.
type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  dynamicGasFunc
	minStack    int
	maxStack    int
	// jumps marks JUMP/JUMPI, which set pc themselves; the step loop
	// skips its own pc++ for these instead of threading a second
	// return value through every other opFn.
	jumps bool
}

// JumpTable is indexed directly by opcode byte value.
type JumpTable [256]*operation

// stackArgs computes minStack/maxStack from an opcode's input/output
// arity: at least `in` items before, and after popping `in` and
// pushing `out` the depth must still fit under the 1024 limit.
func stackArgs(in, out int) (minStack, maxStack int) {
	return in, params.StackLimit + in - out
}

func newJumpTable() *JumpTable {
	tbl := &JumpTable{}

	set := func(op OpCode, o operation) { tbl[op] = &o }

	// 0x00s: stop and arithmetic
	set(STOP, operation{execute: opStop, constantGas: params.Zero, minStack: 0, maxStack: params.StackLimit})
	set(ADD, withArgs(operation{execute: opAdd, constantGas: params.VeryLow}, 2, 1))
	set(MUL, withArgs(operation{execute: opMul, constantGas: params.Low}, 2, 1))
	set(SUB, withArgs(operation{execute: opSub, constantGas: params.VeryLow}, 2, 1))
	set(DIV, withArgs(operation{execute: opDiv, constantGas: params.Low}, 2, 1))
	set(SDIV, withArgs(operation{execute: opSdiv, constantGas: params.Low}, 2, 1))
	set(MOD, withArgs(operation{execute: opMod, constantGas: params.Low}, 2, 1))
	set(SMOD, withArgs(operation{execute: opSmod, constantGas: params.Low}, 2, 1))
	set(ADDMOD, withArgs(operation{execute: opAddmod, constantGas: params.Mid}, 3, 1))
	set(MULMOD, withArgs(operation{execute: opMulmod, constantGas: params.Mid}, 3, 1))
	set(EXP, withArgs(operation{execute: opExp, dynamicGas: dynGasExp}, 2, 1))
	set(SIGNEXTEND, withArgs(operation{execute: opSignExtend, constantGas: params.Low}, 2, 1))

	// 0x10s: comparison and bitwise logic
	set(LT, withArgs(operation{execute: opLt, constantGas: params.VeryLow}, 2, 1))
	set(GT, withArgs(operation{execute: opGt, constantGas: params.VeryLow}, 2, 1))
	set(SLT, withArgs(operation{execute: opSlt, constantGas: params.VeryLow}, 2, 1))
	set(SGT, withArgs(operation{execute: opSgt, constantGas: params.VeryLow}, 2, 1))
	set(EQ, withArgs(operation{execute: opEq, constantGas: params.VeryLow}, 2, 1))
	set(ISZERO, withArgs(operation{execute: opIszero, constantGas: params.VeryLow}, 1, 1))
	set(AND, withArgs(operation{execute: opAnd, constantGas: params.VeryLow}, 2, 1))
	set(OR, withArgs(operation{execute: opOr, constantGas: params.VeryLow}, 2, 1))
	set(XOR, withArgs(operation{execute: opXor, constantGas: params.VeryLow}, 2, 1))
	set(NOT, withArgs(operation{execute: opNot, constantGas: params.VeryLow}, 1, 1))
	set(BYTE, withArgs(operation{execute: opByte, constantGas: params.VeryLow}, 2, 1))

	// 0x20s: SHA3
	set(SHA3, withArgs(operation{
		execute:     opSha3,
		constantGas: params.Sha3Drop,
		dynamicGas:  dynGasSha3,
	}, 2, 1))

	// 0x30s: environment
	set(ADDRESS, withArgs(operation{execute: opAddress, constantGas: params.Base}, 0, 1))
	set(BALANCE, withArgs(operation{execute: opBalance, constantGas: params.BalanceDrop}, 1, 1))
	set(ORIGIN, withArgs(operation{execute: opOrigin, constantGas: params.Base}, 0, 1))
	set(CALLER, withArgs(operation{execute: opCaller, constantGas: params.Base}, 0, 1))
	set(CALLVALUE, withArgs(operation{execute: opCallValue, constantGas: params.Base}, 0, 1))
	set(CALLDATALOAD, withArgs(operation{execute: opCallDataLoad, constantGas: params.VeryLow}, 1, 1))
	set(CALLDATASIZE, withArgs(operation{execute: opCallDataSize, constantGas: params.Base}, 0, 1))
	set(CALLDATACOPY, withArgs(operation{
		execute: opCallDataCopy, constantGas: params.VeryLow,
		dynamicGas: dynGasCopy(0, 2),
	}, 3, 0))
	set(CODESIZE, withArgs(operation{execute: opCodeSize, constantGas: params.Base}, 0, 1))
	set(CODECOPY, withArgs(operation{
		execute: opCodeCopy, constantGas: params.VeryLow,
		dynamicGas: dynGasCopy(0, 2),
	}, 3, 0))
	set(GASPRICE, withArgs(operation{execute: opGasPrice, constantGas: params.Base}, 0, 1))
	set(EXTCODESIZE, withArgs(operation{execute: opExtCodeSize, constantGas: params.ExtCodeSizeDrop}, 1, 1))
	set(EXTCODECOPY, withArgs(operation{
		execute: opExtCodeCopy, constantGas: params.ExtCodeCopyDrop,
		dynamicGas: dynGasCopy(1, 3),
	}, 4, 0))
	set(RETURNDATASIZE, withArgs(operation{execute: opReturnDataSize, constantGas: params.Base}, 0, 1))
	set(RETURNDATACOPY, withArgs(operation{
		execute: opReturnDataCopy, constantGas: params.VeryLow,
		dynamicGas: dynGasCopy(0, 2),
	}, 3, 0))

	// 0x40s: block oracle
	set(BLOCKHASH, withArgs(operation{execute: opBlockHash, constantGas: params.Ext}, 1, 1))
	set(COINBASE, withArgs(operation{execute: opCoinbase, constantGas: params.Base}, 0, 1))
	set(TIMESTAMP, withArgs(operation{execute: opTimestamp, constantGas: params.Base}, 0, 1))
	set(NUMBER, withArgs(operation{execute: opNumber, constantGas: params.Base}, 0, 1))
	set(DIFFICULTY, withArgs(operation{execute: opDifficulty, constantGas: params.Base}, 0, 1))
	set(GASLIMIT, withArgs(operation{execute: opGasLimit, constantGas: params.Base}, 0, 1))

	// 0x50s: stack, memory, storage, flow
	set(POP, withArgs(operation{execute: opPop, constantGas: params.Base}, 1, 0))
	set(MLOAD, withArgs(operation{
		execute: opMload, constantGas: params.VeryLow,
		dynamicGas: dynGasMemWord(0, 32),
	}, 1, 1))
	set(MSTORE, withArgs(operation{
		execute: opMstore, constantGas: params.VeryLow,
		dynamicGas: dynGasMemWord(0, 32),
	}, 2, 0))
	set(MSTORE8, withArgs(operation{
		execute: opMstore8, constantGas: params.VeryLow,
		dynamicGas: dynGasMemWord(0, 1),
	}, 2, 0))
	set(SLOAD, withArgs(operation{execute: opSload, constantGas: params.SloadDrop}, 1, 1))
	set(SSTORE, withArgs(operation{execute: opSstore, dynamicGas: dynGasSstore}, 2, 0))
	set(JUMP, withArgs(operation{execute: opJump, constantGas: params.Mid, jumps: true}, 1, 0))
	set(JUMPI, withArgs(operation{execute: opJumpi, constantGas: params.High, jumps: true}, 2, 0))
	set(PC, withArgs(operation{execute: opPc, constantGas: params.Base}, 0, 1))
	set(MSIZE, withArgs(operation{execute: opMsize, constantGas: params.Base}, 0, 1))
	set(GAS, withArgs(operation{execute: opGas, constantGas: params.Base}, 0, 1))
	set(JUMPDEST, operation{execute: opJumpdest, constantGas: params.Special, minStack: 0, maxStack: params.StackLimit})

	// 0x60s-0x7f: PUSH1..PUSH32
	for i := 0; i < 32; i++ {
		op := PUSH1 + OpCode(i)
		size := i + 1
		set(op, withArgs(operation{execute: makePush(size), constantGas: params.VeryLow}, 0, 1))
	}

	// 0x80s: DUP1..DUP16
	for i := 1; i <= 16; i++ {
		set(DUP1+OpCode(i-1), withArgs(operation{execute: makeDup(i), constantGas: params.VeryLow}, i, i+1))
	}

	// 0x90s: SWAP1..SWAP16
	for i := 1; i <= 16; i++ {
		set(SWAP1+OpCode(i-1), withArgs(operation{execute: makeSwap(i), constantGas: params.VeryLow}, i+1, i+1))
	}

	// 0xa0s: LOG0..LOG4
	for i := 0; i <= 4; i++ {
		set(LOG0+OpCode(i), withArgs(operation{
			execute: makeLog(i), constantGas: params.LogDrop,
			dynamicGas: makeDynGasLog(i),
		}, i+2, 0))
	}

	// 0xf0s: create/call/return
	set(CREATE, withArgs(operation{
		execute: opCreate, constantGas: params.CreateDrop,
		dynamicGas: dynGasCreate,
	}, 3, 1))
	set(CALL, withArgs(operation{
		execute: opCall, constantGas: params.CallDrop,
		dynamicGas: dynGasCall,
	}, 7, 1))
	set(CALLCODE, withArgs(operation{
		execute: opCallCode, constantGas: params.CallDrop,
		dynamicGas: dynGasCallCode,
	}, 7, 1))
	set(RETURN, withArgs(operation{
		execute: opReturn, dynamicGas: dynGasReturnRevert,
	}, 2, 0))
	set(DELEGATECALL, withArgs(operation{
		execute: opDelegateCall, constantGas: params.CallDrop,
		dynamicGas: dynGasDelegateStaticCall,
	}, 6, 1))
	set(STATICCALL, withArgs(operation{
		execute: opStaticCall, constantGas: params.CallDrop,
		dynamicGas: dynGasDelegateStaticCall,
	}, 6, 1))
	set(REVERT, withArgs(operation{
		execute: opRevert, dynamicGas: dynGasReturnRevert,
	}, 2, 0))
	set(INVALID, operation{execute: opInvalid, minStack: 0, maxStack: params.StackLimit})
	set(SUICIDE, withArgs(operation{execute: opSuicide, constantGas: params.SuicideDrop}, 1, 0))

	return tbl
}

// withArgs fills in minStack/maxStack from (in, out) so every call site
// above states arity once instead of hand-computing the bound.
func withArgs(o operation, in, out int) operation {
	o.minStack, o.maxStack = stackArgs(in, out)
	return o
}
