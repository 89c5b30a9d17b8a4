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

import "github.com/probeum/dropvm/params"

// Interpreter drives the fetch-decode-execute loop. One Interpreter is
// created per EVM and reused across every frame that EVM runs; it
// carries no per-frame state itself beyond the last sub-call's return
// data, which the next *CALL/CREATE opcode or RETURNDATA{SIZE,COPY} reads.
type Interpreter struct {
	evm        *EVM
	table      *JumpTable
	returnData []byte
}

// NewInterpreter builds the fixed jump table once per EVM instance.
func NewInterpreter(evm *EVM) *Interpreter {
	return &Interpreter{evm: evm, table: newJumpTable()}
}

// Run executes frame's code from pc 0 until it halts, returning the
// output bytes (RETURN's payload, REVERT's reason, or nil) and either
// nil, ErrExecutionReverted, or a RuntimeException-class error.
func (in *Interpreter) Run(frame *Frame) (ret []byte, err error) {
	var pc uint64

	for {
		op := frame.GetOp(pc)
		operation := in.table[op]
		if operation == nil || operation.execute == nil {
			err = ErrInvalidOpcode
			break
		}

		if sl := frame.Stack.len(); sl < operation.minStack {
			err = &StackUnderflowError{StackLen: sl, Required: operation.minStack}
			break
		} else if sl > operation.maxStack {
			err = &StackOverflowError{StackLen: sl, Limit: operation.maxStack}
			break
		}

		if err = frame.UseDrop(operation.constantGas); err != nil {
			break
		}
		if operation.dynamicGas != nil {
			if err = operation.dynamicGas(in, frame, frame.Stack); err != nil {
				break
			}
		}

		if frame.Tracer.OnStep != nil {
			frame.Tracer.OnStep(StepInfo{
				PC: pc, Op: op, Drop: frame.Drop, Depth: frame.Depth,
				StackLen: frame.Stack.len(), MemSize: frame.Memory.Len(),
			})
		}

		frame.PrevOp = frame.LastOp
		frame.LastOp = op
		frame.StepCount++

		var res []byte
		res, err = operation.execute(&pc, in, frame)
		if err != nil {
			if err == errStopToken {
				ret, err = res, nil
			} else if err == ErrExecutionReverted {
				ret = res
			}
			break
		}
		if res != nil {
			ret = res
		}

		if !operation.jumps {
			pc++
		}
	}

	if isRuntimeFailure(err) {
		if frame.Tracer.OnFault != nil {
			frame.Tracer.OnFault(StepInfo{PC: pc, Depth: frame.Depth, Drop: frame.Drop}, err)
		}
		frame.fail()
		return nil, err
	}
	return ret, err
}

// depthAllowed reports whether a new sub-frame may be opened, bounded
// by params.CallCreateDepth.
func depthAllowed(depth int) bool { return uint64(depth) < params.CallCreateDepth }
