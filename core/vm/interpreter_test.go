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

	"github.com/probeum/dropvm/common"
)

func runCode(t *testing.T, code []byte, dropLimit uint64) ([]byte, *Frame, error) {
	t.Helper()
	evm := newTestEVM(newMockStateDB())
	frame := newTestFrame(code, dropLimit)
	ret, err := evm.interpreter.Run(frame)
	return ret, frame, err
}

func TestRunJumpSkipsOverDeadCode(t *testing.T) {
	code := []byte{
		byte(PUSH1), 4, // push jump target
		byte(JUMP),
		byte(INVALID), // dead code, never reached
		byte(JUMPDEST),
		byte(PUSH1), 42,
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(RETURN),
	}
	ret, _, err := runCode(t, code, 100000)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), new(Word).SetBytes(ret).Uint64())
}

func TestRunJumpToNonJumpdestFails(t *testing.T) {
	code := []byte{
		byte(PUSH1), 3, // not a JUMPDEST
		byte(JUMP),
		byte(STOP),
	}
	_, _, err := runCode(t, code, 100000)
	require.Error(t, err)
}

func TestRunJumpiSkipsWhenConditionZero(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0,  // condition = false
		byte(PUSH1), 10, // target (the JUMPDEST below, never reached since cond is zero)
		byte(JUMPI),
		byte(PUSH1), 1, // fallthrough path: return 1
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(JUMPDEST),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(RETURN),
	}
	ret, _, err := runCode(t, code, 100000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), new(Word).SetBytes(ret).Uint64())
}

func TestRunStackUnderflowHalts(t *testing.T) {
	code := []byte{byte(ADD)} // ADD needs 2 operands, stack is empty
	_, frame, err := runCode(t, code, 100000)
	require.Error(t, err)
	var want *StackUnderflowError
	assert.ErrorAs(t, err, &want)
	assert.True(t, frame.Halted)
	assert.Zero(t, frame.Drop, "a RuntimeException-class failure must consume all remaining drops")
}

func TestRunInvalidOpcodeHalts(t *testing.T) {
	code := []byte{0xfe} // INVALID's own byte value
	_, frame, err := runCode(t, code, 100000)
	assert.ErrorIs(t, err, ErrInvalidOpcode)
	assert.True(t, frame.Halted)
}

func TestRunOutOfDropHalts(t *testing.T) {
	code := []byte{byte(PUSH1), 1, byte(PUSH1), 1, byte(ADD)}
	_, _, err := runCode(t, code, 1) // not enough to even pay the first PUSH1
	require.Error(t, err)
	var want *NotEnoughDropError
	assert.ErrorAs(t, err, &want)
}

func TestRunStopReturnsNoOutput(t *testing.T) {
	ret, frame, err := runCode(t, []byte{byte(STOP)}, 100000)
	require.NoError(t, err)
	assert.Nil(t, ret)
	assert.True(t, frame.Halted)
}

// TestRunCallMergesChildLogsAndTouchedOnSuccess drives a real CALL opcode
// into deployed code that emits a LOG0, then checks that the caller's
// frame picked up the callee's log — the merge finishCall performs on
// success — and that opCall added the callee to its own touched-account set.
func TestRunCallMergesChildLogsAndTouchedOnSuccess(t *testing.T) {
	state := newMockStateDB()
	callee := common.BytesToAddress([]byte{0x42})
	state.SetCode(callee, []byte{
		byte(PUSH1), 0, // size
		byte(PUSH1), 0, // offset
		byte(LOG0),
		byte(STOP),
	})

	// Stack must read, top to bottom: gas, addr, value, inOffset, inSize,
	// retOffset, retSize — so push in the reverse order.
	code := []byte{
		byte(PUSH1), 0, // retSize
		byte(PUSH1), 0, // retOffset
		byte(PUSH1), 0, // inSize
		byte(PUSH1), 0, // inOffset
		byte(PUSH1), 0, // value
		byte(PUSH20),
	}
	code = append(code, callee.Bytes()...)
	code = append(code, byte(PUSH3), 0x01, 0x86, 0xa0) // gas = 100000
	code = append(code, byte(CALL), byte(STOP))

	evm := newTestEVM(state)
	frame := newTestFrame(code, 1_000_000)
	_, err := evm.interpreter.Run(frame)
	require.NoError(t, err)

	require.Len(t, frame.Logs, 1)
	assert.Equal(t, callee, frame.Logs[0].Address)
	assert.True(t, frame.Touched.Contains(callee))
}
