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

package runtime

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeum/dropvm/common"
	"github.com/probeum/dropvm/core/vm"
)

func TestDefaults(t *testing.T) {
	cfg := new(Config)
	setDefaults(cfg)

	assert.NotNil(t, cfg.BlockNumber)
	assert.NotNil(t, cfg.Time)
	assert.NotNil(t, cfg.Difficulty)
	assert.NotNil(t, cfg.DropPrice)
	assert.NotNil(t, cfg.Value)
	assert.NotNil(t, cfg.GetHashFn)
	assert.NotZero(t, cfg.GasLimit)
	assert.NotZero(t, cfg.DropLimit)
	assert.NotNil(t, cfg.State)
}

func TestExecuteReturnsMemoryWord(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 10,
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
	res, err := Execute(code, nil, nil)
	require.NoError(t, err)

	got := new(uint256.Int).SetBytes(res.ReturnData)
	assert.Equal(t, uint64(10), got.Uint64())
}

func TestEVMSmokeTest(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("crashed with: %v", r)
		}
	}()
	Execute([]byte{
		byte(vm.DIFFICULTY),
		byte(vm.TIMESTAMP),
		byte(vm.GASLIMIT),
		byte(vm.PUSH1), 0,
		byte(vm.ORIGIN),
		byte(vm.BLOCKHASH),
		byte(vm.COINBASE),
	}, nil, nil)
}

func TestCallAgainstExistingState(t *testing.T) {
	state, err := NewMemoryStateDB(0, "")
	require.NoError(t, err)

	address := common.BytesToAddress([]byte{0x0a})
	state.SetCode(address, []byte{
		byte(vm.PUSH1), 10,
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	})

	res, err := Call(address, nil, &Config{State: state})
	require.NoError(t, err)
	assert.NotZero(t, res.DropsUsed)

	got := new(uint256.Int).SetBytes(res.ReturnData)
	assert.Equal(t, uint64(10), got.Uint64())
}

func TestCreateDeploysRuntimeCode(t *testing.T) {
	// init code that returns a one-byte runtime code (a single STOP)
	initCode := []byte{
		byte(vm.PUSH1), byte(vm.STOP),
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE8),
		byte(vm.PUSH1), 1,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
	res, err := Create(initCode, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(vm.STOP)}, res.ReturnData)
	assert.NotEqual(t, common.Address{}, res.Address)
}

func TestExecuteRevert(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0,
		byte(vm.PUSH1), 0,
		byte(vm.REVERT),
	}
	_, err := Execute(code, nil, nil)
	assert.ErrorIs(t, err, vm.ErrExecutionReverted)
}

func TestExecuteBatchRunsIndependently(t *testing.T) {
	returnTen := []byte{
		byte(vm.PUSH1), 10,
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
	returnTwenty := []byte{
		byte(vm.PUSH1), 20,
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
	items := []BatchItem{
		{Code: returnTen},
		{Code: returnTwenty},
	}
	results := ExecuteBatch(context.Background(), items)
	require.Len(t, results, 2)

	for i, want := range []uint64{10, 20} {
		require.NoError(t, results[i].Err)
		got := new(uint256.Int).SetBytes(results[i].Result.ReturnData)
		assert.Equal(t, want, got.Uint64())
	}
}
