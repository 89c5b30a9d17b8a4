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

// mockStateDB is a minimal in-memory StateDB for exercising the EVM
// orchestrator without pulling in the reference core/vm/runtime
// implementation (which itself imports this package).
type mockStateDB struct {
	balances map[common.Address]*Word
	nonces   map[common.Address]uint64
	code     map[common.Address][]byte
	storage  map[common.Address]map[common.Hash]common.Hash
	exists   map[common.Address]bool
	snaps    []map[common.Address]*Word
}

func newMockStateDB() *mockStateDB {
	return &mockStateDB{
		balances: make(map[common.Address]*Word),
		nonces:   make(map[common.Address]uint64),
		code:     make(map[common.Address][]byte),
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
		exists:   make(map[common.Address]bool),
	}
}

func (m *mockStateDB) GetBalance(addr common.Address) *Word {
	if b, ok := m.balances[addr]; ok {
		return new(Word).Set(b)
	}
	return new(Word)
}
func (m *mockStateDB) SubBalance(addr common.Address, amount *Word) {
	b := m.GetBalance(addr)
	m.balances[addr] = b.Sub(b, amount)
}
func (m *mockStateDB) AddBalance(addr common.Address, amount *Word) {
	b := m.GetBalance(addr)
	m.balances[addr] = b.Add(b, amount)
}
func (m *mockStateDB) GetCode(addr common.Address) []byte       { return m.code[addr] }
func (m *mockStateDB) GetCodeSize(addr common.Address) int      { return len(m.code[addr]) }
func (m *mockStateDB) GetCodeHash(common.Address) common.Hash   { return common.Hash{} }
func (m *mockStateDB) SetCode(addr common.Address, code []byte) { m.code[addr] = code }
func (m *mockStateDB) GetNonce(addr common.Address) uint64      { return m.nonces[addr] }
func (m *mockStateDB) SetNonce(addr common.Address, n uint64)   { m.nonces[addr] = n }
func (m *mockStateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	return m.storage[addr][key]
}
func (m *mockStateDB) SetState(addr common.Address, key, value common.Hash) {
	if m.storage[addr] == nil {
		m.storage[addr] = make(map[common.Hash]common.Hash)
	}
	m.storage[addr][key] = value
}
func (m *mockStateDB) Exist(addr common.Address) bool       { return m.exists[addr] }
func (m *mockStateDB) CreateAccount(addr common.Address)    { m.exists[addr] = true }
func (m *mockStateDB) Suicide(common.Address, common.Address) {}
func (m *mockStateDB) HasSuicided(common.Address) bool      { return false }
func (m *mockStateDB) Snapshot() int {
	clone := make(map[common.Address]*Word, len(m.balances))
	for k, v := range m.balances {
		clone[k] = new(Word).Set(v)
	}
	m.snaps = append(m.snaps, clone)
	return len(m.snaps) - 1
}
func (m *mockStateDB) RevertToSnapshot(id int) {
	m.balances = m.snaps[id]
	m.snaps = m.snaps[:id]
}

var _ StateDB = (*mockStateDB)(nil)

func newTestEVM(state StateDB) *EVM {
	return NewEVM(BlockContext{}, TxContext{}, state, nil, Config{})
}

func TestCallRunsDeployedCodeAndReturnsMemory(t *testing.T) {
	state := newMockStateDB()
	addr := common.BytesToAddress([]byte{0x01})
	state.SetCode(addr, []byte{
		byte(PUSH1), 7,
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(RETURN),
	})

	evm := newTestEVM(state)
	result := evm.Call(common.Address{}, addr, nil, 100000, new(Word))
	require.NoError(t, result.Err)
	assert.Less(t, result.Leftover, uint64(100000))
	assert.Equal(t, uint64(7), new(Word).SetBytes(result.ReturnData).Uint64())
}

func TestCallRevertUnwindsStateChanges(t *testing.T) {
	state := newMockStateDB()
	addr := common.BytesToAddress([]byte{0x02})
	caller := common.BytesToAddress([]byte{0x03})
	state.AddBalance(caller, new(Word).SetUint64(1000))
	state.SetCode(addr, []byte{
		byte(PUSH1), 0,
		byte(PUSH1), 0,
		byte(REVERT),
	})

	evm := newTestEVM(state)
	value := new(Word).SetUint64(100)
	result := evm.Call(caller, addr, nil, 100000, value)
	assert.ErrorIs(t, result.Err, ErrExecutionReverted)

	assert.Equal(t, uint64(1000), state.GetBalance(caller).Uint64(), "a reverted call must not leave the value transfer applied")
	assert.Zero(t, state.GetBalance(addr).Uint64())
}

func TestCallValueTransferAppliesOnSuccess(t *testing.T) {
	state := newMockStateDB()
	addr := common.BytesToAddress([]byte{0x04})
	caller := common.BytesToAddress([]byte{0x05})
	state.AddBalance(caller, new(Word).SetUint64(1000))
	state.SetCode(addr, []byte{byte(STOP)})

	evm := newTestEVM(state)
	value := new(Word).SetUint64(250)
	result := evm.Call(caller, addr, nil, 100000, value)
	require.NoError(t, result.Err)

	assert.Equal(t, uint64(750), state.GetBalance(caller).Uint64())
	assert.Equal(t, uint64(250), state.GetBalance(addr).Uint64())
}

func TestStaticCallRejectsStorageWrite(t *testing.T) {
	state := newMockStateDB()
	addr := common.BytesToAddress([]byte{0x06})
	state.SetCode(addr, []byte{
		byte(PUSH1), 1,
		byte(PUSH1), 0,
		byte(SSTORE),
	})

	evm := newTestEVM(state)
	result := evm.StaticCall(common.Address{}, addr, nil, 100000)
	assert.ErrorIs(t, result.Err, ErrStaticCallModification)
}

func TestCreateDeploysReturnedCodeAtDerivedAddress(t *testing.T) {
	state := newMockStateDB()
	caller := common.BytesToAddress([]byte{0x07})

	initCode := []byte{
		byte(PUSH1), byte(STOP),
		byte(PUSH1), 0,
		byte(MSTORE8),
		byte(PUSH1), 1,
		byte(PUSH1), 0,
		byte(RETURN),
	}
	evm := newTestEVM(state)
	addr, result := evm.Create(caller, initCode, 100000, new(Word))
	require.NoError(t, result.Err)
	assert.Equal(t, []byte{byte(STOP)}, result.ReturnData)
	assert.Equal(t, []byte{byte(STOP)}, state.GetCode(addr))
	assert.Equal(t, uint64(1), state.GetNonce(caller))
}

func TestDepthExceededRejectsFurtherCalls(t *testing.T) {
	state := newMockStateDB()
	addr := common.BytesToAddress([]byte{0x08})
	state.SetCode(addr, []byte{byte(STOP)})

	evm := newTestEVM(state)
	evm.depth = 2048 // beyond params.CallCreateDepth

	result := evm.Call(common.Address{}, addr, nil, 100000, new(Word))
	assert.ErrorIs(t, result.Err, ErrDepthExceeded)
}
