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

package vm

import "github.com/probeum/dropvm/common"

// StateDB is the persistent world-state collaborator: balances, code,
// and per-account storage. The core never reaches for a concrete
// implementation; it is always handed one.
type StateDB interface {
	GetBalance(addr common.Address) *Word
	SubBalance(addr common.Address, amount *Word)
	AddBalance(addr common.Address, amount *Word)

	GetCode(addr common.Address) []byte
	GetCodeSize(addr common.Address) int
	GetCodeHash(addr common.Address) common.Hash
	SetCode(addr common.Address, code []byte)

	GetNonce(addr common.Address) uint64
	SetNonce(addr common.Address, nonce uint64)

	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)

	Exist(addr common.Address) bool
	CreateAccount(addr common.Address)

	Suicide(addr common.Address, beneficiary common.Address)
	HasSuicided(addr common.Address) bool

	Snapshot() int
	RevertToSnapshot(id int)
}

// BlockContext supplies the block-oracle fields a frame's BLOCKHASH,
// COINBASE, TIMESTAMP, NUMBER, DIFFICULTY, and GASLIMIT opcodes read.
type BlockContext struct {
	GetHash    func(n uint64) common.Hash
	Coinbase   common.Address
	BlockNumber *Word
	Time        *Word
	Difficulty  *Word
	GasLimit    uint64
}

// TxContext supplies the per-top-level-frame transaction fields an
// ORIGIN or GASPRICE opcode reads.
type TxContext struct {
	Origin   common.Address
	DropPrice *Word
}

// Precompile is a host-provided function reachable by calling a
// reserved address, bypassing bytecode interpretation entirely.
type Precompile interface {
	Execute(input []byte, budget uint64) (output []byte, dropsUsed uint64, success bool)
}

// PrecompileRegistry resolves a target address to a Precompile, or nil
// if the address is an ordinary contract.
type PrecompileRegistry interface {
	Lookup(addr common.Address) Precompile
}

// NoPrecompiles is the trivial registry used whenever a host does not
// wire in a real one: nothing is ever a precompile.
type NoPrecompiles struct{}

func (NoPrecompiles) Lookup(common.Address) Precompile { return nil }

// Tracer is the optional per-step observability sink. Every
// method is nil-checked by the interpreter, so a partially populated
// Tracer (e.g. only OnFault set) is valid.
type Tracer struct {
	OnStep  func(step StepInfo)
	OnFault func(step StepInfo, err error)
	OnEnter func(frame *Frame)
	OnExit  func(frame *Frame, ret []byte, err error)
}

// StepInfo is the per-step record handed to Tracer.OnStep/OnFault.
type StepInfo struct {
	PC       uint64
	Op       OpCode
	Drop     uint64
	Depth    int
	StackLen int
	MemSize  int
	Hint     string
}
