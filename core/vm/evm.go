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

// Package vm implements the drop-denominated, EVM-shaped stack bytecode
// interpreter: opcode dispatch (jump_table.go, instructions.go), gas
// pricing (gas.go), the fetch-decode-execute loop (interpreter.go), and
// the EVM orchestrator below that turns CALL/CREATE-family opcodes into
// nested Frame executions against a host-supplied StateDB.
package vm

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/probeum/dropvm/common"
	"github.com/probeum/dropvm/crypto"
	"github.com/probeum/dropvm/params"
)

// Config bundles the optional, purely observational knobs an embedder
// can set on an EVM; nothing here changes execution semantics.
type Config struct {
	Tracer Tracer
	// NoRecursion disables CALL/CALLCODE/DELEGATECALL/STATICCALL/CREATE
	// from opening sub-frames, returning failure immediately instead —
	// useful for isolating a single frame's own opcode cost in tests.
	NoRecursion bool
}

// EVM is the orchestrator that owns the StateDB and
// block/tx context every frame reads, resolves precompiles, and drives
// CALL-family sub-frame construction, including the balance transfer,
// depth check, static-call restriction, and snapshot/revert bookkeeping
// around each nested Run.
type EVM struct {
	BlockContext
	TxContext

	StateDB     StateDB
	Precompiles PrecompileRegistry
	Config      Config

	depth       int
	interpreter *Interpreter
}

// NewEVM constructs an EVM ready to run top-level frames at depth 0.
func NewEVM(blockCtx BlockContext, txCtx TxContext, statedb StateDB, precompiles PrecompileRegistry, config Config) *EVM {
	if precompiles == nil {
		precompiles = NoPrecompiles{}
	}
	evm := &EVM{
		BlockContext: blockCtx,
		TxContext:    txCtx,
		StateDB:      statedb,
		Precompiles:  precompiles,
		Config:       config,
	}
	evm.interpreter = NewInterpreter(evm)
	return evm
}

func canTransfer(db StateDB, addr common.Address, amount *Word) bool {
	return db.GetBalance(addr).Cmp(amount) >= 0
}

func transfer(db StateDB, from, to common.Address, amount *Word) {
	db.SubBalance(from, amount)
	db.AddBalance(to, amount)
}

// CallResult carries everything a sub-frame execution produces back to
// its caller: the return data and gas left every CALL-family opcode
// already surfaces, plus the frame-local refund credit, log list, and
// touched-account set a caller must fold into its own frame on success
// and discard on revert or failure.
type CallResult struct {
	ReturnData []byte
	Leftover   uint64
	Err        error
	Halted     bool
	Reverted   bool
	Refund     uint64
	Logs       []LogRecord
	Touched    mapset.Set
}

// runFrame is the shared tail of every *CALL/CREATE entry point: depth
// check, snapshot, optional value transfer, interpreter.Run, and
// snapshot revert on failure.
func (evm *EVM) runFrame(frame *Frame, transferValue bool, from, to common.Address) *CallResult {
	if !depthAllowed(evm.depth) {
		leftover := frame.Drop
		frame.Release()
		return &CallResult{Leftover: leftover, Err: ErrDepthExceeded}
	}
	if evm.Config.NoRecursion && evm.depth > 0 {
		leftover := frame.Drop
		frame.Release()
		return &CallResult{Leftover: leftover, Err: ErrDepthExceeded}
	}

	snapshot := evm.StateDB.Snapshot()
	if transferValue && !frame.Value.IsZero() {
		if !canTransfer(evm.StateDB, from, frame.Value) {
			leftover := frame.Drop
			frame.Release()
			return &CallResult{Leftover: leftover, Err: ErrNotEnoughDrop}
		}
		transfer(evm.StateDB, from, to, frame.Value)
	}
	frame.Tracer = evm.Config.Tracer
	if frame.Tracer.OnEnter != nil {
		frame.Tracer.OnEnter(frame)
	}

	evm.depth++
	ret, err := evm.interpreter.Run(frame)
	evm.depth--

	if frame.Tracer.OnExit != nil {
		frame.Tracer.OnExit(frame, ret, err)
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
	}
	result := &CallResult{
		ReturnData: ret,
		Leftover:   frame.Drop,
		Err:        err,
		Halted:     frame.Halted,
		Reverted:   frame.Reverted,
		Refund:     frame.Refund(),
		Logs:       frame.Logs,
		Touched:    frame.Touched,
	}
	frame.Release()
	return result
}

// Call runs target's code as a brand new frame: Owner=Caller=target,
// Origin carries through from the EVM's TxContext.
func (evm *EVM) Call(caller, addr common.Address, input []byte, dropLimit uint64, value *Word) *CallResult {
	if precompile := evm.Precompiles.Lookup(addr); precompile != nil {
		out, used, ok := precompile.Execute(input, dropLimit)
		if !ok {
			return &CallResult{Err: ErrExecutionReverted}
		}
		return &CallResult{ReturnData: out, Leftover: dropLimit - used}
	}
	code := evm.StateDB.GetCode(addr)
	frame := NewFrame(addr, caller, evm.TxContext.Origin, code, input, value, dropLimit, evm.depth, false)
	return evm.runFrame(frame, true, caller, addr)
}

// CallCode runs target's code with Owner left as caller: storage reads
// and writes land in the caller's own account, only the code is
// borrowed.
func (evm *EVM) CallCode(caller, addr common.Address, input []byte, dropLimit uint64, value *Word) *CallResult {
	if precompile := evm.Precompiles.Lookup(addr); precompile != nil {
		out, used, ok := precompile.Execute(input, dropLimit)
		if !ok {
			return &CallResult{Err: ErrExecutionReverted}
		}
		return &CallResult{ReturnData: out, Leftover: dropLimit - used}
	}
	code := evm.StateDB.GetCode(addr)
	frame := NewFrame(caller, caller, evm.TxContext.Origin, code, input, value, dropLimit, evm.depth, false)
	return evm.runFrame(frame, true, caller, caller)
}

// DelegateCall runs target's code with both Owner and Caller left as
// the parent frame's own values, and no value transfer: the sub-frame
// is transparent except for its code and gas accounting.
func (evm *EVM) DelegateCall(parent *Frame, addr common.Address, input []byte, dropLimit uint64) *CallResult {
	if precompile := evm.Precompiles.Lookup(addr); precompile != nil {
		out, used, ok := precompile.Execute(input, dropLimit)
		if !ok {
			return &CallResult{Err: ErrExecutionReverted}
		}
		return &CallResult{ReturnData: out, Leftover: dropLimit - used}
	}
	code := evm.StateDB.GetCode(addr)
	frame := NewFrame(parent.Owner, parent.Caller, evm.TxContext.Origin, code, input, parent.Value, dropLimit, evm.depth, parent.Static)
	return evm.runFrame(frame, false, common.Address{}, common.Address{})
}

// StaticCall runs target's code with the static flag forced on: any
// SSTORE/LOGn/CREATE/SUICIDE, or value-carrying CALL, inside it fails
// with ErrStaticCallModification.
func (evm *EVM) StaticCall(caller, addr common.Address, input []byte, dropLimit uint64) *CallResult {
	if precompile := evm.Precompiles.Lookup(addr); precompile != nil {
		out, used, ok := precompile.Execute(input, dropLimit)
		if !ok {
			return &CallResult{Err: ErrExecutionReverted}
		}
		return &CallResult{ReturnData: out, Leftover: dropLimit - used}
	}
	code := evm.StateDB.GetCode(addr)
	frame := NewFrame(addr, caller, evm.TxContext.Origin, code, input, nil, dropLimit, evm.depth, true)
	return evm.runFrame(frame, false, common.Address{}, common.Address{})
}

// Create deploys code as a new account at an address derived from
// caller's nonce-like counter (see crypto.CreateAddress; DESIGN.md
// records the simplified keccak256(caller ++ nonce) derivation used here).
func (evm *EVM) Create(caller common.Address, initCode []byte, dropLimit uint64, value *Word) (common.Address, *CallResult) {
	nonce := evm.StateDB.GetNonce(caller)
	evm.StateDB.SetNonce(caller, nonce+1)
	contractAddr := crypto.CreateAddress(caller, nonce)

	evm.StateDB.CreateAccount(contractAddr)
	frame := NewFrame(contractAddr, caller, evm.TxContext.Origin, initCode, nil, value, dropLimit, evm.depth, false)

	result := evm.runFrame(frame, true, caller, contractAddr)
	if result.Err != nil {
		return contractAddr, result
	}
	if uint64(len(result.ReturnData)) > params.MaxCodeSize {
		result.Err = ErrMemoryOverflow
		return contractAddr, result
	}
	evm.StateDB.SetCode(contractAddr, result.ReturnData)
	return contractAddr, result
}
