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

// Package runtime wires core/vm into a drivable execution: a Config a
// caller fills in (or lets default), and Execute/Create/Call entry
// points that build the BlockContext/TxContext/StateDB an EVM needs and
// run one top-level frame to completion. It also ships a reference
// StateDB (see statedb.go) and a concurrent batch driver (see batch.go)
// for callers — tests, the CLI, the debug server — that don't bring
// their own world state.
package runtime

import (
	mapset "github.com/deckarep/golang-set"
	"github.com/holiman/uint256"

	"github.com/probeum/dropvm/common"
	"github.com/probeum/dropvm/core/vm"
	"github.com/probeum/dropvm/params"
)

// Config bundles everything Execute/Create/Call needs beyond the code
// and input bytes themselves. Any field left zero is filled by
// setDefaults with an inert value (zero address, zero block number,
// a generous drop limit, a GetHashFn that returns n itself as the hash).
type Config struct {
	Origin      common.Address
	Coinbase    common.Address
	BlockNumber *vm.Word
	Time        *vm.Word
	Difficulty  *vm.Word
	GasLimit    uint64
	DropPrice   *vm.Word
	Value       *vm.Word
	DropLimit   uint64
	GetHashFn   func(n uint64) common.Hash

	State       vm.StateDB
	Precompiles vm.PrecompileRegistry
	EVMConfig   vm.Config
}

func setDefaults(cfg *Config) {
	if cfg.BlockNumber == nil {
		cfg.BlockNumber = new(vm.Word)
	}
	if cfg.Time == nil {
		cfg.Time = new(vm.Word)
	}
	if cfg.Difficulty == nil {
		cfg.Difficulty = new(vm.Word)
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = 30_000_000
	}
	if cfg.DropPrice == nil {
		cfg.DropPrice = new(vm.Word)
	}
	if cfg.Value == nil {
		cfg.Value = new(vm.Word)
	}
	if cfg.DropLimit == 0 {
		cfg.DropLimit = cfg.GasLimit
	}
	if cfg.GetHashFn == nil {
		cfg.GetHashFn = func(n uint64) common.Hash {
			return common.BytesToHash(uint256.NewInt(n).Bytes())
		}
	}
	if cfg.State == nil {
		db, _ := NewMemoryStateDB(0, "")
		cfg.State = db
	}
}

func newEVM(cfg *Config) *vm.EVM {
	blockCtx := vm.BlockContext{
		GetHash:     cfg.GetHashFn,
		Coinbase:    cfg.Coinbase,
		BlockNumber: cfg.BlockNumber,
		Time:        cfg.Time,
		Difficulty:  cfg.Difficulty,
		GasLimit:    cfg.GasLimit,
	}
	txCtx := vm.TxContext{
		Origin:    cfg.Origin,
		DropPrice: cfg.DropPrice,
	}
	return vm.NewEVM(blockCtx, txCtx, cfg.State, cfg.Precompiles, cfg.EVMConfig)
}

// Result is the driver's result surface to the host: everything a
// top-level frame produced, not just its return bytes.
type Result struct {
	ReturnData []byte
	Address    common.Address
	DropsUsed  uint64
	Halted     bool
	Reverted   bool
	Refund     uint64
	Logs       []vm.LogRecord
	Touched    []common.Address
}

// newResult builds a Result from the EVM's CallResult for a top-level
// frame that consumed dropLimit drops from the start.
func newResult(addr common.Address, dropLimit uint64, r *vm.CallResult) *Result {
	return &Result{
		ReturnData: r.ReturnData,
		Address:    addr,
		DropsUsed:  dropLimit - r.Leftover,
		Halted:     r.Halted,
		Reverted:   r.Reverted,
		Refund:     r.Refund,
		Logs:       r.Logs,
		Touched:    touchedAddresses(r.Touched),
	}
}

// touchedAddresses flattens the frame-local touched-account set into a
// plain slice for the host-facing Result.
func touchedAddresses(s mapset.Set) []common.Address {
	if s == nil {
		return nil
	}
	items := s.ToSlice()
	out := make([]common.Address, 0, len(items))
	for _, it := range items {
		out = append(out, it.(common.Address))
	}
	return out
}

// Execute deploys code as init code (via a synthetic Create) and, when
// input is non-empty, then calls the resulting contract with input as
// calldata; with empty input the Result is the Create's own. This is the
// "run some bytecode from scratch" entry point tests reach for.
func Execute(code, input []byte, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	evm := newEVM(cfg)
	sender := cfg.Origin
	addr, created := evm.Create(sender, code, cfg.DropLimit, cfg.Value)
	if created.Err != nil {
		return newResult(addr, cfg.DropLimit, created), created.Err
	}
	if len(input) == 0 {
		return newResult(addr, cfg.DropLimit, created), nil
	}
	called := evm.Call(sender, addr, input, created.Leftover, cfg.Value)
	return newResult(addr, cfg.DropLimit, called), called.Err
}

// Create runs code as init code against cfg.State, without a following
// call: the equivalent of a bare CREATE transaction.
func Create(code []byte, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)
	evm := newEVM(cfg)
	addr, result := evm.Create(cfg.Origin, code, cfg.DropLimit, cfg.Value)
	return newResult(addr, cfg.DropLimit, result), result.Err
}

// Call runs the code already deployed at address against cfg.State,
// passing input as calldata — the entry point for calling into an
// already-populated StateDB (contrast with Execute, which deploys
// fresh code first).
func Call(address common.Address, input []byte, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)
	evm := newEVM(cfg)
	result := evm.Call(cfg.Origin, address, input, cfg.DropLimit, cfg.Value)
	return newResult(address, cfg.DropLimit, result), result.Err
}

// StackLimit re-exports params.StackLimit for callers that want to
// size their own buffers without importing core/vm/params directly.
const StackLimit = params.StackLimit
