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
	mapset "github.com/deckarep/golang-set"
	lru "github.com/hashicorp/golang-lru"

	"github.com/probeum/dropvm/common"
	"github.com/probeum/dropvm/crypto"
)

// destinations is the immutable set of valid JUMP/JUMPDEST targets for a
// piece of code, derived once per distinct code hash.
type destinations map[uint64]struct{}

func (d destinations) has(pos uint64) bool {
	_, ok := d[pos]
	return ok
}

// analysisCache memoizes destinations by code hash so repeat CALLs into
// the same deployed contract don't rescan the byte stream: the scan
// cost is linear and the set is immutable for a code hash's lifetime,
// which is exactly what makes this cache sound.
var analysisCache, _ = lru.New(2048)

func analyze(code []byte) destinations {
	hash := common.BytesToHash(crypto.Keccak256(code))
	if v, ok := analysisCache.Get(hash); ok {
		return v.(destinations)
	}
	d := make(destinations)
	for pc := uint64(0); pc < uint64(len(code)); pc++ {
		op := OpCode(code[pc])
		if op == JUMPDEST {
			d[pc] = struct{}{}
		} else if op.IsPush() {
			pc += uint64(op.PushSize())
		}
	}
	analysisCache.Add(hash, d)
	return d
}

// LogRecord is one LOGn emission.
type LogRecord struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// Frame holds everything attributed to one contract
// execution: code + pc, addressing, the drop budget, stack/memory/
// return-data, the halted/revert/static flags, and the accounting
// surfaced back to the caller on exit.
type Frame struct {
	Code  []byte
	CodeHash common.Hash
	dests destinations

	Owner  common.Address
	Caller common.Address
	Origin common.Address
	Value  *Word
	Input  []byte
	Depth  int

	DropLimit uint64
	Drop      uint64 // remaining
	refund    uint64 // this frame's refund credit, including children merged on success

	Stack  *Stack
	Memory *Memory
	ReturnData []byte

	Halted  bool
	Reverted bool
	Static  bool

	Touched mapset.Set
	Logs    []LogRecord
	LogBloom *bloomAccumulator

	LastOp     OpCode
	PrevOp     OpCode
	StepCount  uint64

	Tracer Tracer
}

// NewFrame constructs a frame ready to run, deriving its jump
// destination set once from code.
func NewFrame(owner, caller, origin common.Address, code, input []byte, value *Word, dropLimit uint64, depth int, static bool) *Frame {
	if value == nil {
		value = new(Word)
	}
	f := &Frame{
		Code:      code,
		CodeHash:  common.BytesToHash(crypto.Keccak256(code)),
		dests:     analyze(code),
		Owner:     owner,
		Caller:    caller,
		Origin:    origin,
		Value:     value,
		Input:     input,
		Depth:     depth,
		DropLimit: dropLimit,
		Drop:      dropLimit,
		Stack:     newstack(),
		Memory:    NewMemory(),
		Static:    static,
		Touched:   mapset.NewSet(),
		LogBloom:  newBloomAccumulator(),
	}
	return f
}

// Release returns pooled structures (the stack) once the frame is done.
func (f *Frame) Release() {
	if f.Stack != nil {
		returnStack(f.Stack)
		f.Stack = nil
	}
}

// GetOp returns the opcode at pc, or STOP if pc runs past the end of
// code.
func (f *Frame) GetOp(pc uint64) OpCode {
	if pc < uint64(len(f.Code)) {
		return OpCode(f.Code[pc])
	}
	return STOP
}

// validJumpdest reports whether pos is in the frame's destination set.
func (f *Frame) validJumpdest(pos uint64) bool {
	return f.dests.has(pos)
}

// UseDrop charges cost against the remaining budget, failing
// NotEnoughDropError without mutating Drop on failure.
func (f *Frame) UseDrop(cost uint64) error {
	if f.Drop < cost {
		return &NotEnoughDropError{Required: cost, Available: f.Drop}
	}
	f.Drop -= cost
	return nil
}

// RefundAdd credits n drops to the frame's refund counter, which the
// parent merges only on a clean exit.
func (f *Frame) RefundAdd(n uint64) { f.refund += n }

// RefundSub debits the refund counter, never going negative.
func (f *Frame) RefundSub(n uint64) {
	if n > f.refund {
		f.refund = 0
		return
	}
	f.refund -= n
}

func (f *Frame) Refund() uint64 { return f.refund }

// mergeChild folds a sub-frame's refund credit, logs, and touched-account
// set into this frame. Callers must only invoke this when the child's
// CallResult carries no error: on revert or failure the three are simply
// never merged, which is how they're discarded.
func (f *Frame) mergeChild(child *CallResult) {
	f.RefundAdd(child.Refund)
	for _, log := range child.Logs {
		f.appendLog(log)
	}
	if child.Touched != nil {
		f.Touched = f.Touched.Union(child.Touched)
	}
}

// fail marks the frame halted by a RuntimeException-class error: all
// remaining drops are consumed and the refund counter is cleared.
func (f *Frame) fail() {
	f.Drop = 0
	f.refund = 0
	f.Halted = true
}
